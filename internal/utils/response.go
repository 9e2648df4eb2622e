package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status   string      `json:"status"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessWithWarnings sends a success response that carries non-fatal warnings.
func SuccessWithWarnings(c *gin.Context, message string, data interface{}, warnings []string) {
	c.JSON(http.StatusOK, ResponseData{
		Status:   StatusSuccess,
		Message:  message,
		Data:     data,
		Warnings: warnings,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ResponseData{
		Status:  StatusError,
		Message: message,
	})
}

// ErrorDetails sends an error response with the detail fields filled in.
func ErrorDetails(c *gin.Context, statusCode int, message string, errorText string, warnings []string, data interface{}) {
	c.JSON(statusCode, ResponseData{
		Status:   StatusError,
		Message:  message,
		Data:     data,
		Warnings: warnings,
		Error:    errorText,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict error response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
