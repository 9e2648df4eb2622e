package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"symptom-checker-server/internal/middleware"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Auth         *services.AuthService
	Logger       *zap.Logger
	ExposeErrors bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService, logger *zap.Logger, exposeErrors bool) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger, ExposeErrors: exposeErrors}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"max=100"`
	Age      *int   `json:"age" binding:"omitempty,min=0,max=150"`
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
	})
	if errors.Is(err, services.ErrEmailTaken) {
		utils.Conflict(c, "User with this email already exists")
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "registration failed", err)
		return
	}

	utils.Created(c, "User registered successfully", result)
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidLogin) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "login failed", err)
		return
	}

	utils.Success(c, "Login successful", result)
}

// GetProfile handles fetching the currently authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.Auth.Profile(c.Request.Context(), userID)
	if errors.Is(err, services.ErrUserNotFound) {
		utils.NotFound(c, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "load profile failed", err)
		return
	}

	utils.Success(c, "Profile fetched successfully", gin.H{"user": user.Sanitize()})
}

// UpdateProfileRequest represents the request body for updating user profile.
// Omitted fields keep their current value.
type UpdateProfileRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
	Age  *int    `json:"age" binding:"omitempty,min=0,max=150"`
}

// UpdateProfile handles updating the currently authenticated user's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Auth.UpdateProfile(c.Request.Context(), userID, services.ProfileUpdate{
		Name: req.Name,
		Age:  req.Age,
	})
	if errors.Is(err, services.ErrUserNotFound) {
		utils.NotFound(c, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "update profile failed", err)
		return
	}

	utils.Success(c, "Profile updated successfully", gin.H{"user": user.Sanitize()})
}
