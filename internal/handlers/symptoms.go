package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"symptom-checker-server/internal/middleware"
	"symptom-checker-server/internal/scoring"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

const maxAge = 150

// SymptomHandler exposes the analysis pipeline.
type SymptomHandler struct {
	Analysis     *services.AnalysisService
	Auth         *services.AuthService
	Logger       *zap.Logger
	ExposeErrors bool
}

// NewSymptomHandler creates a new SymptomHandler.
func NewSymptomHandler(analysis *services.AnalysisService, auth *services.AuthService, logger *zap.Logger, exposeErrors bool) *SymptomHandler {
	return &SymptomHandler{Analysis: analysis, Auth: auth, Logger: logger, ExposeErrors: exposeErrors}
}

// AgeValue accepts an age sent either as a JSON number or as a string.
type AgeValue string

func (a *AgeValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*a = AgeValue(strings.TrimSpace(text))
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return errors.New("age must be a number or a numeric string")
	}
	*a = AgeValue(number.String())
	return nil
}

func (a AgeValue) validate() error {
	if a == "" {
		return nil
	}
	age, err := strconv.Atoi(string(a))
	if err != nil || age < 0 || age > maxAge {
		return fmt.Errorf("age must be a whole number between 0 and %d", maxAge)
	}
	return nil
}

// AnalyzeRequest carries free text, an explicit symptom list, or both. A
// non-empty list takes precedence.
type AnalyzeRequest struct {
	Text     string   `json:"text"`
	Symptoms []string `json:"symptoms"`
	Age      AgeValue `json:"age"`
}

// Analyze runs the full pipeline. Authenticated callers without an age in
// the request fall back to their profile age.
func (h *SymptomHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := req.Age.validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.GetUserIDFromContext(c)
	age := string(req.Age)
	if age == "" && userID != "" {
		age = h.Auth.ProfileAge(ctx, userID)
	}

	result, err := h.Analysis.Analyze(ctx, services.AnalysisInput{
		Text:     req.Text,
		Symptoms: req.Symptoms,
		Age:      age,
		UserID:   userID,
	})
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	utils.SuccessWithWarnings(c, "Symptoms analyzed successfully", result, result.Warnings)
}

// ParseRequest carries free text to run through the extractor only.
type ParseRequest struct {
	Text string `json:"text" binding:"required"`
}

// Parse extracts symptoms without scoring them.
func (h *SymptomHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	outcome, err := h.Analysis.ParseOnly(c.Request.Context(), req.Text, userID)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	if !outcome.IsValid {
		utils.ErrorDetails(c, http.StatusBadRequest, "No valid symptoms found in input", outcome.Error, outcome.Warnings, outcome)
		return
	}
	utils.SuccessWithWarnings(c, "Symptoms parsed successfully", outcome, outcome.Warnings)
}

func (h *SymptomHandler) respondAnalysisError(c *gin.Context, err error) {
	var extractionErr *services.ExtractionError
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.As(err, &extractionErr):
		utils.ErrorDetails(c, http.StatusBadRequest, "No valid symptoms found in input",
			extractionErr.Result.Error,
			extractionErr.Result.Warnings,
			gin.H{"originalInput": extractionErr.Result.OriginalInput})
	case errors.Is(err, scoring.ErrPredictionFailed):
		h.Logger.Error("symptom analysis failed", zap.Error(err))
		utils.ErrorDetails(c, http.StatusInternalServerError, "Failed to analyze symptoms", err.Error(), nil, nil)
	default:
		respondInternal(c, h.Logger, h.ExposeErrors, "symptom analysis failed", err)
	}
}
