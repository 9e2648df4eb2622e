package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"symptom-checker-server/internal/middleware"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

const dateLayout = "2006-01-02"

// HistoryHandler serves the authenticated user's symptom history.
type HistoryHandler struct {
	History      *services.HistoryService
	Analytics    *services.AnalyticsService
	Logger       *zap.Logger
	ExposeErrors bool
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history *services.HistoryService, analytics *services.AnalyticsService, logger *zap.Logger, exposeErrors bool) *HistoryHandler {
	return &HistoryHandler{History: history, Analytics: analytics, Logger: logger, ExposeErrors: exposeErrors}
}

// HistoryQuery holds the listing query string. Dates are RFC 3339 timestamps
// or plain YYYY-MM-DD days.
type HistoryQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=10" binding:"min=1,max=100"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// List returns a page of history, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var query HistoryQuery
	if !utils.BindQuery(c, &query) {
		return
	}

	startDate, err := parseQueryDate(query.StartDate, false)
	if err != nil {
		utils.BadRequest(c, "startDate must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
		return
	}
	endDate, err := parseQueryDate(query.EndDate, true)
	if err != nil {
		utils.BadRequest(c, "endDate must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
		return
	}

	page, err := h.History.List(c.Request.Context(), userID, models.HistoryFilter{
		StartDate: startDate,
		EndDate:   endDate,
		Page:      query.Page,
		Limit:     query.Limit,
	})
	if errors.Is(err, services.ErrValidation) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "list history failed", err)
		return
	}

	utils.Success(c, "History fetched successfully", page)
}

// AnalyticsQuery holds the analytics window in months.
type AnalyticsQuery struct {
	Months int `form:"months,default=6"`
}

// GetAnalytics summarizes the user's recent history.
func (h *HistoryHandler) GetAnalytics(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var query AnalyticsQuery
	if !utils.BindQuery(c, &query) {
		return
	}

	summary, err := h.Analytics.Summarize(c.Request.Context(), userID, query.Months)
	if errors.Is(err, services.ErrValidation) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "history analytics failed", err)
		return
	}

	utils.Success(c, "Analytics fetched successfully", summary)
}

// Get returns a single history record owned by the caller.
func (h *HistoryHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	record, err := h.History.Get(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrHistoryNotFound) {
		utils.NotFound(c, "History item not found")
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "get history failed", err)
		return
	}

	utils.Success(c, "History item fetched successfully", record)
}

// Delete removes a history record owned by the caller.
func (h *HistoryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	err := h.History.Delete(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrHistoryNotFound) {
		utils.NotFound(c, "History item not found")
		return
	}
	if err != nil {
		respondInternal(c, h.Logger, h.ExposeErrors, "delete history failed", err)
		return
	}

	utils.Success(c, "History item deleted successfully", nil)
}

// parseQueryDate accepts RFC 3339 or YYYY-MM-DD. A plain end date covers the
// whole day.
func parseQueryDate(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}
