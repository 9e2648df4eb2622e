package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistoryRepository is the persistence contract for symptom history.
type HistoryRepository interface {
	HistoryWriter
	FindByUser(ctx context.Context, userID string, filter models.HistoryFilter) ([]models.SymptomHistory, int64, error)
	FindSince(ctx context.Context, userID string, since time.Time) ([]models.SymptomHistory, error)
	FindByIDForUser(ctx context.Context, id string, userID string) (models.SymptomHistory, error)
	DeleteForUser(ctx context.Context, id string, userID string) (int64, error)
}

// Pagination describes one page of a history listing.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// HistoryPage is a page of a user's history, newest first.
type HistoryPage struct {
	History    []models.SymptomHistory `json:"history"`
	Pagination Pagination              `json:"pagination"`
}

// HistoryService reads and deletes history records on behalf of their owner.
type HistoryService struct {
	history HistoryRepository
}

func NewHistoryService(history HistoryRepository) *HistoryService {
	return &HistoryService{history: history}
}

// List returns one page of the user's history. Page defaults to 1 and limit
// to 10; a limit above 100 or an end date before the start date is rejected.
func (s *HistoryService) List(ctx context.Context, userID string, filter models.HistoryFilter) (*HistoryPage, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrValidation)
	}
	if filter.Limit < 1 || filter.Limit > maxHistoryLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, maxHistoryLimit)
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
	}

	records, total, err := s.history.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &HistoryPage{
		History: records,
		Pagination: Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: filter.Limit,
		},
	}, nil
}

// Get returns a single record owned by userID.
func (s *HistoryService) Get(ctx context.Context, userID string, id string) (models.SymptomHistory, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.SymptomHistory{}, ErrHistoryNotFound
	}

	record, err := s.history.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SymptomHistory{}, ErrHistoryNotFound
	}
	if err != nil {
		return models.SymptomHistory{}, fmt.Errorf("get history: %w", err)
	}
	return record, nil
}

// Delete removes a record owned by userID. Records of other users are
// reported as not found.
func (s *HistoryService) Delete(ctx context.Context, userID string, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrHistoryNotFound
	}

	deleted, err := s.history.DeleteForUser(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	if deleted == 0 {
		return ErrHistoryNotFound
	}
	return nil
}
