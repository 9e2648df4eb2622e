package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

type HistoryRepository struct {
	database *gorm.DB
}

func NewHistoryRepository(database *gorm.DB) *HistoryRepository {
	return &HistoryRepository{database: database}
}

func (repo *HistoryRepository) Create(ctx context.Context, record *models.SymptomHistory) error {
	return repo.database.WithContext(ctx).Create(record).Error
}

// FindByUser returns one page of the user's records, newest first, and the
// number of records matching the filter.
func (repo *HistoryRepository) FindByUser(ctx context.Context, userID string, filter models.HistoryFilter) ([]models.SymptomHistory, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("user_id = ?", userID)
		if !filter.StartDate.IsZero() {
			tx = tx.Where("timestamp >= ?", filter.StartDate.UTC())
		}
		if !filter.EndDate.IsZero() {
			tx = tx.Where("timestamp <= ?", filter.EndDate.UTC())
		}
		return tx
	}

	var total int64
	if err := repo.database.WithContext(ctx).Model(&models.SymptomHistory{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := make([]models.SymptomHistory, 0)
	query := repo.database.WithContext(ctx).Scopes(scope).Order("timestamp DESC, created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset())
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindSince returns the user's records with a timestamp at or after since,
// oldest first.
func (repo *HistoryRepository) FindSince(ctx context.Context, userID string, since time.Time) ([]models.SymptomHistory, error) {
	records := make([]models.SymptomHistory, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since.UTC()).
		Order("timestamp ASC, created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *HistoryRepository) FindByIDForUser(ctx context.Context, id string, userID string) (models.SymptomHistory, error) {
	record := models.SymptomHistory{}
	if err := repo.database.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		return models.SymptomHistory{}, err
	}
	return record, nil
}

// DeleteForUser removes a record only when userID owns it and reports how
// many rows were deleted.
func (repo *HistoryRepository) DeleteForUser(ctx context.Context, id string, userID string) (int64, error) {
	result := repo.database.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.SymptomHistory{})
	return result.RowsAffected, result.Error
}
