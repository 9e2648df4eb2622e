package db

import (
	"context"

	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user := models.User{}
	if err := repo.database.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	user := models.User{}
	if err := repo.database.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	return repo.database.WithContext(ctx).Create(user).Error
}

func (repo *UserRepository) Save(ctx context.Context, user *models.User) error {
	return repo.database.WithContext(ctx).Save(user).Error
}
