package db

import "gorm.io/gorm"

type Repositories struct {
	Users   *UserRepository
	History *HistoryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		History: NewHistoryRepository(database),
	}
}
