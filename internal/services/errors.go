package services

import (
	"errors"

	"symptom-checker-server/internal/models"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrHistoryNotFound = errors.New("history record not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrInvalidLogin    = errors.New("invalid email or password")
)

// ExtractionError is returned when free text yields no usable symptoms.
// Result carries the original input, warnings and error message unchanged.
type ExtractionError struct {
	Result models.ParseResult
}

func (e *ExtractionError) Error() string {
	if e.Result.Error != "" {
		return e.Result.Error
	}
	return "No valid symptoms could be identified from your input"
}
