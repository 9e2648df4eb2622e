package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

// UserRepository is the persistence contract for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Age      *int
}

// ProfileUpdate holds the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Name *string
	Age  *int
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User  models.UserSanitized `json:"user"`
	Token string               `json:"token"`
}

type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
}

func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	user := models.User{
		Email: email,
		Name:  strings.TrimSpace(input.Name),
		Age:   input.Age,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.authenticate(&user)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidLogin
	}

	return s.authenticate(&user)
}

// Profile loads the account of an authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Age != nil {
		user.Age = update.Age
	}

	if err := s.users.Save(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// ProfileAge returns the stored age of userID, or an empty string when the
// user has none or cannot be loaded.
func (s *AuthService) ProfileAge(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ""
	}
	return user.AgeString()
}

func (s *AuthService) authenticate(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user.Sanitize(), Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
