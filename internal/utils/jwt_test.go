package utils

import (
	"testing"
	"time"

	"symptom-checker-server/internal/models"
)

func TestIssueAndValidateToken(t *testing.T) {
	user := &models.User{Email: "jane@example.com"}
	user.ID = "0b6c8f0e-7f5e-4d0c-9a53-0a1b2c3d4e5f"

	token, err := NewTokenIssuer("secret", time.Hour).Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Subject != user.ID {
		t.Fatalf("unexpected claims %#v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	user := &models.User{Email: "jane@example.com"}
	user.ID = "user-1"

	valid, err := NewTokenIssuer("secret", time.Hour).Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expired, err := NewTokenIssuer("secret", -time.Minute).Issue(user)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}

	tests := map[string]struct {
		token  string
		secret string
	}{
		"wrong secret": {token: valid, secret: "other"},
		"expired":      {token: expired, secret: "secret"},
		"malformed":    {token: "not.a.token", secret: "secret"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token, tt.secret); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
