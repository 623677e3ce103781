// Package auth issues and checks the bearer tokens that guard the API.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*Token, error)
}

// Accounts looks up stored credentials by email.
type Accounts interface {
	Credentials(ctx context.Context, email string) (uuid.UUID, string, error)
}

// Token is a signed access token and its expiry.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	UserID      string `json:"user_id"`
}
