package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)

type service struct {
	accounts Accounts
	tokens   *Tokens
}

// NewService creates a new auth service.
func NewService(accounts Accounts, tokens *Tokens) Service {
	return &service{accounts: accounts, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*Token, error) {
	id, hash, err := s.accounts.Credentials(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return s.tokens.Issue(id)
}
