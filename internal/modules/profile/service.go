package profile

import (
	"context"
	"strings"

	"github.com/georgemunganga/retailops-backend/internal/platform/validate"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service defines the interface for profile-related business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	UpdateProfile(ctx context.Context, id string, req UpdateRequest) (*Profile, error)
	Credentials(ctx context.Context, email string) (uuid.UUID, string, error)
}

type service struct {
	repo Repository
}

// NewService creates a new profile service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Profile, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         "staff",
		Country:      DefaultCountry,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, req UpdateRequest) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.FullName = strings.TrimSpace(req.FullName)
	p.AvatarURL = strings.TrimSpace(req.AvatarURL)
	p.Phone = strings.TrimSpace(req.Phone)
	p.Address = strings.TrimSpace(req.Address)
	p.City = strings.TrimSpace(req.City)
	p.PostalCode = strings.TrimSpace(req.PostalCode)
	p.Country = strings.TrimSpace(req.Country)
	if p.Country == "" {
		p.Country = DefaultCountry
	}
	p.Bio = strings.TrimSpace(req.Bio)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Credentials returns the id and password hash registered for email.
func (s *service) Credentials(ctx context.Context, email string) (uuid.UUID, string, error) {
	p, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return uuid.Nil, "", err
	}
	return p.ID, p.PasswordHash, nil
}
