package profile

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCountry is assumed when a profile does not name one.
const DefaultCountry = "South Africa"

// Profile is a staff member who can sign in to the dashboard.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	FullName string `json:"full_name"`
}

// UpdateRequest replaces the editable fields. Email and role cannot change.
type UpdateRequest struct {
	FullName   string `json:"full_name"`
	AvatarURL  string `json:"avatar_url"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Bio        string `json:"bio"`
}
