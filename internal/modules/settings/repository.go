package settings

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for user settings.
type Repository interface {
	// Get returns apperr.ErrNotFound when the user has no saved settings.
	Get(ctx context.Context, userID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
