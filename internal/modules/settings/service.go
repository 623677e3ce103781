package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines settings business logic.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Settings, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*Settings, error)
}

// FrequencyFunc is told when a user saves a new recommendation frequency.
type FrequencyFunc func(Frequency) error

type service struct {
	repo        Repository
	onFrequency FrequencyFunc
}

// NewService creates a settings service. onFrequency may be nil.
func NewService(repo Repository, onFrequency FrequencyFunc) Service {
	return &service{repo: repo, onFrequency: onFrequency}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Settings, error) {
	st, err := s.repo.Get(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return Defaults(userID), nil
	}
	return st, err
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*Settings, error) {
	st, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	prev := st.RecommendationFrequency

	if req.LowStockAlerts != nil {
		st.LowStockAlerts = *req.LowStockAlerts
	}
	if req.ExpiryAlerts != nil {
		st.ExpiryAlerts = *req.ExpiryAlerts
	}
	if req.SalesReports != nil {
		st.SalesReports = *req.SalesReports
	}
	if req.RecommendationFrequency != "" {
		f := Frequency(strings.ToLower(string(req.RecommendationFrequency)))
		if !f.Valid() {
			return nil, apperr.Invalid("recommendation_frequency must be one of high, medium, low")
		}
		st.RecommendationFrequency = f
	}

	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}
	if st.RecommendationFrequency != prev && s.onFrequency != nil {
		if err := s.onFrequency(st.RecommendationFrequency); err != nil {
			zap.S().Warnf("reschedule recommendations: %v", err)
		}
	}
	return st, nil
}
