package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context, userID uuid.UUID) (*Settings, error) {
	s := &Settings{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT low_stock_alerts, expiry_alerts, sales_reports, recommendation_frequency, updated_at
		FROM user_settings WHERE user_id=$1`, userID).
		Scan(&s.LowStockAlerts, &s.ExpiryAlerts, &s.SalesReports, &s.RecommendationFrequency, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no settings for %s", userID)
	}
	return s, err
}

func (r *postgresRepo) Save(ctx context.Context, s *Settings) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO user_settings
		  (user_id, low_stock_alerts, expiry_alerts, sales_reports, recommendation_frequency)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id) DO UPDATE SET
		  low_stock_alerts = EXCLUDED.low_stock_alerts,
		  expiry_alerts = EXCLUDED.expiry_alerts,
		  sales_reports = EXCLUDED.sales_reports,
		  recommendation_frequency = EXCLUDED.recommendation_frequency,
		  updated_at = NOW()
		RETURNING updated_at`,
		s.UserID, s.LowStockAlerts, s.ExpiryAlerts, s.SalesReports, s.RecommendationFrequency).
		Scan(&s.UpdatedAt)
}
