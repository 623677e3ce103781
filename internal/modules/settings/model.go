package settings

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is how often recommendations are generated.
type Frequency string

const (
	FrequencyHigh   Frequency = "high"
	FrequencyMedium Frequency = "medium"
	FrequencyLow    Frequency = "low"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyHigh, FrequencyMedium, FrequencyLow:
		return true
	}
	return false
}

// Settings are a user's alert and reporting preferences.
type Settings struct {
	UserID                  uuid.UUID `json:"user_id"`
	LowStockAlerts          bool      `json:"low_stock_alerts"`
	ExpiryAlerts            bool      `json:"expiry_alerts"`
	SalesReports            bool      `json:"sales_reports"`
	RecommendationFrequency Frequency `json:"recommendation_frequency"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Defaults are the settings of a user who never saved any.
func Defaults(userID uuid.UUID) *Settings {
	return &Settings{
		UserID:                  userID,
		LowStockAlerts:          true,
		ExpiryAlerts:            true,
		SalesReports:            true,
		RecommendationFrequency: FrequencyMedium,
	}
}

// UpdateRequest changes only the fields that are set.
type UpdateRequest struct {
	LowStockAlerts          *bool     `json:"low_stock_alerts"`
	ExpiryAlerts            *bool     `json:"expiry_alerts"`
	SalesReports            *bool     `json:"sales_reports"`
	RecommendationFrequency Frequency `json:"recommendation_frequency"`
}
