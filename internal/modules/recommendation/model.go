package recommendation

import (
	"time"

	"github.com/google/uuid"
)

// Type is what kind of action a recommendation suggests.
type Type string

const (
	TypeDiscount Type = "discount"
	TypeRestock  Type = "restock"
	TypePricing  Type = "pricing"
)

// Valid reports whether t is a known recommendation type.
func (t Type) Valid() bool {
	switch t {
	case TypeDiscount, TypeRestock, TypePricing:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Recommendation is a suggested action on a product.
type Recommendation struct {
	ID              uuid.UUID  `json:"id"`
	Type            Type       `json:"type"`
	ProductID       *uuid.UUID `json:"product_id,omitempty"`
	ProductName     string     `json:"product_name,omitempty"`
	Message         string     `json:"message"`
	SuggestedAction string     `json:"suggested_action"`
	Priority        Priority   `json:"priority"`
	IsRead          bool       `json:"is_read"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ListFilter narrows a listing. Empty fields match everything; read
// recommendations are only included when IncludeRead is set.
type ListFilter struct {
	Type        Type
	Priority    Priority
	IncludeRead bool
	Limit       int
}

// Counts holds unread totals per type plus "all".
type Counts map[string]int
