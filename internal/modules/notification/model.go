package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type is the severity shown for a notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeSuccess Type = "success"
)

// Category says what a notification is about; user settings hide some
// categories.
type Category string

const (
	CategoryStock          Category = "stock"
	CategoryExpiry         Category = "expiry"
	CategorySales          Category = "sales"
	CategoryRecommendation Category = "recommendation"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	Type      Type      `json:"type"`
	Category  Category  `json:"category"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"is_read"`
}

// Visibility selects which categories a reader wants. The zero value hides
// the optional categories; use ShowAll for everything.
type Visibility struct {
	LowStock bool
	Expiry   bool
	Sales    bool
}

// ShowAll shows every category.
var ShowAll = Visibility{LowStock: true, Expiry: true, Sales: true}

// Shows reports whether n passes the filter.
func (v Visibility) Shows(n Notification) bool {
	switch n.Category {
	case CategoryStock:
		return v.LowStock
	case CategoryExpiry:
		return v.Expiry
	case CategorySales:
		return v.Sales
	default:
		return true
	}
}
