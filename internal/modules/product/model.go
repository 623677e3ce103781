package product

import (
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/google/uuid"
)

// DateLayout is the wire format of expiry dates.
const DateLayout = "2006-01-02"

// Product is a stocked item in the shop.
type Product struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Price        float64    `json:"price"`
	CostPrice    float64    `json:"cost_price"`
	Quantity     int        `json:"quantity"`
	ExpiryDate   time.Time  `json:"expiry_date"`
	ImageURL     string     `json:"image_url,omitempty"`
	Description  string     `json:"description,omitempty"`
	LastSaleDate *time.Time `json:"last_sale_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Stock projects the product onto the fields the metrics use.
func (p *Product) Stock() analytics.Stock {
	return analytics.Stock{
		ID:         p.ID.String(),
		Name:       p.Name,
		Category:   p.Category,
		Quantity:   p.Quantity,
		Price:      p.Price,
		CostPrice:  p.CostPrice,
		ExpiryDate: p.ExpiryDate,
	}
}

// View is a product with its derived status fields, as returned by the API.
type View struct {
	*Product
	DaysUntilExpiry int              `json:"days_until_expiry"`
	StockStatus     analytics.Status `json:"stock_status"`
	ExpiryStatus    analytics.Status `json:"expiry_status"`
	ProfitMargin    float64          `json:"profit_margin"`
	FormattedPrice  string           `json:"formatted_price"`
}

// NewView derives the status fields of p at now.
func NewView(p *Product, now time.Time) *View {
	return &View{
		Product:         p,
		DaysUntilExpiry: analytics.DaysUntilExpiry(p.ExpiryDate, now),
		StockStatus:     analytics.StockStatus(p.Quantity),
		ExpiryStatus:    analytics.ExpiryStatus(p.ExpiryDate, now),
		ProfitMargin:    analytics.ProfitMargin(p.Price, p.CostPrice),
		FormattedPrice:  analytics.FormatCurrency(p.Price),
	}
}

// ProductRequest is the create/update payload. Text lengths are capped so
// a product row always fits in a change notification.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	CostPrice   float64 `json:"cost_price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	ExpiryDate  string  `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	ImageURL    string  `json:"image_url" validate:"max=2048"`
	Description string  `json:"description" validate:"max=2000"`
}

// ListFilter narrows a product listing. Search matches names
// case-insensitively; Category must match exactly.
type ListFilter struct {
	Search   string
	Category string
}
