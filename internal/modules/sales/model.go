package sales

import (
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

// ErrInsufficientStock is returned when a cart asks for more units than
// are on the shelf.
var ErrInsufficientStock = apperr.Conflict("insufficient stock")

// Sale is a completed checkout.
type Sale struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	TotalAmount float64    `json:"total_amount"`
	CreatedAt   time.Time  `json:"created_at"`
	Items       []SaleItem `json:"items"`
}

// SaleItem is one product line of a sale. ProductID is nil once the
// product has been deleted.
type SaleItem struct {
	ID          uuid.UUID  `json:"id"`
	SaleID      uuid.UUID  `json:"sale_id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	Quantity    int        `json:"quantity"`
	SalePrice   float64    `json:"sale_price"`
}

// Record projects the sale onto the fields the metrics use.
func (s *Sale) Record() analytics.SaleRecord {
	rec := analytics.SaleRecord{CreatedAt: s.CreatedAt, TotalAmount: s.TotalAmount}
	for _, it := range s.Items {
		line := analytics.SaleLine{ProductName: it.ProductName, Quantity: it.Quantity, SalePrice: it.SalePrice}
		if it.ProductID != nil {
			line.ProductID = it.ProductID.String()
		}
		rec.Lines = append(rec.Lines, line)
	}
	return rec
}

// Records projects a list of sales.
func Records(sales []*Sale) []analytics.SaleRecord {
	out := make([]analytics.SaleRecord, 0, len(sales))
	for _, s := range sales {
		out = append(out, s.Record())
	}
	return out
}

// CartItem is one line of a checkout request.
type CartItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type CheckoutRequest struct {
	Items []CartItem `json:"items"`
}

// ProductStock is the locked view of a product during checkout.
type ProductStock struct {
	ID       uuid.UUID
	Name     string
	Price    float64
	Quantity int
}

// Summary aggregates sales over a period.
type Summary struct {
	From               *time.Time `json:"from,omitempty"`
	To                 *time.Time `json:"to,omitempty"`
	Revenue            float64    `json:"revenue"`
	Transactions       int        `json:"transactions"`
	ItemsSold          int        `json:"items_sold"`
	AverageSale        float64    `json:"average_sale"`
	MeanDailyRevenue   float64    `json:"mean_daily_revenue"`
	MedianDailyRevenue float64    `json:"median_daily_revenue"`
	BestDay            string     `json:"best_day,omitempty"`
	BestDayRevenue     float64    `json:"best_day_revenue"`
	FormattedRevenue   string     `json:"formatted_revenue"`
}

// exportRow is one CSV line of the sales export: a sale item with its sale.
type exportRow struct {
	SaleID    string  `csv:"sale_id"`
	Date      string  `csv:"date"`
	Product   string  `csv:"product"`
	Quantity  int     `csv:"quantity"`
	SalePrice float64 `csv:"sale_price"`
	LineTotal float64 `csv:"line_total"`
	SaleTotal float64 `csv:"sale_total"`
}
