// Package analytics holds the derived inventory and sales metrics. Every
// function here is pure: callers pass the clock in.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold is the quantity at or below which stock is low.
	LowStockThreshold = 15
	// CriticalStockThreshold is the quantity at or below which stock is critical.
	CriticalStockThreshold = 5
	// ExpiryWindowDays is how far ahead a product counts as expiring.
	ExpiryWindowDays = 10
	// CriticalExpiryDays is the expiry countdown treated as urgent.
	CriticalExpiryDays = 3
)

// Status classifies a stock level or expiry countdown.
type Status string

const (
	StatusOK       Status = "ok"
	StatusLow      Status = "low"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Stock is the slice of a product the metrics need.
type Stock struct {
	ID         string
	Name       string
	Category   string
	Quantity   int
	Price      float64
	CostPrice  float64
	ExpiryDate time.Time
}

// SaleLine is one product line of a sale.
type SaleLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	SalePrice   float64
}

// SaleRecord is a completed sale.
type SaleRecord struct {
	CreatedAt   time.Time
	TotalAmount float64
	Lines       []SaleLine
}

// ProductTotal aggregates what was sold of one product.
type ProductTotal struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// startOfDay truncates t to local midnight in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntilExpiry counts whole days from today to the expiry date. It is
// positive for future dates, 0 on the expiry day and negative once expired.
// expiry is a calendar date: its year, month and day are read as they are
// and placed in now's location, so a DATE scanned as UTC midnight keeps
// its day in any zone.
func DaysUntilExpiry(expiry, now time.Time) int {
	today := startOfDay(now)
	y, m, d := expiry.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	// Both are midnights, so the difference is whole days give or take a
	// DST hour.
	return int(math.Round(day.Sub(today).Hours() / 24))
}

// IsLowStock reports whether qty is at or below the low-stock threshold.
func IsLowStock(qty int) bool { return qty <= LowStockThreshold }

// IsExpiring reports whether a countdown is inside the expiry window.
func IsExpiring(days int) bool { return days > 0 && days <= ExpiryWindowDays }

// IsExpired reports whether a countdown has reached zero.
func IsExpired(days int) bool { return days <= 0 }

// StockStatus classifies a quantity.
func StockStatus(qty int) Status {
	switch {
	case qty <= CriticalStockThreshold:
		return StatusCritical
	case qty <= LowStockThreshold:
		return StatusLow
	default:
		return StatusOK
	}
}

// ExpiryStatus classifies an expiry date relative to now.
func ExpiryStatus(expiry, now time.Time) Status {
	days := DaysUntilExpiry(expiry, now)
	switch {
	case days <= CriticalExpiryDays:
		return StatusCritical
	case days <= ExpiryWindowDays:
		return StatusWarning
	default:
		return StatusOK
	}
}

// ProfitMargin is (price-cost)/price as a percentage, or 0 when either
// price is missing.
func ProfitMargin(price, cost float64) float64 {
	if price == 0 || cost == 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	m := p.Sub(decimal.NewFromFloat(cost)).Div(p).Mul(decimal.NewFromInt(100))
	return m.Round(2).InexactFloat64()
}

// Profit is the gain on qty units sold at salePrice.
func Profit(costPrice, salePrice float64, qty int) float64 {
	return decimal.NewFromFloat(salePrice).
		Sub(decimal.NewFromFloat(costPrice)).
		Mul(decimal.NewFromInt(int64(qty))).
		Round(2).InexactFloat64()
}

// LowStock keeps items at or below the low-stock threshold, in input order.
func LowStock(items []Stock) []Stock {
	var out []Stock
	for _, it := range items {
		if IsLowStock(it.Quantity) {
			out = append(out, it)
		}
	}
	return out
}

// Expiring keeps items expiring within the window but not yet expired.
func Expiring(items []Stock, now time.Time) []Stock {
	var out []Stock
	for _, it := range items {
		if IsExpiring(DaysUntilExpiry(it.ExpiryDate, now)) {
			out = append(out, it)
		}
	}
	return out
}

// Expired keeps expired items, most overdue first.
func Expired(items []Stock, now time.Time) []Stock {
	var out []Stock
	for _, it := range items {
		if IsExpired(DaysUntilExpiry(it.ExpiryDate, now)) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiryDate.Before(out[j].ExpiryDate)
	})
	return out
}

// ExpiredLoss is the cost value of all expired stock.
func ExpiredLoss(items []Stock, now time.Time) float64 {
	total := decimal.Zero
	for _, it := range Expired(items, now) {
		total = total.Add(decimal.NewFromFloat(it.CostPrice).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

// CriticalProducts returns up to three items needing attention: low stock
// first, then expiring items not already listed.
func CriticalProducts(items []Stock, now time.Time) []Stock {
	const limit = 3
	out := LowStock(items)
	if len(out) > limit {
		out = out[:limit]
	}
	seen := make(map[string]bool, len(out))
	for _, it := range out {
		seen[it.ID] = true
	}
	for _, it := range Expiring(items, now) {
		if len(out) >= limit {
			break
		}
		if !seen[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// TotalSales sums sale totals with from <= created_at <= to. A zero bound
// is open.
func TotalSales(sales []SaleRecord, from, to time.Time) float64 {
	total := decimal.Zero
	for _, s := range sales {
		if !from.IsZero() && s.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && s.CreatedAt.After(to) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(s.TotalAmount))
	}
	return total.Round(2).InexactFloat64()
}

// PercentChange is the rounded percentage change from previous to current.
// A zero baseline counts as a 100% change.
func PercentChange(current, previous float64) int {
	if previous == 0 {
		return 100
	}
	return int(math.Round((current - previous) / previous * 100))
}

// TopProducts ranks products by units sold, then revenue, and returns the
// first n. n <= 0 returns all.
func TopProducts(sales []SaleRecord, n int) []ProductTotal {
	byID := make(map[string]*ProductTotal)
	revenue := make(map[string]decimal.Decimal)
	var order []string
	for _, s := range sales {
		for _, l := range s.Lines {
			pt, ok := byID[l.ProductID]
			if !ok {
				pt = &ProductTotal{ProductID: l.ProductID, ProductName: l.ProductName}
				byID[l.ProductID] = pt
				order = append(order, l.ProductID)
			}
			if pt.ProductName == "" {
				pt.ProductName = l.ProductName
			}
			pt.Quantity += l.Quantity
			revenue[l.ProductID] = revenue[l.ProductID].Add(
				decimal.NewFromFloat(l.SalePrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}

	out := make([]ProductTotal, 0, len(order))
	for _, id := range order {
		pt := byID[id]
		pt.Revenue = revenue[id].Round(2).InexactFloat64()
		out = append(out, *pt)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Revenue > out[j].Revenue
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
