package recommendation

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MinProfitMargin is the margin percentage below which pricing is flagged.
const MinProfitMargin = 10.0

// Service defines recommendation business logic.
type Service interface {
	List(ctx context.Context, f ListFilter) ([]*Recommendation, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	UnreadCounts(ctx context.Context) (Counts, error)
	GenerateRestock(ctx context.Context, productID uuid.UUID, quantity int, reason product.RestockReason) error
	ScanInventory(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	products product.Repository
	now      func() time.Time
}

// NewService creates a recommendation service. products feeds the
// inventory scan, which counts expiry days for the current day in loc.
func NewService(repo Repository, products product.Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:     repo,
		products: products,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

func (s *service) List(ctx context.Context, f ListFilter) ([]*Recommendation, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.Invalid("unknown recommendation type %q", f.Type)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, apperr.Invalid("unknown priority %q", f.Priority)
	}
	return s.repo.List(ctx, f)
}

func (s *service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllRead(ctx)
}

func (s *service) UnreadCounts(ctx context.Context) (Counts, error) {
	return s.repo.UnreadCounts(ctx)
}

// GenerateRestock records a restock suggestion for a product whose stock
// just dropped to quantity. Nothing is created above the low-stock
// threshold or while an unread restock suggestion already exists.
func (s *service) GenerateRestock(ctx context.Context, productID uuid.UUID, quantity int, reason product.RestockReason) error {
	if !analytics.IsLowStock(quantity) {
		return nil
	}
	_, err := s.createOnce(ctx, &Recommendation{
		Type:            TypeRestock,
		ProductID:       &productID,
		Message:         restockMessage(quantity, reason),
		SuggestedAction: "Consider ordering more units to maintain optimal inventory levels",
		Priority:        stockPriority(quantity),
	})
	return err
}

// ScanInventory walks every product and records discount, restock and
// pricing suggestions. It returns how many were created.
func (s *service) ScanInventory(ctx context.Context) (int, error) {
	products, err := s.products.List(ctx, product.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	now := s.now()
	created := 0
	for _, p := range products {
		for _, rec := range rulesFor(p, now) {
			ok, err := s.createOnce(ctx, rec)
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}
	zap.S().Infof("inventory scan: %d products, %d new recommendations", len(products), created)
	return created, nil
}

// createOnce stores rec unless an unread one of the same type exists for
// the product.
func (s *service) createOnce(ctx context.Context, rec *Recommendation) (bool, error) {
	if rec.ProductID != nil {
		exists, err := s.repo.HasUnread(ctx, *rec.ProductID, rec.Type)
		if err != nil {
			return false, fmt.Errorf("check existing %s recommendation: %w", rec.Type, err)
		}
		if exists {
			return false, nil
		}
	}
	rec.ID = uuid.New()
	if err := s.repo.Create(ctx, rec); err != nil {
		return false, fmt.Errorf("create %s recommendation: %w", rec.Type, err)
	}
	return true, nil
}

func rulesFor(p *product.Product, now time.Time) []*Recommendation {
	var out []*Recommendation
	id := p.ID

	days := analytics.DaysUntilExpiry(p.ExpiryDate, now)
	if analytics.IsExpiring(days) && p.Quantity > 0 {
		priority := PriorityMedium
		if days <= analytics.CriticalExpiryDays {
			priority = PriorityHigh
		}
		out = append(out, &Recommendation{
			Type:            TypeDiscount,
			ProductID:       &id,
			Message:         fmt.Sprintf("%s expires in %d days", p.Name, days),
			SuggestedAction: fmt.Sprintf("Apply %d%% discount to boost sales before expiry", discountPercent(days)),
			Priority:        priority,
		})
	}

	if analytics.IsLowStock(p.Quantity) {
		out = append(out, &Recommendation{
			Type:            TypeRestock,
			ProductID:       &id,
			Message:         fmt.Sprintf("%s is low in stock (%d remaining)", p.Name, p.Quantity),
			SuggestedAction: "Order more units to maintain optimal inventory levels",
			Priority:        stockPriority(p.Quantity),
		})
	}

	if p.Price > 0 && p.CostPrice > 0 {
		if margin := analytics.ProfitMargin(p.Price, p.CostPrice); margin < MinProfitMargin {
			out = append(out, &Recommendation{
				Type:            TypePricing,
				ProductID:       &id,
				Message:         fmt.Sprintf("%s has a low profit margin (%.1f%%)", p.Name, margin),
				SuggestedAction: "Consider increasing price by 5-10% based on market trends",
				Priority:        PriorityLow,
			})
		}
	}
	return out
}

func restockMessage(qty int, reason product.RestockReason) string {
	if reason == product.RestockAfterSale {
		return fmt.Sprintf("Stock running low after recent sales (%d units left)", qty)
	}
	return fmt.Sprintf("Low initial stock level (%d units)", qty)
}

func stockPriority(qty int) Priority {
	if qty <= analytics.CriticalStockThreshold {
		return PriorityHigh
	}
	return PriorityMedium
}

// discountPercent grows as expiry approaches.
func discountPercent(days int) int {
	switch {
	case days <= 3:
		return 50
	case days <= 7:
		return 30
	default:
		return 15
	}
}
