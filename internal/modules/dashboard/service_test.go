package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/modules/recommendation"
	"github.com/georgemunganga/retailops-backend/internal/modules/sales"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type stubProducts struct {
	product.Repository
	items []*product.Product
	err   error
}

func (s stubProducts) List(ctx context.Context, f product.ListFilter) ([]*product.Product, error) {
	return s.items, s.err
}

type stubSales struct {
	sales.Repository
	items []*sales.Sale
	from  time.Time
}

func (s *stubSales) List(ctx context.Context, from, to time.Time) ([]*sales.Sale, error) {
	s.from = from
	var out []*sales.Sale
	for _, sale := range s.items {
		if !sale.CreatedAt.Before(from) {
			out = append(out, sale)
		}
	}
	return out, nil
}

type stubRecs struct {
	recommendation.Repository
	items []*recommendation.Recommendation
}

func (s stubRecs) List(ctx context.Context, f recommendation.ListFilter) ([]*recommendation.Recommendation, error) {
	var out []*recommendation.Recommendation
	for _, r := range s.items {
		if r.IsRead || (f.Priority != "" && r.Priority != f.Priority) {
			continue
		}
		out = append(out, r)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func days(n int) time.Time { return fixedNow.AddDate(0, 0, n) }

func saleAt(at time.Time, total float64) *sales.Sale {
	id := uuid.New()
	return &sales.Sale{ID: uuid.New(), CreatedAt: at, TotalAmount: total,
		Items: []sales.SaleItem{{ProductID: &id, ProductName: "Item", Quantity: 1, SalePrice: total}}}
}

func TestLoad(t *testing.T) {
	products := []*product.Product{
		{ID: uuid.New(), Name: "Milk", Quantity: 4, CostPrice: 10, Price: 15, ExpiryDate: days(20)},
		{ID: uuid.New(), Name: "Bread", Quantity: 30, CostPrice: 5, Price: 9, ExpiryDate: days(2)},
		{ID: uuid.New(), Name: "Cheese", Quantity: 6, CostPrice: 20, Price: 35, ExpiryDate: days(-3)},
		{ID: uuid.New(), Name: "Ham", Quantity: 2, CostPrice: 40, Price: 60, ExpiryDate: days(0)},
		{ID: uuid.New(), Name: "Rice", Quantity: 100, CostPrice: 30, Price: 45, ExpiryDate: days(300)},
	}
	salesRepo := &stubSales{items: []*sales.Sale{
		saleAt(fixedNow.Add(-time.Hour), 100),
		saleAt(days(-1), 50),
		saleAt(days(-3), 200),
		saleAt(days(-10), 150),
		saleAt(days(-40), 999),
	}}
	recs := stubRecs{items: []*recommendation.Recommendation{
		{ID: uuid.New(), Priority: recommendation.PriorityHigh, CreatedAt: fixedNow},
		{ID: uuid.New(), Priority: recommendation.PriorityHigh, CreatedAt: days(-2)},
		{ID: uuid.New(), Priority: recommendation.PriorityHigh, CreatedAt: days(-2), IsRead: true},
		{ID: uuid.New(), Priority: recommendation.PriorityMedium, CreatedAt: fixedNow},
		{ID: uuid.New(), Priority: recommendation.PriorityHigh, CreatedAt: days(-5)},
		{ID: uuid.New(), Priority: recommendation.PriorityHigh, CreatedAt: days(-6)},
	}}

	svc := NewService(stubProducts{items: products}, salesRepo, recs, time.UTC).(*service)
	svc.now = func() time.Time { return fixedNow }

	d, err := svc.Load(context.Background())
	require.NoError(t, err)
	m := d.Metrics

	assert.Equal(t, 5, m.TotalProducts)
	assert.Equal(t, 3, m.LowStockProducts)
	assert.Equal(t, 1, m.ExpiringProducts)
	assert.Equal(t, 2, m.ExpiredProducts)
	assert.Equal(t, 200.0, m.TotalLoss, "6×20 + 2×40")
	assert.Equal(t, 100.0, m.TodaySales)
	assert.Equal(t, 50.0, m.YesterdaySales)
	assert.Equal(t, 350.0, m.WeekSales)
	assert.Equal(t, 150.0, m.PrevWeekSales)
	assert.Equal(t, 500.0, m.MonthSales)
	assert.Equal(t, 100, m.DailyChange)
	assert.Equal(t, 133, m.WeeklyChange)
	assert.Equal(t, 2, m.TodayRecommendations)
	assert.Equal(t, "R100.00", m.FormattedTodaySales)
	assert.Equal(t, "R200.00", m.FormattedTotalLoss)
	assert.Equal(t, days(-30).Truncate(24*time.Hour), salesRepo.from)

	require.Len(t, d.Expired, 2)
	assert.Equal(t, "Cheese", d.Expired[0].Name, "most overdue first")
	assert.Equal(t, -3, d.Expired[0].DaysUntilExpiry)

	require.Len(t, d.Critical, 3)
	assert.Equal(t, "Milk", d.Critical[0].Name)

	assert.Len(t, d.Recommendations, 3)
	require.NotEmpty(t, d.TopProducts)
}

func TestLoad_Error(t *testing.T) {
	svc := NewService(stubProducts{err: errors.New("db down")}, &stubSales{}, stubRecs{}, time.UTC)
	_, err := svc.Load(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(NewService(stubProducts{}, &stubSales{}, stubRecs{}, time.UTC)).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"daily_change":100`)
	assert.Contains(t, rec.Body.String(), `"recommendations":[]`)
}
