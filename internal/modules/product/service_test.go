package product

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestService(repo Repository, rec Recommender) *service {
	s := NewService(repo, rec, time.UTC).(*service)
	s.now = func() time.Time { return fixedNow }
	return s
}

func validRequest() ProductRequest {
	return ProductRequest{
		Name:       " Full Cream Milk ",
		Category:   "Dairy",
		Price:      25,
		CostPrice:  18,
		Quantity:   40,
		ExpiryDate: "2026-10-20",
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newMemRepo()
	rec := &fakeRecommender{}
	svc := newTestService(repo, rec)

	v, err := svc.CreateProduct(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Full Cream Milk", v.Name)
	assert.Equal(t, 5, v.DaysUntilExpiry)
	assert.Equal(t, analytics.StatusWarning, v.ExpiryStatus)
	assert.Equal(t, analytics.StatusOK, v.StockStatus)
	assert.Equal(t, 28.0, v.ProfitMargin)
	assert.Equal(t, "R25.00", v.FormattedPrice)
	assert.Len(t, repo.items, 1)
	assert.Empty(t, rec.calls, "healthy stock needs no restock")
}

func TestCreateProduct_LowStockRecommends(t *testing.T) {
	rec := &fakeRecommender{}
	svc := newTestService(newMemRepo(), rec)

	req := validRequest()
	req.Quantity = 4
	v, err := svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, v.ID, rec.calls[0].id)
	assert.Equal(t, 4, rec.calls[0].qty)
	assert.Equal(t, RestockInitial, rec.calls[0].reason)
}

func TestCreateProduct_RecommendationFailureIsNotFatal(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("db down")}
	svc := newTestService(newMemRepo(), rec)

	req := validRequest()
	req.Quantity = 1
	_, err := svc.CreateProduct(context.Background(), req)
	assert.NoError(t, err)
}

func TestService_CountsDaysInConfiguredZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	s := NewService(newMemRepo(), nil, ny).(*service)
	assert.Equal(t, ny, s.now().Location())

	// 22:00 in New York is already the 16th in UTC.
	s.now = func() time.Time { return time.Date(2026, 10, 15, 22, 0, 0, 0, ny) }
	v, err := s.CreateProduct(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 5, v.DaysUntilExpiry)

	req := validRequest()
	req.ExpiryDate = "2026-10-16"
	v, err = s.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, v.DaysUntilExpiry)
	assert.False(t, analytics.IsExpired(v.DaysUntilExpiry))
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductRequest)
		msg    string
	}{
		{"missing name", func(r *ProductRequest) { r.Name = "  " }, "name is required"},
		{"missing category", func(r *ProductRequest) { r.Category = "" }, "category is required"},
		{"negative price", func(r *ProductRequest) { r.Price = -1 }, "price must not be negative"},
		{"negative cost", func(r *ProductRequest) { r.CostPrice = -1 }, "cost_price must not be negative"},
		{"negative quantity", func(r *ProductRequest) { r.Quantity = -3 }, "quantity must not be negative"},
		{"missing expiry", func(r *ProductRequest) { r.ExpiryDate = "" }, "expiry_date is required"},
		{"bad expiry", func(r *ProductRequest) { r.ExpiryDate = "20/10/2026" }, "expiry_date must be YYYY-MM-DD"},
		{"long name", func(r *ProductRequest) { r.Name = strings.Repeat("n", 201) }, "name must be at most 200 characters"},
		{"long description", func(r *ProductRequest) { r.Description = strings.Repeat("d", 2001) }, "description must be at most 2000 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newMemRepo(), nil)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateProduct(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	existing := &Product{ID: uuid.New(), Name: "Bread", Category: "Bakery", Price: 15, CostPrice: 9, Quantity: 30,
		ExpiryDate: fixedNow.AddDate(0, 0, 3)}
	repo := newMemRepo(existing)
	svc := newTestService(repo, nil)

	req := validRequest()
	req.Name = "Brown Bread"
	req.Quantity = 12
	v, err := svc.UpdateProduct(context.Background(), existing.ID.String(), req)
	require.NoError(t, err)

	assert.Equal(t, "Brown Bread", v.Name)
	assert.Equal(t, analytics.StatusLow, v.StockStatus)
	assert.Equal(t, "Brown Bread", repo.items[existing.ID].Name)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	_, err := svc.UpdateProduct(context.Background(), uuid.NewString(), validRequest())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	p := &Product{ID: uuid.New(), Name: "Eggs", Category: "Dairy"}
	repo := newMemRepo(p)
	svc := newTestService(repo, nil)

	require.NoError(t, svc.DeleteProduct(context.Background(), p.ID.String()))
	assert.Empty(t, repo.items)
	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), p.ID.String()), apperr.ErrNotFound)
}

func TestListProducts(t *testing.T) {
	repo := newMemRepo(
		&Product{ID: uuid.New(), Name: "Milk", Category: "Dairy", Quantity: 3, ExpiryDate: fixedNow},
		&Product{ID: uuid.New(), Name: "Oat Milk", Category: "Plant", Quantity: 50, ExpiryDate: fixedNow.AddDate(0, 1, 0)},
		&Product{ID: uuid.New(), Name: "Bread", Category: "Bakery", Quantity: 20, ExpiryDate: fixedNow},
	)
	svc := newTestService(repo, nil)

	views, err := svc.ListProducts(context.Background(), ListFilter{Search: " milk "})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, analytics.StatusCritical, views[0].StockStatus)

	views, err = svc.ListProducts(context.Background(), ListFilter{Category: "Bakery"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Bread", views[0].Name)

	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bakery", "Dairy", "Plant"}, cats)
}
