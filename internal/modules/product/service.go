package product

import (
	"context"
	"strings"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines inventory business logic.
type Service interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*View, error)
	GetProduct(ctx context.Context, id string) (*View, error)
	ListProducts(ctx context.Context, f ListFilter) ([]*View, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (*View, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
}

// RestockReason says why a stock level is being reported.
type RestockReason int

const (
	// RestockInitial is a product created with little stock.
	RestockInitial RestockReason = iota
	// RestockAfterSale is stock drawn down by a checkout.
	RestockAfterSale
)

// Recommender receives stock levels that may warrant a restock suggestion.
type Recommender interface {
	GenerateRestock(ctx context.Context, productID uuid.UUID, quantity int, reason RestockReason) error
}

type service struct {
	repo        Repository
	recommender Recommender
	now         func() time.Time
}

// NewService creates a product service whose derived expiry fields are
// computed for the current day in loc. recommender may be nil.
func NewService(repo Repository, recommender Recommender, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:        repo,
		recommender: recommender,
		now:         func() time.Time { return time.Now().In(loc) },
	}
}

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*View, error) {
	p := &Product{ID: uuid.New()}
	if err := apply(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if analytics.IsLowStock(p.Quantity) && s.recommender != nil {
		if err := s.recommender.GenerateRestock(ctx, p.ID, p.Quantity, RestockInitial); err != nil {
			zap.S().Warnf("restock recommendation for %s: %v", p.ID, err)
		}
	}
	return NewView(p, s.now()), nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*View, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewView(p, s.now()), nil
}

func (s *service) ListProducts(ctx context.Context, f ListFilter) ([]*View, error) {
	f.Search = strings.TrimSpace(f.Search)
	products, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]*View, 0, len(products))
	for _, p := range products {
		views = append(views, NewView(p, now))
	}
	return views, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*View, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return NewView(p, s.now()), nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// apply validates req and copies it onto p.
func apply(p *Product, req ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Description = strings.TrimSpace(req.Description)
	if err := validate.Struct(req); err != nil {
		return err
	}
	expiry, err := time.Parse(DateLayout, req.ExpiryDate)
	if err != nil {
		return apperr.Invalid("expiry_date must be YYYY-MM-DD")
	}

	p.Name = req.Name
	p.Category = req.Category
	p.Price = req.Price
	p.CostPrice = req.CostPrice
	p.Quantity = req.Quantity
	p.ExpiryDate = expiry
	p.ImageURL = req.ImageURL
	p.Description = req.Description
	return nil
}
