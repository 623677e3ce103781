package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for sales.
type Repository interface {
	// InTx runs fn in a transaction, committing only if fn returns nil.
	InTx(ctx context.Context, fn func(tx TxRepository) error) error
	GetByID(ctx context.Context, id string) (*Sale, error)
	// List returns sales with their items, newest first. Zero bounds are open.
	List(ctx context.Context, from, to time.Time) ([]*Sale, error)
}

// TxRepository is the part of the store usable inside a checkout.
type TxRepository interface {
	// LockProduct reads a product and holds its row until commit.
	LockProduct(ctx context.Context, id uuid.UUID) (*ProductStock, error)
	CreateSale(ctx context.Context, s *Sale) error
	// DecrementStock removes qty units, stamps the sale time and returns
	// the remaining quantity.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int, soldAt time.Time) (int, error)
}
