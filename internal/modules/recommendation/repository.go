package recommendation

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for recommendations.
type Repository interface {
	Create(ctx context.Context, rec *Recommendation) error
	List(ctx context.Context, f ListFilter) ([]*Recommendation, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	HasUnread(ctx context.Context, productID uuid.UUID, t Type) (bool, error)
	UnreadCounts(ctx context.Context) (Counts, error)
}
