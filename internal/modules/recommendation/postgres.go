package recommendation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, rec *Recommendation) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO recommendations (id,type,product_id,message,suggested_action,priority,is_read)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		rec.ID, rec.Type, rec.ProductID, rec.Message, rec.SuggestedAction,
		rec.Priority, rec.IsRead).Scan(&rec.CreatedAt)
}

// List orders by priority (high first), then newest.
func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Recommendation, error) {
	query := `
		SELECT r.id, r.type, r.product_id, COALESCE(p.name, ''), r.message,
		       r.suggested_action, r.priority, r.is_read, r.created_at
		FROM recommendations r
		LEFT JOIN products p ON p.id = r.product_id
		WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !f.IncludeRead {
		query += ` AND NOT r.is_read`
	}
	if f.Type != "" {
		query += ` AND r.type=` + arg(f.Type)
	}
	if f.Priority != "" {
		query += ` AND r.priority=` + arg(f.Priority)
	}
	query += `
		ORDER BY CASE r.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
		         r.created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Recommendation
	for rows.Next() {
		rec := &Recommendation{}
		var productID uuid.NullUUID
		if err := rows.Scan(&rec.ID, &rec.Type, &productID, &rec.ProductName, &rec.Message,
			&rec.SuggestedAction, &rec.Priority, &rec.IsRead, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if productID.Valid {
			id := productID.UUID
			rec.ProductID = &id
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *postgresRepo) MarkRead(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.Invalid("invalid recommendation id: %s", id)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE recommendations SET is_read=TRUE WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("recommendation %s not found", id)
	}
	return nil
}

func (r *postgresRepo) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE recommendations SET is_read=TRUE WHERE NOT is_read`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresRepo) HasUnread(ctx context.Context, productID uuid.UUID, t Type) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM recommendations
			WHERE product_id=$1 AND type=$2 AND NOT is_read
		)`, productID, t).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) UnreadCounts(ctx context.Context) (Counts, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM recommendations WHERE NOT is_read GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := newCounts()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
		counts["all"] += n
	}
	return counts, rows.Err()
}

func newCounts() Counts {
	return Counts{"all": 0, string(TypeDiscount): 0, string(TypeRestock): 0, string(TypePricing): 0}
}
