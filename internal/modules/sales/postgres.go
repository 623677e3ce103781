package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) InTx(ctx context.Context, fn func(tx TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Invalid("invalid sale id: %s", id)
	}
	s := &Sale{}
	var userID uuid.NullUUID
	err = r.db.QueryRowContext(ctx,
		`SELECT id,user_id,total_amount,created_at FROM sales WHERE id=$1`, uid).
		Scan(&s.ID, &userID, &s.TotalAmount, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("sale %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		s.UserID = &userID.UUID
	}
	if err := r.attachItems(ctx, []*Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) List(ctx context.Context, from, to time.Time) ([]*Sale, error) {
	query := `SELECT id,user_id,total_amount,created_at FROM sales WHERE 1=1`
	var args []interface{}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Sale
	for rows.Next() {
		s := &Sale{}
		var userID uuid.NullUUID
		if err := rows.Scan(&s.ID, &userID, &s.TotalAmount, &s.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			id := userID.UUID
			s.UserID = &id
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.attachItems(ctx, out)
}

// attachItems loads the items of every sale in one query.
func (r *postgresRepo) attachItems(ctx context.Context, sales []*Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	byID := make(map[uuid.UUID]*Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID.String()
		s.Items = []SaleItem{}
		byID[s.ID] = s
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT si.id, si.sale_id, si.product_id, COALESCE(p.name, ''), si.quantity, si.sale_price
		FROM sale_items si
		LEFT JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it SaleItem
		var productID uuid.NullUUID
		if err := rows.Scan(&it.ID, &it.SaleID, &productID, &it.ProductName, &it.Quantity, &it.SalePrice); err != nil {
			return err
		}
		if productID.Valid {
			id := productID.UUID
			it.ProductID = &id
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

type txRepo struct{ tx *sql.Tx }

func (t *txRepo) LockProduct(ctx context.Context, id uuid.UUID) (*ProductStock, error) {
	p := &ProductStock{}
	err := t.tx.QueryRowContext(ctx,
		`SELECT id,name,price,quantity FROM products WHERE id=$1 FOR UPDATE`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product %s not found", id)
	}
	return p, err
}

func (t *txRepo) CreateSale(ctx context.Context, s *Sale) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO sales (id,user_id,total_amount,created_at) VALUES ($1,$2,$3,$4)`,
		s.ID, s.UserID, s.TotalAmount, s.CreatedAt)
	if err != nil {
		return insertError("sale", err)
	}
	for _, it := range s.Items {
		_, err = t.tx.ExecContext(ctx, `
			INSERT INTO sale_items (id,sale_id,product_id,quantity,sale_price)
			VALUES ($1,$2,$3,$4,$5)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.SalePrice)
		if err != nil {
			return insertError("sale_item", err)
		}
	}
	return nil
}

// insertError reports a row referencing a product or profile that no
// longer exists as not found.
func insertError(table string, err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("insert %s: referenced product or user no longer exists", table)
	}
	return fmt.Errorf("insert %s: %w", table, err)
}

func (t *txRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int, soldAt time.Time) (int, error) {
	var left int
	err := t.tx.QueryRowContext(ctx, `
		UPDATE products
		SET quantity = quantity - $1, last_sale_date = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING quantity`, qty, soldAt, id).Scan(&left)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return left, nil
}
