package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id,name,category,price,cost_price,quantity,expiry_date,
	image_url,description,last_sale_date,created_at,updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products
		  (id,name,category,price,cost_price,quantity,expiry_date,image_url,description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Category, p.Price, p.CostPrice, p.Quantity,
		p.ExpiryDate, p.ImageURL, p.Description).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Invalid("invalid product id: %s", id)
	}
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product %s not found", id)
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Search != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, n)
		args = append(args, "%"+f.Search+"%")
		n++
	}
	if f.Category != "" {
		query += fmt.Sprintf(` AND category=$%d`, n)
		args = append(args, f.Category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name=$1, category=$2, price=$3, cost_price=$4, quantity=$5,
		    expiry_date=$6, image_url=$7, description=$8, updated_at=NOW()
		WHERE id=$9
		RETURNING updated_at`,
		p.Name, p.Category, p.Price, p.CostPrice, p.Quantity,
		p.ExpiryDate, p.ImageURL, p.Description, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("product %s not found", p.ID)
	}
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.Invalid("invalid product id: %s", id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("product %s not found", id)
	}
	return nil
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var lastSale sql.NullTime
	err := scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.CostPrice, &p.Quantity,
		&p.ExpiryDate, &p.ImageURL, &p.Description, &lastSale,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastSale.Valid {
		p.LastSaleDate = &lastSale.Time
	}
	return p, nil
}
