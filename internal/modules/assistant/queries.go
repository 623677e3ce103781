package assistant

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DataSource runs the fixed query behind a topic.
type DataSource interface {
	Rows(ctx context.Context, topic Topic) ([]Row, error)
}

var topicQueries = map[Topic]string{
	TopicExpiry: `
		SELECT p.name, p.category, p.quantity,
		       p.cost_price * p.quantity AS total_loss,
		       p.expiry_date,
		       (p.expiry_date - CURRENT_DATE) AS days_until_expiry
		FROM products p
		WHERE p.expiry_date <= CURRENT_DATE + INTERVAL '10 days'
		ORDER BY p.expiry_date ASC`,

	TopicStock: `
		SELECT name, category, quantity, price, expiry_date
		FROM products
		WHERE quantity <= 15
		ORDER BY quantity ASC`,

	TopicSales: `
		WITH items AS (
			SELECT sale_id, SUM(quantity) AS n
			FROM sale_items
			GROUP BY sale_id
		), daily_sales AS (
			SELECT DATE_TRUNC('day', s.created_at) AS sale_date,
			       SUM(s.total_amount) AS total_revenue,
			       COUNT(*) AS num_transactions,
			       COALESCE(SUM(i.n), 0) AS total_items
			FROM sales s
			LEFT JOIN items i ON i.sale_id = s.id
			WHERE s.created_at >= CURRENT_DATE - INTERVAL '30 days'
			GROUP BY DATE_TRUNC('day', s.created_at)
		)
		SELECT sale_date, total_revenue, num_transactions, total_items,
		       LAG(total_revenue) OVER (ORDER BY sale_date) AS prev_day_revenue
		FROM daily_sales
		ORDER BY sale_date DESC
		LIMIT 7`,

	TopicRecommendations: `
		SELECT r.type, r.message, r.suggested_action, r.priority,
		       p.name AS product_name, p.category, p.quantity, p.price, p.expiry_date
		FROM recommendations r
		LEFT JOIN products p ON r.product_id = p.id
		WHERE NOT r.is_read
		ORDER BY CASE r.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
		         r.created_at DESC`,
}

type postgresSource struct{ db *sql.DB }

func NewPostgresSource(db *sql.DB) DataSource { return &postgresSource{db: db} }

func (s *postgresSource) Rows(ctx context.Context, topic Topic) ([]Row, error) {
	query, ok := topicQueries[topic]
	if !ok {
		return nil, fmt.Errorf("no query for topic %q", topic)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	out := []Row{}
	for rows.Next() {
		vals := make([]interface{}, len(types))
		ptrs := make([]interface{}, len(types))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(types))
		for i, ct := range types {
			row[ct.Name()] = normalize(ct.DatabaseTypeName(), vals[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalize turns driver values into JSON-friendly ones. lib/pq hands back
// NUMERIC as []byte; only those become numbers. NaN and the infinities have
// no JSON form and stay text.
func normalize(dbType string, v interface{}) interface{} {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	if dbType != "NUMERIC" {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return s
	}
	return f
}
