package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/validate"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines point-of-sale business logic.
type Service interface {
	Checkout(ctx context.Context, userID *uuid.UUID, req CheckoutRequest) (*Sale, error)
	GetSale(ctx context.Context, id string) (*Sale, error)
	ListSales(ctx context.Context, from, to time.Time) ([]*Sale, error)
	Summary(ctx context.Context, from, to time.Time) (*Summary, error)
	TopProducts(ctx context.Context, n int, from, to time.Time) ([]analytics.ProductTotal, error)
}

// MaxSummaryDays is the longest period a summary's daily series may cover.
const MaxSummaryDays = 366

type service struct {
	repo        Repository
	recommender product.Recommender
	loc         *time.Location
	now         func() time.Time
}

// NewService creates a sales service. Days are bucketed in loc;
// recommender may be nil.
func NewService(repo Repository, recommender product.Recommender, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{repo: repo, recommender: recommender, loc: loc, now: time.Now}
}

type line struct {
	productID uuid.UUID
	quantity  int
}

// mergeLines validates a cart and folds repeated products into one line.
// Lines come back ordered by product id so concurrent checkouts lock rows
// in the same order.
func mergeLines(items []CartItem) ([]line, error) {
	if len(items) == 0 {
		return nil, apperr.Invalid("cart is empty")
	}
	qty := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		// The uuid tag only matches lower case.
		it.ProductID = strings.ToLower(strings.TrimSpace(it.ProductID))
		if err := validate.Struct(it); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, apperr.Invalid("invalid product_id: %q", it.ProductID)
		}
		qty[id] += it.Quantity
	}
	lines := make([]line, 0, len(qty))
	for id, q := range qty {
		lines = append(lines, line{productID: id, quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID.String() < lines[j].productID.String() })
	return lines, nil
}

type stockLevel struct {
	productID uuid.UUID
	quantity  int
}

func (s *service) Checkout(ctx context.Context, userID *uuid.UUID, req CheckoutRequest) (*Sale, error) {
	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	var sale *Sale
	var low []stockLevel
	err = s.repo.InTx(ctx, func(tx TxRepository) error {
		now := s.now()
		sale = &Sale{ID: uuid.New(), UserID: userID, CreatedAt: now}
		low = nil

		total := decimal.Zero
		for _, l := range lines {
			p, err := tx.LockProduct(ctx, l.productID)
			if err != nil {
				return err
			}
			if p.Quantity < l.quantity {
				return fmt.Errorf("%w: %s has %d units, %d requested",
					ErrInsufficientStock, p.Name, p.Quantity, l.quantity)
			}
			pid := p.ID
			sale.Items = append(sale.Items, SaleItem{
				ID:          uuid.New(),
				SaleID:      sale.ID,
				ProductID:   &pid,
				ProductName: p.Name,
				Quantity:    l.quantity,
				SalePrice:   p.Price,
			})
			total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(l.quantity))))
		}
		sale.TotalAmount = total.Round(2).InexactFloat64()

		if err := tx.CreateSale(ctx, sale); err != nil {
			return err
		}
		for _, l := range lines {
			left, err := tx.DecrementStock(ctx, l.productID, l.quantity, now)
			if err != nil {
				return err
			}
			if analytics.IsLowStock(left) {
				low = append(low, stockLevel{productID: l.productID, quantity: left})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.recommender != nil {
		for _, lv := range low {
			if err := s.recommender.GenerateRestock(ctx, lv.productID, lv.quantity, product.RestockAfterSale); err != nil {
				zap.S().Warnf("restock recommendation for %s: %v", lv.productID, err)
			}
		}
	}
	return sale, nil
}

func (s *service) GetSale(ctx context.Context, id string) (*Sale, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListSales(ctx context.Context, from, to time.Time) ([]*Sale, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperr.Invalid("to must not be before from")
	}
	return s.repo.List(ctx, from, to)
}

func (s *service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	if !from.IsZero() && !to.IsZero() && tooLong(from, to) {
		return nil, errPeriodTooLong
	}
	sales, err := s.ListSales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Transactions: len(sales)}
	if !from.IsZero() {
		sum.From = &from
	}
	if !to.IsZero() {
		sum.To = &to
	}
	records := Records(sales)
	sum.Revenue = analytics.TotalSales(records, time.Time{}, time.Time{})
	sum.FormattedRevenue = analytics.FormatCurrency(sum.Revenue)
	for _, sale := range sales {
		for _, it := range sale.Items {
			sum.ItemsSold += it.Quantity
		}
	}
	if len(sales) == 0 {
		return sum, nil
	}
	sum.AverageSale = decimal.NewFromFloat(sum.Revenue).
		Div(decimal.NewFromInt(int64(len(sales)))).Round(2).InexactFloat64()

	days, totals, err := s.dailyRevenue(sales, from, to)
	if err != nil {
		return nil, err
	}
	data := stats.Float64Data(totals)
	mean, _ := data.Mean()
	median, _ := data.Median()
	sum.MeanDailyRevenue, _ = stats.Round(mean, 2)
	sum.MedianDailyRevenue, _ = stats.Round(median, 2)
	for i, v := range totals {
		if v > sum.BestDayRevenue {
			sum.BestDay, sum.BestDayRevenue = days[i], v
		}
	}
	return sum, nil
}

var errPeriodTooLong = apperr.Invalid("period must not exceed %d days", MaxSummaryDays)

func tooLong(from, to time.Time) bool {
	return to.After(from.AddDate(0, 0, MaxSummaryDays))
}

// dailyRevenue buckets sales per calendar day in s.loc, zero-filling days
// without sales between the first and last day of the period. Open bounds
// fall back to the earliest and latest sale. A period with a supplied bound
// is limited to MaxSummaryDays.
func (s *service) dailyRevenue(sales []*Sale, from, to time.Time) ([]string, []float64, error) {
	byDay := make(map[string]decimal.Decimal)
	first, last := sales[0].CreatedAt, sales[0].CreatedAt
	for _, sale := range sales {
		day := sale.CreatedAt.In(s.loc).Format(product.DateLayout)
		byDay[day] = byDay[day].Add(decimal.NewFromFloat(sale.TotalAmount))
		if sale.CreatedAt.Before(first) {
			first = sale.CreatedAt
		}
		if sale.CreatedAt.After(last) {
			last = sale.CreatedAt
		}
	}
	if !from.IsZero() {
		first = from
	}
	if !to.IsZero() {
		last = to
	}
	if (!from.IsZero() || !to.IsZero()) && tooLong(first, last) {
		return nil, nil, errPeriodTooLong
	}

	var days []string
	var totals []float64
	y, m, d := first.In(s.loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	for !day.After(last) {
		key := day.Format(product.DateLayout)
		days = append(days, key)
		totals = append(totals, byDay[key].Round(2).InexactFloat64())
		day = day.AddDate(0, 0, 1)
	}
	return days, totals, nil
}

func (s *service) TopProducts(ctx context.Context, n int, from, to time.Time) ([]analytics.ProductTotal, error) {
	sales, err := s.ListSales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return analytics.TopProducts(Records(sales), n), nil
}
