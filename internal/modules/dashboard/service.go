// Package dashboard assembles the landing-page metrics from products,
// sales and recommendations.
package dashboard

import (
	"context"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/modules/recommendation"
	"github.com/georgemunganga/retailops-backend/internal/modules/sales"
	"golang.org/x/sync/errgroup"
)

// Metrics is the dashboard payload.
type Metrics struct {
	TotalProducts        int     `json:"total_products"`
	LowStockProducts     int     `json:"low_stock_products"`
	ExpiringProducts     int     `json:"expiring_products"`
	ExpiredProducts      int     `json:"expired_products"`
	TotalLoss            float64 `json:"total_loss"`
	TodaySales           float64 `json:"today_sales"`
	YesterdaySales       float64 `json:"yesterday_sales"`
	WeekSales            float64 `json:"week_sales"`
	PrevWeekSales        float64 `json:"prev_week_sales"`
	MonthSales           float64 `json:"month_sales"`
	DailyChange          int     `json:"daily_change"`
	WeeklyChange         int     `json:"weekly_change"`
	TodayRecommendations int     `json:"today_recommendations"`
	FormattedTodaySales  string  `json:"formatted_today_sales"`
	FormattedWeekSales   string  `json:"formatted_week_sales"`
	FormattedTotalLoss   string  `json:"formatted_total_loss"`
}

// Dashboard is everything the landing page shows.
type Dashboard struct {
	Metrics         Metrics                          `json:"metrics"`
	Expired         []*product.View                  `json:"expired"`
	Critical        []*product.View                  `json:"critical"`
	Recommendations []*recommendation.Recommendation `json:"recommendations"`
	TopProducts     []analytics.ProductTotal         `json:"top_products"`
}

type Service interface {
	Load(ctx context.Context) (*Dashboard, error)
}

type service struct {
	products product.Repository
	sales    sales.Repository
	recs     recommendation.Repository
	loc      *time.Location
	now      func() time.Time
}

// NewService creates a dashboard service; calendar days are taken in loc.
func NewService(products product.Repository, salesRepo sales.Repository, recs recommendation.Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{products: products, sales: salesRepo, recs: recs, loc: loc, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *service) Load(ctx context.Context) (*Dashboard, error) {
	now := s.now().In(s.loc)
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)
	twoWeeksAgo := today.AddDate(0, 0, -14)
	monthAgo := today.AddDate(0, 0, -30)

	var (
		products []*product.Product
		recent   []*sales.Sale
		highRecs []*recommendation.Recommendation
		unread   []*recommendation.Recommendation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.products.List(gctx, product.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.sales.List(gctx, monthAgo, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		highRecs, err = s.recs.List(gctx, recommendation.ListFilter{Priority: recommendation.PriorityHigh, Limit: 3})
		return err
	})
	g.Go(func() (err error) {
		unread, err = s.recs.List(gctx, recommendation.ListFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stock := make([]analytics.Stock, len(products))
	byID := make(map[string]*product.Product, len(products))
	for i, p := range products {
		stock[i] = p.Stock()
		byID[stock[i].ID] = p
	}
	views := func(items []analytics.Stock) []*product.View {
		out := make([]*product.View, 0, len(items))
		for _, it := range items {
			out = append(out, product.NewView(byID[it.ID], now))
		}
		return out
	}

	records := sales.Records(recent)
	expired := analytics.Expired(stock, now)
	m := Metrics{
		TotalProducts:    len(products),
		LowStockProducts: len(analytics.LowStock(stock)),
		ExpiringProducts: len(analytics.Expiring(stock, now)),
		ExpiredProducts:  len(expired),
		TotalLoss:        analytics.ExpiredLoss(stock, now),
		TodaySales:       analytics.TotalSales(records, today, time.Time{}),
		YesterdaySales:   analytics.TotalSales(records, yesterday, today.Add(-time.Nanosecond)),
		WeekSales:        analytics.TotalSales(records, weekAgo, time.Time{}),
		PrevWeekSales:    analytics.TotalSales(records, twoWeeksAgo, weekAgo.Add(-time.Nanosecond)),
		MonthSales:       analytics.TotalSales(records, monthAgo, time.Time{}),
	}
	m.DailyChange = analytics.PercentChange(m.TodaySales, m.YesterdaySales)
	m.WeeklyChange = analytics.PercentChange(m.WeekSales, m.PrevWeekSales)
	for _, r := range unread {
		if !r.CreatedAt.Before(today) {
			m.TodayRecommendations++
		}
	}
	m.FormattedTodaySales = analytics.FormatCurrency(m.TodaySales)
	m.FormattedWeekSales = analytics.FormatCurrency(m.WeekSales)
	m.FormattedTotalLoss = analytics.FormatCurrency(m.TotalLoss)

	if highRecs == nil {
		highRecs = []*recommendation.Recommendation{}
	}
	return &Dashboard{
		Metrics:         m,
		Expired:         views(expired),
		Critical:        views(analytics.CriticalProducts(stock, now)),
		Recommendations: highRecs,
		TopProducts:     analytics.TopProducts(records, 5),
	}, nil
}
