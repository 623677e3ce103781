package sales

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

// memStore keeps products and sales in memory. InTx works on a copy of the
// stock and only keeps it when fn succeeds.
type memStore struct {
	stock    map[uuid.UUID]*ProductStock
	lastSale map[uuid.UUID]time.Time
	sales    []*Sale
	failOn   string
}

func newMemStore(products ...*ProductStock) *memStore {
	m := &memStore{stock: map[uuid.UUID]*ProductStock{}, lastSale: map[uuid.UUID]time.Time{}}
	for _, p := range products {
		m.stock[p.ID] = p
	}
	return m
}

func (m *memStore) InTx(ctx context.Context, fn func(tx TxRepository) error) error {
	tx := &memTx{store: m, stock: map[uuid.UUID]*ProductStock{}}
	for id, p := range m.stock {
		cp := *p
		tx.stock[id] = &cp
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.stock = tx.stock
	m.sales = append(m.sales, tx.sales...)
	for id, at := range tx.soldAt {
		m.lastSale[id] = at
	}
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*Sale, error) {
	for _, s := range m.sales {
		if s.ID.String() == id {
			return s, nil
		}
	}
	return nil, apperr.NotFound("sale %s not found", id)
}

func (m *memStore) List(ctx context.Context, from, to time.Time) ([]*Sale, error) {
	var out []*Sale
	for _, s := range m.sales {
		if (!from.IsZero() && s.CreatedAt.Before(from)) || (!to.IsZero() && s.CreatedAt.After(to)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memTx struct {
	store  *memStore
	stock  map[uuid.UUID]*ProductStock
	sales  []*Sale
	soldAt map[uuid.UUID]time.Time
}

func (t *memTx) LockProduct(ctx context.Context, id uuid.UUID) (*ProductStock, error) {
	p, ok := t.stock[id]
	if !ok {
		return nil, apperr.NotFound("product %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) CreateSale(ctx context.Context, s *Sale) error {
	if t.store.failOn == "create" {
		return errors.New("insert sale: boom")
	}
	t.sales = append(t.sales, s)
	return nil
}

func (t *memTx) DecrementStock(ctx context.Context, id uuid.UUID, qty int, soldAt time.Time) (int, error) {
	if t.store.failOn == "decrement" {
		return 0, errors.New("decrement stock: boom")
	}
	t.stock[id].Quantity -= qty
	if t.soldAt == nil {
		t.soldAt = map[uuid.UUID]time.Time{}
	}
	t.soldAt[id] = soldAt
	return t.stock[id].Quantity, nil
}

type restockCall struct {
	id     uuid.UUID
	qty    int
	reason product.RestockReason
}

type fakeRecommender struct{ calls []restockCall }

func (f *fakeRecommender) GenerateRestock(ctx context.Context, id uuid.UUID, qty int, reason product.RestockReason) error {
	f.calls = append(f.calls, restockCall{id, qty, reason})
	return nil
}

func newTestService(store Repository, rec *fakeRecommender) *service {
	s := NewService(store, rec, time.UTC).(*service)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestCheckout(t *testing.T) {
	milk := &ProductStock{ID: uuid.New(), Name: "Milk", Price: 24.99, Quantity: 20}
	bread := &ProductStock{ID: uuid.New(), Name: "Bread", Price: 17.5, Quantity: 100}
	store := newMemStore(milk, bread)
	rec := &fakeRecommender{}
	svc := newTestService(store, rec)
	user := uuid.New()

	sale, err := svc.Checkout(context.Background(), &user, CheckoutRequest{Items: []CartItem{
		{ProductID: milk.ID.String(), Quantity: 3},
		{ProductID: bread.ID.String(), Quantity: 2},
		{ProductID: milk.ID.String(), Quantity: 3},
	}})
	require.NoError(t, err)

	assert.Equal(t, 184.94, sale.TotalAmount)
	assert.Equal(t, &user, sale.UserID)
	assert.Equal(t, fixedNow, sale.CreatedAt)
	require.Len(t, sale.Items, 2, "duplicate lines are merged")
	for _, it := range sale.Items {
		assert.Equal(t, sale.ID, it.SaleID)
		if *it.ProductID == milk.ID {
			assert.Equal(t, 6, it.Quantity)
			assert.Equal(t, 24.99, it.SalePrice)
		}
	}

	assert.Equal(t, 14, store.stock[milk.ID].Quantity)
	assert.Equal(t, 98, store.stock[bread.ID].Quantity)
	assert.Equal(t, fixedNow, store.lastSale[milk.ID])
	require.Len(t, store.sales, 1)

	require.Len(t, rec.calls, 1, "only milk dropped to the low-stock threshold")
	assert.Equal(t, restockCall{milk.ID, 14, product.RestockAfterSale}, rec.calls[0])
}

func TestCheckout_Rejects(t *testing.T) {
	milk := &ProductStock{ID: uuid.New(), Name: "Milk", Price: 10, Quantity: 2}

	tests := []struct {
		name  string
		items []CartItem
		kind  error
		msg   string
	}{
		{"empty cart", nil, apperr.ErrValidation, "cart is empty"},
		{"bad id", []CartItem{{ProductID: "x", Quantity: 1}}, apperr.ErrValidation, `invalid product_id: "x"`},
		{"zero quantity", []CartItem{{ProductID: milk.ID.String(), Quantity: 0}}, apperr.ErrValidation, "quantity must be greater than zero"},
		{"missing id", []CartItem{{Quantity: 1}}, apperr.ErrValidation, "product_id is required"},
		{"upper-case id", []CartItem{{ProductID: strings.ToUpper(milk.ID.String()), Quantity: 3}}, ErrInsufficientStock, ""},
		{"unknown product", []CartItem{{ProductID: uuid.NewString(), Quantity: 1}}, apperr.ErrNotFound, ""},
		{"insufficient", []CartItem{{ProductID: milk.ID.String(), Quantity: 3}}, ErrInsufficientStock, "insufficient stock: Milk has 2 units, 3 requested"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(&ProductStock{ID: milk.ID, Name: milk.Name, Price: milk.Price, Quantity: milk.Quantity})
			svc := newTestService(store, &fakeRecommender{})

			_, err := svc.Checkout(context.Background(), nil, CheckoutRequest{Items: tt.items})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, err.Error())
			}
			assert.Empty(t, store.sales)
			assert.Equal(t, 2, store.stock[milk.ID].Quantity)
		})
	}
}

func TestCheckout_InsufficientStockIsConflict(t *testing.T) {
	assert.Equal(t, 409, apperr.Status(ErrInsufficientStock))
}

func TestCheckout_RollsBackOnWriteFailure(t *testing.T) {
	for _, step := range []string{"create", "decrement"} {
		milk := &ProductStock{ID: uuid.New(), Name: "Milk", Price: 10, Quantity: 8}
		store := newMemStore(milk)
		store.failOn = step
		rec := &fakeRecommender{}
		svc := newTestService(store, rec)

		_, err := svc.Checkout(context.Background(), nil, CheckoutRequest{Items: []CartItem{{ProductID: milk.ID.String(), Quantity: 1}}})
		assert.ErrorContains(t, err, "boom", step)
		assert.Empty(t, store.sales, step)
		assert.Equal(t, 8, store.stock[milk.ID].Quantity, step)
		assert.Empty(t, rec.calls, step)
	}
}

func seedSales(store *memStore, sales ...*Sale) {
	store.sales = append(store.sales, sales...)
}

func sale(at time.Time, total float64, items ...SaleItem) *Sale {
	return &Sale{ID: uuid.New(), CreatedAt: at, TotalAmount: total, Items: items}
}

func item(id uuid.UUID, name string, qty int, price float64) SaleItem {
	return SaleItem{ID: uuid.New(), ProductID: &id, ProductName: name, Quantity: qty, SalePrice: price}
}

func TestSummary(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	store := newMemStore()
	day := func(d, h int) time.Time { return time.Date(2026, 10, d, h, 0, 0, 0, time.UTC) }
	seedSales(store,
		sale(day(10, 9), 100, item(a, "Apples", 4, 25)),
		sale(day(10, 15), 50, item(b, "Bananas", 5, 10)),
		sale(day(12, 11), 30, item(a, "Apples", 1, 30)),
	)
	svc := newTestService(store, nil)

	sum, err := svc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 180.0, sum.Revenue)
	assert.Equal(t, 3, sum.Transactions)
	assert.Equal(t, 10, sum.ItemsSold)
	assert.Equal(t, 60.0, sum.AverageSale)
	// Oct 10: 150, Oct 11: 0, Oct 12: 30.
	assert.Equal(t, 60.0, sum.MeanDailyRevenue)
	assert.Equal(t, 30.0, sum.MedianDailyRevenue)
	assert.Equal(t, "2026-10-10", sum.BestDay)
	assert.Equal(t, 150.0, sum.BestDayRevenue)
	assert.Equal(t, "R180.00", sum.FormattedRevenue)

	sum, err = svc.Summary(context.Background(), day(11, 0), day(13, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Transactions)
	assert.Equal(t, 10.0, sum.MeanDailyRevenue, "Oct 11, 12 and 13")

	empty, err := svc.Summary(context.Background(), day(1, 0), day(2, 0))
	require.NoError(t, err)
	assert.Zero(t, empty.Revenue)
	assert.Zero(t, empty.MeanDailyRevenue)

	_, err = svc.Summary(context.Background(), day(5, 0), day(1, 0))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSummary_LimitsPeriod(t *testing.T) {
	store := newMemStore()
	seedSales(store, sale(fixedNow, 40))
	svc := newTestService(store, nil)
	ctx := context.Background()

	endOfTime := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	_, err := svc.Summary(ctx, time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), endOfTime)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Summary(ctx, time.Time{}, endOfTime)
	assert.ErrorIs(t, err, apperr.ErrValidation, "open start falls back to the first sale")

	_, err = svc.Summary(ctx, fixedNow.AddDate(-2, 0, 0), time.Time{})
	assert.ErrorIs(t, err, apperr.ErrValidation, "open end falls back to the last sale")

	yearAgo := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	sum, err := svc.Summary(ctx, yearAgo, yearAgo.AddDate(0, 0, MaxSummaryDays))
	require.NoError(t, err)
	assert.Equal(t, 40.0, sum.BestDayRevenue)
}

func TestTopProducts(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	store := newMemStore()
	seedSales(store,
		sale(fixedNow, 100, item(a, "Apples", 4, 25)),
		sale(fixedNow, 50, item(b, "Bananas", 5, 10), item(a, "Apples", 2, 25)),
	)
	svc := newTestService(store, nil)

	top, err := svc.TopProducts(context.Background(), 1, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Apples", top[0].ProductName)
	assert.Equal(t, 6, top[0].Quantity)
	assert.Equal(t, 150.0, top[0].Revenue)
}

func TestExports(t *testing.T) {
	a := uuid.New()
	sales := []*Sale{
		sale(fixedNow, 75, item(a, "Apples", 3, 25), SaleItem{ID: uuid.New(), Quantity: 1, SalePrice: 0}),
	}

	var csv bytes.Buffer
	require.NoError(t, WriteCSV(&csv, sales, time.UTC))
	lines := strings.Split(strings.TrimSpace(csv.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "sale_id,date,product,quantity,sale_price,line_total,sale_total", lines[0])
	assert.Contains(t, lines[1], "2026-10-15 14:30,Apples,3,25,75,75")
	assert.Contains(t, lines[2], "(deleted product)")

	var pdf bytes.Buffer
	require.NoError(t, WritePDF(&pdf, sales, time.Time{}, fixedNow, time.UTC))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))
}

// pdfContent inflates every compressed stream in a PDF and joins them.
func pdfContent(t *testing.T, doc []byte) string {
	t.Helper()
	var out strings.Builder
	for {
		i := bytes.Index(doc, []byte("stream\n"))
		if i < 0 {
			break
		}
		doc = doc[i+len("stream\n"):]
		j := bytes.Index(doc, []byte("endstream"))
		require.GreaterOrEqual(t, j, 0)
		if zr, err := zlib.NewReader(bytes.NewReader(doc[:j])); err == nil {
			b, _ := io.ReadAll(zr)
			out.Write(b)
		}
		doc = doc[j+len("endstream"):]
	}
	return out.String()
}

func TestWritePDF_AccentedNames(t *testing.T) {
	sales := []*Sale{sale(fixedNow, 40, item(uuid.New(), "Crème brûlée", 2, 20), item(uuid.New(), "Молоко", 1, 0))}

	var pdf bytes.Buffer
	require.NoError(t, WritePDF(&pdf, sales, time.Time{}, fixedNow, time.UTC))

	content := pdfContent(t, pdf.Bytes())
	assert.Contains(t, content, "(Cr\xe8me br\xfbl\xe9e)")
	assert.NotContains(t, content, "Crème")
	assert.Contains(t, content, "(......)")
}
