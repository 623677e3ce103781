package sales

import (
	"net/http"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/modules/auth"
	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Handler exposes checkout and sales history endpoints.
type Handler struct {
	service Service
	loc     *time.Location
}

// NewHandler creates a handler that reads from/to dates in loc.
func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{service: service, loc: loc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Post("/checkout", h.checkout)
		r.Get("/", h.listSales) // ?from=YYYY-MM-DD&to=YYYY-MM-DD
		r.Get("/summary", h.summary)
		r.Get("/top", h.topProducts) // ?limit=
		r.Get("/export.csv", h.exportCSV)
		r.Get("/report.pdf", h.reportPDF)
		r.Get("/{id}", h.getSale)
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	var userID *uuid.UUID
	if id, ok := auth.UserID(r.Context()); ok {
		userID = &id
	}
	sale, err := h.service.Checkout(r.Context(), userID, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	sales, err := h.service.ListSales(r.Context(), from, to)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if sales == nil {
		sales = []*Sale{}
	}
	httpx.Respond(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sale)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	sum, err := h.service.Summary(r.Context(), from, to)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sum)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n <= 0 {
			httpx.Error(w, apperr.Invalid("limit must be a positive integer"))
			return
		}
		limit = n
	}
	top, err := h.service.TopProducts(r.Context(), limit, from, to)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if top == nil {
		top = []analytics.ProductTotal{}
	}
	httpx.Respond(w, http.StatusOK, top)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	sales, err := h.service.ListSales(r.Context(), from, to)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	if err := WriteCSV(w, sales, h.loc); err != nil {
		zap.S().Errorf("write sales csv: %v", err)
	}
}

func (h *Handler) reportPDF(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	sales, err := h.service.ListSales(r.Context(), from, to)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="sales-report.pdf"`)
	if err := WritePDF(w, sales, from, to, h.loc); err != nil {
		zap.S().Errorf("write sales report: %v", err)
	}
}

// period reads ?from= and ?to= as whole days in h.loc; to covers its
// entire day.
func (h *Handler) period(r *http.Request) (from, to time.Time, err error) {
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if from, err = time.ParseInLocation(product.DateLayout, v, h.loc); err != nil {
			return from, to, apperr.Invalid("from must be YYYY-MM-DD")
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = time.ParseInLocation(product.DateLayout, v, h.loc); err != nil {
			return from, to, apperr.Invalid("to must be YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}
