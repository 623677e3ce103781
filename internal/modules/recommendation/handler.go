package recommendation

import (
	"net/http"

	"github.com/georgemunganga/retailops-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Get("/", h.list) // ?type=&priority=&include_read=
		r.Get("/counts", h.counts)
		r.Post("/scan", h.scan)
		r.Post("/read-all", h.markAllRead)
		r.Post("/{id}/read", h.markRead)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recs, err := h.service.List(r.Context(), ListFilter{
		Type:        Type(q.Get("type")),
		Priority:    Priority(q.Get("priority")),
		IncludeRead: cast.ToBool(q.Get("include_read")),
		Limit:       cast.ToInt(q.Get("limit")),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if recs == nil {
		recs = []*Recommendation{}
	}
	httpx.Respond(w, http.StatusOK, recs)
}

func (h *Handler) counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.UnreadCounts(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, counts)
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ScanInventory(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]int{"created": n})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkAllRead(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]int64{"updated": n})
}
