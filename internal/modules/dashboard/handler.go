package dashboard

import (
	"net/http"

	"github.com/georgemunganga/retailops-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/dashboard", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Load(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, d)
}
