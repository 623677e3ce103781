package assistant

import (
	"net/http"

	"github.com/georgemunganga/retailops-backend/internal/modules/auth"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/assistant", func(r chi.Router) {
		r.Post("/query", h.query)
		r.Get("/messages", h.history)
		r.Post("/messages", h.send)
		r.Delete("/messages", h.reset)
	})
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	answer, err := h.service.Ask(r.Context(), req.Prompt)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, answer)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	httpx.Respond(w, http.StatusOK, h.service.History(id))
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	var req MessageRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	reply, err := h.service.Send(r.Context(), id, req.Content)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, reply)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	h.service.Reset(id)
	w.WriteHeader(http.StatusNoContent)
}
