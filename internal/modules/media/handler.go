package media

import (
	"errors"
	"io"
	"net/http"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/media/images", h.uploadImage)
}

// uploadImage takes a multipart form with the image in "file".
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Error(w, apperr.Invalid("file exceeds %d MiB", MaxImageSize>>20))
			return
		}
		httpx.Error(w, apperr.Invalid("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	up, err := h.service.UploadImage(r.Context(), header.Filename, data)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, up)
}
