package notification

import (
	"context"
	"net/http"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/auth"
	"github.com/georgemunganga/retailops-backend/internal/modules/settings"
	"github.com/georgemunganga/retailops-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Preferences supplies the alert settings of a user.
type Preferences interface {
	Get(ctx context.Context, userID uuid.UUID) (*settings.Settings, error)
}

type Handler struct {
	center   *Center
	prefs    Preferences
	upgrader websocket.Upgrader
}

// NewHandler serves center. prefs may be nil, in which case nothing is
// hidden.
func NewHandler(center *Center, prefs Preferences) *Handler {
	return &Handler{
		center: center,
		prefs:  prefs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Requests are already authenticated by token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/unread-count", h.unreadCount)
		r.Post("/read-all", h.markAllRead)
		r.Post("/{id}/read", h.markRead)
		r.Get("/ws", h.stream)
	})
}

// visibility applies the caller's alert settings.
func (h *Handler) visibility(r *http.Request) Visibility {
	id, ok := auth.UserID(r.Context())
	if !ok || h.prefs == nil {
		return ShowAll
	}
	st, err := h.prefs.Get(r.Context(), id)
	if err != nil {
		zap.S().Warnf("load settings for %s: %v", id, err)
		return ShowAll
	}
	return Visibility{LowStock: st.LowStockAlerts, Expiry: st.ExpiryAlerts, Sales: st.SalesReports}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	httpx.Respond(w, http.StatusOK, h.center.List(h.visibility(r)))
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	httpx.Respond(w, http.StatusOK, map[string]int{"unread": h.center.UnreadCount(h.visibility(r))})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.center.MarkRead(chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	httpx.Respond(w, http.StatusOK, map[string]int{"updated": h.center.MarkAllRead()})
}

// stream pushes each new visible notification as a JSON text frame.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	vis := h.visibility(r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		zap.S().Debugf("notification stream upgrade: %v", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.center.Subscribe(16)
	defer unsubscribe()

	// Drain client frames so pongs and close messages are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case n, ok := <-updates:
			if !ok {
				return
			}
			if !vis.Shows(n) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
