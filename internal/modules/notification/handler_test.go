package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/auth"
	"github.com/georgemunganga/retailops-backend/internal/modules/settings"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPrefs struct{ st *settings.Settings }

func (f fixedPrefs) Get(ctx context.Context, id uuid.UUID) (*settings.Settings, error) {
	return f.st, nil
}

func withUser(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), id)))
		})
	}
}

func TestHandler_ListRespectsSettings(t *testing.T) {
	c := NewCenter(0)
	c.Push(TypeWarning, CategoryStock, "Milk is running low (3 units remaining)")
	c.Push(TypeSuccess, CategorySales, "New sale recorded successfully")

	user := uuid.New()
	st := settings.Defaults(user)
	st.LowStockAlerts = false

	r := chi.NewRouter()
	r.Use(withUser(user))
	NewHandler(c, fixedPrefs{st}).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Milk")
	assert.Contains(t, rec.Body.String(), "New sale")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil))
	assert.JSONEq(t, `{"unread":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil))
	assert.JSONEq(t, `{"updated":2}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+uuid.NewString()+"/read", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Stream(t *testing.T) {
	c := NewCenter(0)
	r := chi.NewRouter()
	NewHandler(c, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/notifications/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	// The subscription is registered after the upgrade completes.
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.subs) == 1
	}, time.Second, 10*time.Millisecond)

	sent := c.Push(TypeSuccess, CategorySales, "New sale recorded successfully")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, "New sale recorded successfully", got.Message)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.subs) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
