package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/httpx"
	"github.com/google/uuid"
)

type ctxKey struct{}

// WithUserID returns ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID returns the authenticated user id, if any.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}

// Middleware rejects requests without a valid bearer token. Browsers cannot
// set headers on WebSocket upgrades, so a ?token= query parameter is
// accepted as well.
func Middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r)
			if raw == "" {
				httpx.Error(w, fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthorized))
				return
			}
			id, err := tokens.Parse(raw)
			if err != nil {
				httpx.Error(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return r.URL.Query().Get("token")
}
