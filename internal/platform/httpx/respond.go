// Package httpx has the JSON helpers every module handler shares.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"go.uber.org/zap"
)

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Warnf("encode response: %v", err)
	}
}

// Error writes {"error": msg} with a status derived from err.
func Error(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		zap.S().Errorf("request failed: %v", err)
	}
	Respond(w, status, map[string]string{"error": err.Error()})
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("invalid JSON body: %v", err)
	}
	return nil
}
