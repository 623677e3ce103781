package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Invalid("name is required"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load sale: %w", NotFound("sale %s not found", "x")), http.StatusNotFound},
		{"conflict", Conflict("duplicate"), http.StatusConflict},
		{"unauthorized", fmt.Errorf("login: %w", ErrUnauthorized), http.StatusUnauthorized},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestKindErrorMessage(t *testing.T) {
	err := Invalid("quantity must be > 0 for product %s", "abc")
	assert.Equal(t, "quantity must be > 0 for product abc", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}
