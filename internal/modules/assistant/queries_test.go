package assistant

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	huge := "1" + strings.Repeat("0", 400)
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		dbType string
		in     interface{}
		want   interface{}
	}{
		{"numeric", "NUMERIC", []byte("123.45"), 123.45},
		{"numeric nan", "NUMERIC", []byte("NaN"), "NaN"},
		{"numeric infinity", "NUMERIC", []byte("Infinity"), "Infinity"},
		{"numeric overflow", "NUMERIC", []byte(huge), huge},
		{"text that looks numeric", "TEXT", []byte("007"), "007"},
		{"text nan", "VARCHAR", []byte("NaN"), "NaN"},
		{"text infinity", "TEXT", []byte("Infinity"), "Infinity"},
		{"integer", "INT8", int64(7), int64(7)},
		{"date", "DATE", day, day},
		{"null", "NUMERIC", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.dbType, tt.in))
		})
	}
}

func TestNormalize_RowsAlwaysMarshal(t *testing.T) {
	row := Row{
		"name":       normalize("TEXT", []byte("Infinity")),
		"total_loss": normalize("NUMERIC", []byte("NaN")),
		"price":      normalize("NUMERIC", []byte("19.99")),
	}
	b, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Infinity","total_loss":"NaN","price":19.99}`, string(b))
}
