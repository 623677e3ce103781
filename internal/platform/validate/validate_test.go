package validate

import (
	"testing"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"min=6"`
	Day      string  `json:"day" validate:"required,datetime=2006-01-02"`
	Ref      string  `json:"ref" validate:"omitempty,uuid"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Count    int     `json:"count" validate:"gt=0"`
	Note     string  `json:"note" validate:"max=5"`
	Level    string  `json:"level" validate:"omitempty,oneof=low high"`
}

func valid() signup {
	return signup{Email: "a@b.co", Password: "secret1", Day: "2026-10-15", Amount: 1, Count: 1}
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(valid()))

	tests := []struct {
		name   string
		mutate func(*signup)
		want   string
	}{
		{"missing email", func(s *signup) { s.Email = "" }, "email is required"},
		{"bad email", func(s *signup) { s.Email = "nope" }, "email must be a valid email address"},
		{"short password", func(s *signup) { s.Password = "123" }, "password must be at least 6 characters"},
		{"bad day", func(s *signup) { s.Day = "15/10/2026" }, "day must be YYYY-MM-DD"},
		{"bad ref", func(s *signup) { s.Ref = "x" }, `invalid ref: "x"`},
		{"negative amount", func(s *signup) { s.Amount = -1 }, "amount must not be negative"},
		{"zero count", func(s *signup) { s.Count = 0 }, "count must be greater than zero"},
		{"long note", func(s *signup) { s.Note = "ßßßßßß" }, "note must be at most 5 characters"},
		{"bad level", func(s *signup) { s.Level = "mid" }, "level must be one of low, high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := Struct(s)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestStruct_FirstFieldWins(t *testing.T) {
	s := valid()
	s.Email, s.Count = "", 0
	assert.EqualError(t, Struct(s), "email is required")
}

func TestStruct_MaxCountsRunes(t *testing.T) {
	s := valid()
	s.Note = "ßßßßß"
	assert.NoError(t, Struct(s))
}
