package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDigits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "1086751234", "1086751234"},
		{"spaced and dashed", "10-8675 1234", "1086751234"},
		{"arabic indic", "١٢٣٤", "1234"},
		{"extended arabic indic", "۱۲۳۴", "1234"},
		{"mixed letters", "iq 2468013579", "2468013579"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDigits(tt.in))
		})
	}
}

func TestIDTail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1234", IDTail("1086751234"))
	assert.Equal(t, "1234", IDTail("١٠٨٦٧٥١٢٣٤"))
	assert.Equal(t, "123", IDTail("123"))
	assert.Equal(t, "", IDTail("no digits"))
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNumeric("2026"))
	assert.False(t, IsNumeric("20a6"))
	assert.False(t, IsNumeric(""))
}

func TestIsValidDate(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidDate("2026-02-28"))
	assert.False(t, IsValidDate("2026-02-30"))
	assert.False(t, IsValidDate("28/02/2026"))
}
