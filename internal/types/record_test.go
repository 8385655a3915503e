package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordGetString(t *testing.T) {
	rec := Record{
		"customerName": "   ",
		"clientName":   "Jane Doe",
		"mileage":      42000,
	}

	// blanks and non-strings are skipped, priority order holds
	assert.Equal(t, "Jane Doe", rec.GetString("customerName", "clientName"))
	assert.Empty(t, rec.GetString("mileage"))
	assert.Empty(t, rec.GetString("missing"))
}

func TestRecordGetNumber(t *testing.T) {
	rec := Record{
		"qty":   "not a number",
		"price": "54.85",
	}

	// a present but uncoercible key falls through to the next alias
	d, ok := rec.GetNumber("qty", "price")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("54.85")))

	_, ok = rec.GetNumber("qty")
	assert.False(t, ok)
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{42, "42", true},
		{int64(42), "42", true},
		{42.5, "42.5", true},
		{json.Number("19.99"), "19.99", true},
		{"  7 ", "7", true},
		{"", "", false},
		{"n/a", "", false},
		{true, "", false},
		{[]any{1}, "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		d, ok := CoerceNumber(tt.in)
		assert.Equalf(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.Truef(t, d.Equal(decimal.RequireFromString(tt.want)), "%v", tt.in)
		}
	}
}
