package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is an untyped source record as returned by the record source.
// Keys may be absent, present under legacy names, or hold the wrong
// primitive type; the mapper owns all interpretation.
type Record map[string]any

// GetString returns the first non-blank string value found under the given
// keys, in priority order. Non-string scalars are not stringified; a key
// holding a number is treated as absent for string purposes.
func (r Record) GetString(keys ...string) string {
	for _, key := range keys {
		v, ok := r[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// GetNumber returns the first coercible numeric value found under the given
// keys, in priority order. Coercion follows loose "Number()" semantics:
// numeric types pass through, numeric strings are parsed, everything else is
// treated as absent. The bool reports whether any key held a coercible value.
func (r Record) GetNumber(keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		v, ok := r[key]
		if !ok {
			continue
		}
		if d, ok := CoerceNumber(v); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

// GetSlice returns the first slice value found under the given keys.
func (r Record) GetSlice(keys ...string) ([]any, bool) {
	for _, key := range keys {
		v, ok := r[key]
		if !ok {
			continue
		}
		if s, ok := v.([]any); ok {
			return s, true
		}
	}
	return nil, false
}

// Has reports whether any of the given keys is present at all, regardless
// of value.
func (r Record) Has(keys ...string) bool {
	for _, key := range keys {
		if _, ok := r[key]; ok {
			return true
		}
	}
	return false
}

// CoerceNumber converts an arbitrary scalar to a decimal with loose
// semantics: ints, floats, json.Number and numeric strings all coerce;
// blank strings, booleans and structured values do not.
func CoerceNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return decimal.Zero, false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
