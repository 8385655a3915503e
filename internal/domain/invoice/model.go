package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Model is the canonical, renderer-agnostic invoice representation. It is
// built once per render request by the mapper, is read-only downstream and
// is discarded when the render attempt completes.
type Model struct {
	Company  Company
	Details  Details
	Customer Customer
	Items    []LineItem
	Totals   Totals
	Notes    string
}

// Company is the static business identity, immutable per render.
type Company struct {
	Name            string
	Website         string
	ContactChannels []string
}

// Details identifies the invoice itself. Number is supplied or derived
// deterministically; PIN is a short human-facing reference code, supplied
// or generated.
type Details struct {
	Number string
	Date   time.Time
	PIN    string

	// NumberDerived and PINGenerated record which identifiers were absent
	// from the source and filled in by the mapper. Generated values are
	// excluded from structural-equality checks on remapping.
	NumberDerived bool
	PINGenerated  bool
}

// Customer holds the billed party. Every field is optional; absence is a
// presentation concern, not an error, except where validation says otherwise.
type Customer struct {
	Name              string
	Vehicle           string
	Mileage           string
	Address           string
	Phone             string
	RegistrationPlate string
}

// LineItem is one billable service entry. LineTotal is always recomputed by
// the mapper as Qty x UnitPrice, never trusted from the source record.
type LineItem struct {
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal

	// QtyInvalid / UnitPriceInvalid flag values that were non-numeric or
	// negative in the source. The numbers above are clamped to zero for
	// computation; the raw source values are kept for warning display.
	QtyInvalid       bool
	UnitPriceInvalid bool
	RawQty           string
	RawUnitPrice     string
}

// Totals carries the financial block. Invariants, enforced by the mapper:
//
//	Subtotal  = sum of LineTotal
//	VATAmount = Subtotal * VATRate
//	Total     = Subtotal + VATAmount
//
// When the source record supplies an explicit override the override wins,
// but the computed values are retained so the two can be reconciled.
type Totals struct {
	Subtotal  decimal.Decimal
	VATRate   decimal.Decimal // 0-1 fraction
	VATAmount decimal.Decimal
	Total     decimal.Decimal

	ComputedSubtotal   decimal.Decimal
	ComputedTotal      decimal.Decimal
	SubtotalOverridden bool
	TotalOverridden    bool
}

// HasItems reports whether the invoice carries at least one line item.
func (m *Model) HasItems() bool {
	return len(m.Items) > 0
}
