package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/garagebill/garagebill/internal/config"
	"github.com/garagebill/garagebill/internal/domain/invoice"
	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/types"
	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when the source carries the date as a
// string. The record producers were never consistent about this.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// Mapper normalizes arbitrary source records into the canonical invoice
// model. It is the only place allowed to decide matching and fallback
// between inconsistent source field names; downstream stages consume the
// canonical shape only. Map is a pure transformation apart from PIN
// generation for records that carry none.
type Mapper struct {
	aliases        AliasTable
	company        invoice.Company
	defaultVATRate decimal.Decimal

	// now and newPIN are injectable for deterministic tests.
	now    func() time.Time
	newPIN func() string
}

func New(cfg *config.Configuration) *Mapper {
	return &Mapper{
		aliases: AliasTableV1,
		company: invoice.Company{
			Name:            cfg.Company.Name,
			Website:         cfg.Company.Website,
			ContactChannels: cfg.Company.ContactChannels,
		},
		defaultVATRate: decimal.NewFromFloat(cfg.Invoice.DefaultVATRate),
		now:            time.Now,
		newPIN:         types.GeneratePIN,
	}
}

// WithClock overrides the time source. Intended for tests.
func (m *Mapper) WithClock(now func() time.Time) *Mapper {
	m.now = now
	return m
}

// WithPINSource overrides PIN generation. Intended for tests.
func (m *Mapper) WithPINSource(newPIN func() string) *Mapper {
	m.newPIN = newPIN
	return m
}

// Map builds the canonical model from a raw record. The only error case is
// a record that is absent entirely; missing or malformed optional fields
// degrade to defaults.
func (m *Mapper) Map(rec types.Record) (*invoice.Model, error) {
	if rec == nil {
		return nil, ierr.NewError("cannot map a nil record").
			WithHint("No invoice record was supplied").
			Mark(ierr.ErrMissingInput)
	}

	model := &invoice.Model{
		Company:  m.company,
		Customer: m.mapCustomer(rec),
		Items:    m.mapItems(rec),
		Notes:    rec.GetString(m.aliases.Notes...),
	}
	model.Details = m.mapDetails(rec)
	model.Totals = m.mapTotals(rec, model.Items)

	return model, nil
}

func (m *Mapper) mapCustomer(rec types.Record) invoice.Customer {
	vehicle := rec.GetString(m.aliases.Vehicle...)
	plate := rec.GetString(m.aliases.Plate...)

	// The workshop app stored "make, plate" in one combined field. Split on
	// the first comma; each half only fills a gap left by the direct fields.
	if combined := rec.GetString(m.aliases.CombinedVehicle...); combined != "" {
		dVehicle, dPlate := splitCombinedVehicle(combined)
		if vehicle == "" {
			vehicle = dVehicle
		}
		if plate == "" {
			plate = dPlate
		}
	}

	return invoice.Customer{
		Name:              strings.TrimSpace(rec.GetString(m.aliases.CustomerName...)),
		Vehicle:           vehicle,
		Mileage:           m.mapMileage(rec),
		Address:           rec.GetString(m.aliases.Address...),
		Phone:             rec.GetString(m.aliases.Phone...),
		RegistrationPlate: plate,
	}
}

func splitCombinedVehicle(combined string) (vehicle, plate string) {
	before, after, found := strings.Cut(combined, ",")
	if !found {
		return strings.TrimSpace(combined), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

func (m *Mapper) mapMileage(rec types.Record) string {
	if s := rec.GetString(m.aliases.Mileage...); s != "" {
		return s
	}
	if n, ok := rec.GetNumber(m.aliases.Mileage...); ok {
		return n.String()
	}
	return ""
}

func (m *Mapper) mapDetails(rec types.Record) invoice.Details {
	details := invoice.Details{
		Date: m.mapDate(rec),
	}

	suppliedPIN := rec.GetString(m.aliases.PIN...)
	if suppliedPIN != "" {
		details.PIN = suppliedPIN
	} else {
		details.PIN = m.newPIN()
		details.PINGenerated = true
	}

	if number := rec.GetString(m.aliases.InvoiceNumber...); number != "" {
		details.Number = number
		return details
	}

	// Derive a number from the supplied PIN, then from an id prefix. A
	// record carrying neither stays a draft until one is assigned upstream.
	details.NumberDerived = true
	switch {
	case suppliedPIN != "":
		details.Number = "INV-" + suppliedPIN
	default:
		if id := rec.GetString(m.aliases.ID...); id != "" {
			details.Number = "INV-" + idPrefix(id)
		} else {
			details.Number = "DRAFT"
		}
	}
	return details
}

func idPrefix(id string) string {
	if len(id) > 6 {
		id = id[:6]
	}
	return strings.ToUpper(id)
}

func (m *Mapper) mapDate(rec types.Record) time.Time {
	raw := rec.GetString(m.aliases.Date...)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	if n, ok := rec.GetNumber(m.aliases.Date...); ok {
		// epoch millis from the booking system
		return time.UnixMilli(n.IntPart()).UTC()
	}
	return m.now()
}

func (m *Mapper) mapItems(rec types.Record) []invoice.LineItem {
	raw, ok := rec.GetSlice(m.aliases.Items...)
	if !ok {
		return nil
	}

	items := make([]invoice.LineItem, 0, len(raw))
	for _, elem := range raw {
		fields, ok := asRecord(elem)
		if !ok {
			continue
		}
		items = append(items, m.mapItem(fields))
	}
	return items
}

func asRecord(v any) (types.Record, bool) {
	switch rec := v.(type) {
	case types.Record:
		return rec, true
	case map[string]any:
		return types.Record(rec), true
	default:
		return nil, false
	}
}

func (m *Mapper) mapItem(fields types.Record) invoice.LineItem {
	item := invoice.LineItem{
		Description: fields.GetString(m.aliases.ItemDescription...),
	}

	// Qty defaults to 1 when the field is absent entirely; a present but
	// non-numeric or negative value clamps to 0 and is flagged so the
	// display layer can highlight the row.
	qty, ok := fields.GetNumber(m.aliases.ItemQty...)
	switch {
	case !ok && !fields.Has(m.aliases.ItemQty...):
		item.Qty = decimal.NewFromInt(1)
	case !ok || qty.IsNegative():
		item.Qty = decimal.Zero
		item.QtyInvalid = true
		item.RawQty = rawValue(fields, m.aliases.ItemQty)
	default:
		item.Qty = qty
	}

	price, ok := fields.GetNumber(m.aliases.ItemUnitPrice...)
	switch {
	case !ok && fields.Has(m.aliases.ItemUnitPrice...):
		item.UnitPrice = decimal.Zero
		item.UnitPriceInvalid = true
		item.RawUnitPrice = rawValue(fields, m.aliases.ItemUnitPrice)
	case ok && price.IsNegative():
		item.UnitPrice = decimal.Zero
		item.UnitPriceInvalid = true
		item.RawUnitPrice = rawValue(fields, m.aliases.ItemUnitPrice)
	default:
		item.UnitPrice = price
	}

	item.LineTotal = item.Qty.Mul(item.UnitPrice)
	return item
}

func rawValue(fields types.Record, keys []string) string {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func (m *Mapper) mapTotals(rec types.Record, items []invoice.LineItem) invoice.Totals {
	totals := invoice.Totals{
		VATRate: m.mapVATRate(rec),
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	totals.ComputedSubtotal = subtotal
	totals.Subtotal = subtotal

	// Explicit overrides from a source system that already finalized the
	// amounts win over the computed values; the computed values stay
	// available for reconciliation.
	if override, ok := rec.GetNumber(m.aliases.SubtotalOverride...); ok {
		totals.Subtotal = override
		totals.SubtotalOverridden = true
	}

	totals.VATAmount = totals.Subtotal.Mul(totals.VATRate)
	totals.ComputedTotal = totals.ComputedSubtotal.Mul(totals.VATRate).Add(totals.ComputedSubtotal)
	totals.Total = totals.Subtotal.Add(totals.VATAmount)

	if override, ok := rec.GetNumber(m.aliases.TotalOverride...); ok {
		totals.Total = override
		totals.TotalOverridden = true
	}

	return totals
}

func (m *Mapper) mapVATRate(rec types.Record) decimal.Decimal {
	rate, ok := rec.GetNumber(m.aliases.VATRate...)
	if !ok || rate.IsNegative() {
		return m.defaultVATRate
	}
	// Legacy records stored percentages ("20"), newer ones fractions ("0.2").
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}
