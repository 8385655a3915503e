package layout

import (
	"fmt"
	"strings"

	"github.com/garagebill/garagebill/internal/domain/invoice"
	"github.com/garagebill/garagebill/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MissingFieldPolicy decides how an optional field that resolved to empty is
// presented. The paged document shows a placeholder dash; the live preview
// hides the label and value entirely. Both behaviors are deliberate and kept.
type MissingFieldPolicy string

const (
	PolicyPlaceholder MissingFieldPolicy = "placeholder"
	PolicyHide        MissingFieldPolicy = "hide"
)

// Placeholder is what PolicyPlaceholder renders for an empty optional field.
const Placeholder = "—"

// LogoResource is the name the layout gives the company logo image; the
// renderer resolves it and skips the instruction when the resource failed
// to load.
const LogoResource = "logo"

// NoServicesRow is the placeholder row rendered instead of an empty table.
const NoServicesRow = "No services listed"

var (
	styleTitle  = TextStyle{Size: 20, Bold: true}
	styleHeader = TextStyle{Size: 10, Bold: true}
	styleBody   = TextStyle{Size: 10}
	styleSmall  = TextStyle{Size: 8}
	styleTotal  = TextStyle{Size: 12, Bold: true}
)

// Engine converts a canonical invoice model into an ordered draw-instruction
// stream. Pagination is greedy and single pass: once an item is placed on a
// page it never moves.
type Engine struct {
	geom     Geometry
	currency string
	policy   MissingFieldPolicy
}

func NewEngine(geom Geometry, currency string) *Engine {
	return &Engine{
		geom:     geom,
		currency: currency,
		policy:   PolicyPlaceholder,
	}
}

// WithMissingFieldPolicy overrides the optional-field display policy.
func (e *Engine) WithMissingFieldPolicy(policy MissingFieldPolicy) *Engine {
	e.policy = policy
	return e
}

// Layout produces the full instruction stream for a model. The stream opens
// with a new-page instruction for the first page; every further new-page
// instruction is an overflow break.
func (e *Engine) Layout(model *invoice.Model) []Instruction {
	g := e.geom

	out := []Instruction{newPage()}
	out = append(out, e.header(model)...)
	out = append(out, e.tableHeader()...)

	cursor := g.ServicesStartY
	if !model.HasItems() {
		out = append(out, placeText(NoServicesRow, g.DescColX, cursor, AlignLeft, styleBody))
		cursor += g.RowHeight
	}

	for _, item := range model.Items {
		lines := wrapText(item.Description, g.DescColChars)
		height := float64(len(lines)) * g.RowHeight

		if cursor+height > g.PageBottomY {
			out = append(out, newPage())
			out = append(out, e.tableHeader()...)
			cursor = g.ServicesStartY
		}

		out = append(out, e.itemRow(item, lines, cursor)...)
		cursor += height
	}

	// The totals block is drawn once, after the last item, at a reserved
	// offset from the cursor. If the reserve no longer fits it moves to a
	// fresh page rather than reflowing any placed row.
	if cursor+g.TotalsHeight > g.PageBottomY {
		out = append(out, newPage())
		cursor = g.ServicesStartY
	}
	out = append(out, e.totals(model, cursor)...)
	cursor += g.TotalsHeight

	out = append(out, e.notes(model, cursor)...)

	return out
}

func (e *Engine) header(model *invoice.Model) []Instruction {
	g := e.geom

	out := []Instruction{
		placeImage(LogoResource, g.LogoX, g.LogoY, g.LogoW, g.LogoH),
		placeText("INVOICE", g.MarginRight, g.TitleY, AlignRight, styleTitle),
		placeText(model.Details.Number, g.MarginRight, g.NumberY, AlignRight, styleHeader),
		placeText("PIN: "+model.Details.PIN, g.MarginRight, g.PINY, AlignRight, styleBody),
		placeText("Date: "+types.FormatDate(model.Details.Date), g.MarginRight, g.DateY, AlignRight, styleBody),
	}

	y := g.CompanyY
	out = append(out, placeText(model.Company.Name, g.CompanyX, y, AlignLeft, styleHeader))
	if model.Company.Website != "" {
		y += g.LineGap
		out = append(out, placeText(model.Company.Website, g.CompanyX, y, AlignLeft, styleSmall))
	}
	for _, channel := range model.Company.ContactChannels {
		y += g.LineGap
		out = append(out, placeText(channel, g.CompanyX, y, AlignLeft, styleSmall))
	}

	out = append(out, placeText("Bill To", g.CustomerX, g.CustomerY, AlignLeft, styleHeader))
	y = g.CustomerY
	for _, field := range []struct{ label, value string }{
		{"Name", model.Customer.Name},
		{"Address", model.Customer.Address},
		{"Phone", model.Customer.Phone},
	} {
		line, ok := e.labelled(field.label, field.value)
		if !ok {
			continue
		}
		y += g.LineGap
		out = append(out, placeText(line, g.CustomerX, y, AlignLeft, styleBody))
	}

	out = append(out, placeText("Vehicle", g.VehicleX, g.VehicleY, AlignLeft, styleHeader))
	y = g.VehicleY
	for _, field := range []struct{ label, value string }{
		{"Make / Model", model.Customer.Vehicle},
		{"Reg", model.Customer.RegistrationPlate},
		{"Mileage", model.Customer.Mileage},
	} {
		line, ok := e.labelled(field.label, field.value)
		if !ok {
			continue
		}
		y += g.LineGap
		out = append(out, placeText(line, g.VehicleX, y, AlignLeft, styleBody))
	}

	vat := model.Totals.VATRate.Mul(hundred).StringFixed(0)
	out = append(out, placeText("VAT rate: "+vat+"%", g.MarginLeft, g.VATRateY, AlignLeft, styleBody))

	return out
}

// labelled formats an optional labelled field per the display policy. The
// second return is false when the field should be suppressed entirely.
func (e *Engine) labelled(label, value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		if e.policy == PolicyHide {
			return "", false
		}
		value = Placeholder
	}
	return label + ": " + value, true
}

func (e *Engine) tableHeader() []Instruction {
	g := e.geom
	return []Instruction{
		placeText("Description", g.DescColX, g.TableHeaderY, AlignLeft, styleHeader),
		placeText("Qty", g.QtyColX, g.TableHeaderY, AlignRight, styleHeader),
		placeText("Unit Price", g.UnitPriceColX, g.TableHeaderY, AlignRight, styleHeader),
		placeText("Total", g.TotalColX, g.TableHeaderY, AlignRight, styleHeader),
	}
}

func (e *Engine) itemRow(item invoice.LineItem, lines []string, y float64) []Instruction {
	g := e.geom

	desc := lines[0]
	if item.QtyInvalid || item.UnitPriceInvalid {
		// flagged rows stay visible with clamped amounts; the marker is the
		// highlight the canvas vocabulary allows
		desc += " *"
	}

	out := []Instruction{
		placeText(desc, g.DescColX, y, AlignLeft, styleBody),
		placeText(item.Qty.String(), g.QtyColX, y, AlignRight, styleBody),
		placeText(types.FormatAmount(e.currency, item.UnitPrice), g.UnitPriceColX, y, AlignRight, styleBody),
		placeText(types.FormatAmount(e.currency, item.LineTotal), g.TotalColX, y, AlignRight, styleBody),
	}

	for i, line := range lines[1:] {
		out = append(out, placeText(line, g.DescColX, y+float64(i+1)*g.RowHeight, AlignLeft, styleBody))
	}
	return out
}

func (e *Engine) totals(model *invoice.Model, y float64) []Instruction {
	g := e.geom
	t := model.Totals

	vatLabel := fmt.Sprintf("VAT (%s%%)", t.VATRate.Mul(hundred).StringFixed(0))

	return []Instruction{
		placeText("Subtotal", g.TotalsLabelX, y, AlignLeft, styleBody),
		placeText(types.FormatAmount(e.currency, t.Subtotal), g.TotalColX, y, AlignRight, styleBody),
		placeText(vatLabel, g.TotalsLabelX, y+g.RowHeight, AlignLeft, styleBody),
		placeText(types.FormatAmount(e.currency, t.VATAmount), g.TotalColX, y+g.RowHeight, AlignRight, styleBody),
		placeText("Total", g.TotalsLabelX, y+2*g.RowHeight, AlignLeft, styleTotal),
		placeText(types.FormatAmount(e.currency, t.Total), g.TotalColX, y+2*g.RowHeight, AlignRight, styleTotal),
	}
}

func (e *Engine) notes(model *invoice.Model, y float64) []Instruction {
	line, ok := e.labelled("Notes", model.Notes)
	if !ok {
		return nil
	}
	g := e.geom
	return []Instruction{placeText(line, g.MarginLeft, y+g.NotesGap, AlignLeft, styleSmall)}
}

// wrapText word-wraps a description into lines of at most budget characters.
// Words longer than the budget are hard split so a pathological token cannot
// push a row past the column.
func wrapText(s string, budget int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{""}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(s) {
		for len(word) > budget {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
			lines = append(lines, word[:budget])
			word = word[budget:]
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= budget:
			current.WriteByte(' ')
			current.WriteString(word)
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
