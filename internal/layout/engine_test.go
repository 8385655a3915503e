package layout

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/garagebill/garagebill/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelWithItems(n int) *invoice.Model {
	items := make([]invoice.LineItem, 0, n)
	for i := 1; i <= n; i++ {
		price := decimal.NewFromInt(10)
		items = append(items, invoice.LineItem{
			Description: fmt.Sprintf("Service %d", i),
			Qty:         decimal.NewFromInt(1),
			UnitPrice:   price,
			LineTotal:   price,
		})
	}

	subtotal := decimal.NewFromInt(int64(n * 10))
	rate := decimal.RequireFromString("0.2")
	vat := subtotal.Mul(rate)

	return &invoice.Model{
		Company: invoice.Company{Name: "GarageBill Motors"},
		Details: invoice.Details{
			Number: "INV-0001",
			PIN:    "ZX81",
			Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		Customer: invoice.Customer{Name: "Jane Doe"},
		Items:    items,
		Totals: invoice.Totals{
			Subtotal:  subtotal,
			VATRate:   rate,
			VATAmount: vat,
			Total:     subtotal.Add(vat),
		},
	}
}

func textContents(instructions []Instruction) []string {
	var out []string
	for _, in := range instructions {
		if in.Kind == KindText {
			out = append(out, in.Text.Content)
		}
	}
	return out
}

func countText(instructions []Instruction, content string) int {
	n := 0
	for _, c := range textContents(instructions) {
		if c == content {
			n++
		}
	}
	return n
}

func TestRowsPerPageBudget(t *testing.T) {
	assert.Equal(t, 25, DefaultGeometry.RowsPerPage())
}

func TestLayoutOpensWithNewPage(t *testing.T) {
	engine := NewEngine(DefaultGeometry, "gbp")
	instructions := engine.Layout(modelWithItems(1))

	require.NotEmpty(t, instructions)
	assert.Equal(t, KindNewPage, instructions[0].Kind)
	assert.Equal(t, 1, CountPages(instructions))
}

func TestLayoutSinglePageContents(t *testing.T) {
	engine := NewEngine(DefaultGeometry, "gbp")
	instructions := engine.Layout(modelWithItems(1))
	contents := textContents(instructions)

	assert.Contains(t, contents, "INV-0001")
	assert.Contains(t, contents, "PIN: ZX81")
	assert.Contains(t, contents, "Date: 14/03/2025")
	assert.Contains(t, contents, "Service 1")
	assert.Contains(t, contents, "£10.00")
	assert.Contains(t, contents, "VAT (20%)")
	assert.Contains(t, contents, "£12.00") // 10 + 20% VAT
}

func TestLayoutPagination(t *testing.T) {
	engine := NewEngine(DefaultGeometry, "gbp")

	tests := []struct {
		items int
		pages int
	}{
		{1, 1},
		{20, 1}, // last count where the totals reserve still fits
		{21, 2}, // items fit, totals spill to a fresh page
		{25, 2}, // fills the row budget exactly
		{40, 2}, // 25 + 15
		{50, 3}, // two full pages, totals forced onto a fresh page
	}
	for _, tt := range tests {
		instructions := engine.Layout(modelWithItems(tt.items))
		assert.Equalf(t, tt.pages, CountPages(instructions), "%d items", tt.items)
	}
}

func TestLayoutTotalsDrawnOnceAfterLastItem(t *testing.T) {
	engine := NewEngine(DefaultGeometry, "gbp")
	instructions := engine.Layout(modelWithItems(40))

	assert.Equal(t, 1, countText(instructions, "Subtotal"))
	assert.Equal(t, 1, countText(instructions, "Total"))

	contents := textContents(instructions)
	lastItem, subtotal := -1, -1
	for i, c := range contents {
		if c == "Service 40" {
			lastItem = i
		}
		if c == "Subtotal" {
			subtotal = i
		}
	}
	require.GreaterOrEqual(t, lastItem, 0)
	require.GreaterOrEqual(t, subtotal, 0)
	assert.Greater(t, subtotal, lastItem)
}

func TestLayoutTotalsOnEmptyContinuationPage(t *testing.T) {
	engine := NewEngine(DefaultGeometry, "gbp")
	instructions := engine.Layout(modelWithItems(50))

	// nothing but the totals and notes area may follow the final page break
	lastBreak := -1
	for i, in := range instructions {
		if in.Kind == KindNewPage {
			lastBreak = i
		}
	}
	require.GreaterOrEqual(t, lastBreak, 0)
	for _, in := range instructions[lastBreak+1:] {
		if in.Kind != KindText {
			continue
		}
		assert.NotContains(t, in.Text.Content, "Service ")
	}
	assert.Equal(t, 1, countText(instructions[lastBreak+1:], "Subtotal"))
}

func TestLayoutNoItemsPlaceholderRow(t *testing.T) {
	engine := NewEngine(DefaultGeometry, "gbp")
	instructions := engine.Layout(modelWithItems(0))

	assert.Equal(t, 1, countText(instructions, NoServicesRow))
	assert.Equal(t, 1, CountPages(instructions))
}

func TestLayoutFlaggedRowMarker(t *testing.T) {
	model := modelWithItems(1)
	model.Items[0].QtyInvalid = true
	model.Items[0].Qty = decimal.Zero
	model.Items[0].LineTotal = decimal.Zero

	engine := NewEngine(DefaultGeometry, "gbp")
	instructions := engine.Layout(model)

	assert.Equal(t, 1, countText(instructions, "Service 1 *"))
}

func TestLayoutMissingFieldPolicy(t *testing.T) {
	model := modelWithItems(1)
	model.Customer.Phone = ""

	// document policy: placeholder dash
	placeholder := NewEngine(DefaultGeometry, "gbp")
	contents := textContents(placeholder.Layout(model))
	assert.Contains(t, contents, "Phone: "+Placeholder)

	// hide policy: label and value both suppressed
	hidden := NewEngine(DefaultGeometry, "gbp").WithMissingFieldPolicy(PolicyHide)
	contents = textContents(hidden.Layout(model))
	for _, c := range contents {
		assert.False(t, strings.HasPrefix(c, "Phone:"))
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("Replace front and rear brake discs and pads including new retaining hardware and copper grease", 52)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 52)
	}

	// pathological token is hard split
	lines = wrapText(strings.Repeat("x", 120), 52)
	assert.Len(t, lines, 3)

	assert.Equal(t, []string{""}, wrapText("   ", 52))
}

func TestLayoutWrappedItemAdvancesCursor(t *testing.T) {
	model := modelWithItems(2)
	model.Items[0].Description = strings.Repeat("long description ", 8) // wraps

	engine := NewEngine(DefaultGeometry, "gbp")
	instructions := engine.Layout(model)

	// find the Y of the second item's row; it must sit more than one row
	// below the first
	var firstY, secondY float64
	for _, in := range instructions {
		if in.Kind != KindText {
			continue
		}
		if strings.HasPrefix(in.Text.Content, "long description") && firstY == 0 {
			firstY = in.Text.Y
		}
		if in.Text.Content == "Service 2" {
			secondY = in.Text.Y
		}
	}
	require.NotZero(t, firstY)
	require.NotZero(t, secondY)
	assert.GreaterOrEqual(t, secondY-firstY, 2*DefaultGeometry.RowHeight)
}
