package render_test

import (
	"testing"
	"time"

	"github.com/garagebill/garagebill/internal/domain/invoice"
	"github.com/garagebill/garagebill/internal/layout"
	"github.com/garagebill/garagebill/internal/render"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveModel() *invoice.Model {
	subtotal := decimal.NewFromInt(40)
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
		Items: []invoice.LineItem{
			{
				Description: "Oil change",
				Qty:         decimal.NewFromInt(1),
				UnitPrice:   subtotal,
				LineTotal:   subtotal,
			},
		},
		Totals: invoice.Totals{
			Subtotal:  subtotal,
			VATRate:   rate,
			VATAmount: vat,
			Total:     subtotal.Add(vat),
		},
	}
}

func TestLiveBindHidesMissingFields(t *testing.T) {
	r := render.NewLiveRenderer("gbp")
	binding := r.Bind(liveModel())

	assert.True(t, binding.Get("customer.name").Visible)
	assert.Equal(t, "Jane Doe", binding.Get("customer.name").Value)

	// the live surface hides empty optional fields outright
	assert.False(t, binding.Get("customer.phone").Visible)
	assert.False(t, binding.Get("vehicle.mileage").Visible)
}

func TestLiveBindPlaceholderPolicy(t *testing.T) {
	// same renderer, document policy: empty fields show the dash instead
	r := render.NewLiveRenderer("gbp").WithMissingFieldPolicy(layout.PolicyPlaceholder)
	binding := r.Bind(liveModel())

	phone := binding.Get("customer.phone")
	assert.True(t, phone.Visible)
	assert.Equal(t, layout.Placeholder, phone.Value)
}

func TestLiveViewRows(t *testing.T) {
	model := liveModel()
	model.Items = append(model.Items, invoice.LineItem{
		Description: "Brakes",
		QtyInvalid:  true,
		Qty:         decimal.Zero,
		UnitPrice:   decimal.NewFromInt(90),
		LineTotal:   decimal.Zero,
	})

	r := render.NewLiveRenderer("gbp")
	view := r.View(model, []string{"Item 2: quantity must be greater than zero (got -1)"})

	require.Len(t, view.Items, 2)
	assert.False(t, view.Items[0].Flagged)
	assert.Equal(t, "£40.00", view.Items[0].LineTotal)
	assert.True(t, view.Items[1].Flagged)
	assert.Equal(t, "£0.00", view.Items[1].LineTotal)
	assert.False(t, view.NoServices)
	assert.Len(t, view.Problems, 1)
}

func TestLiveRenderHTML(t *testing.T) {
	r := render.NewLiveRenderer("gbp")
	html, err := r.RenderHTML(liveModel(), nil)
	require.NoError(t, err)

	assert.Contains(t, html, "INV-0001")
	assert.Contains(t, html, "ZX81")
	assert.Contains(t, html, "Date: 14/03/2025")
	assert.Contains(t, html, "Oil change")
	assert.Contains(t, html, "Total: £48.00")

	// hidden, not dashed
	assert.NotContains(t, html, "Phone:")
	assert.NotContains(t, html, layout.Placeholder)
}

func TestLiveRenderHTMLNoServices(t *testing.T) {
	model := liveModel()
	model.Items = nil

	r := render.NewLiveRenderer("gbp")
	html, err := r.RenderHTML(model, []string{"At least one service item is required"})
	require.NoError(t, err)

	assert.Contains(t, html, "No services listed")
	assert.Contains(t, html, `<ul class="warnings">`)
	assert.Contains(t, html, "At least one service item is required")
}

func TestLiveRenderHTMLFlaggedRowClass(t *testing.T) {
	model := liveModel()
	model.Items[0].UnitPriceInvalid = true

	r := render.NewLiveRenderer("gbp")
	html, err := r.RenderHTML(model, nil)
	require.NoError(t, err)

	assert.Contains(t, html, `class="flagged"`)
}
