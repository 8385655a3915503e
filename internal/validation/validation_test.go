package validation

import (
	"testing"

	"github.com/garagebill/garagebill/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validModel() *invoice.Model {
	return &invoice.Model{
		Customer: invoice.Customer{Name: "Jane Doe"},
		Items: []invoice.LineItem{
			{
				Description: "Oil change",
				Qty:         decimal.NewFromInt(1),
				UnitPrice:   decimal.NewFromInt(40),
				LineTotal:   decimal.NewFromInt(40),
			},
		},
	}
}

func TestValidateNilModel(t *testing.T) {
	result := Validate(nil)
	assert.False(t, result.IsValid())
	assert.Equal(t, "No invoice record supplied", result.FirstError())
}

func TestValidateValidModel(t *testing.T) {
	result := Validate(validModel())
	assert.True(t, result.IsValid())
	assert.Empty(t, result.FirstError())
	assert.Empty(t, result.Problems())
}

func TestValidateMissingCustomerName(t *testing.T) {
	model := validModel()
	model.Customer.Name = "   "

	result := Validate(model)
	assert.False(t, result.IsValid())
	assert.Contains(t, result.FirstError(), "Customer name")
}

func TestValidateNoItems(t *testing.T) {
	model := validModel()
	model.Items = nil

	result := Validate(model)
	assert.False(t, result.IsValid())
	assert.Contains(t, result.FirstError(), "service item")
}

func TestValidateRulesAreIndependent(t *testing.T) {
	// top-level rules do not short-circuit: both failures are recorded
	result := Validate(&invoice.Model{})
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Customer name")
	assert.Contains(t, result.Errors[1], "service item")
}

func TestValidateItemProblemsAreWarnings(t *testing.T) {
	model := validModel()
	model.Items = append(model.Items, invoice.LineItem{
		Description: "Brakes",
		QtyInvalid:  true,
		RawQty:      "-1",
	})

	result := Validate(model)
	// an individual bad item never blocks finalize
	assert.True(t, result.IsValid())
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Item 2")
	assert.Contains(t, result.Warnings[0], "-1")
}

func TestValidateItemFirstFailureOnly(t *testing.T) {
	model := validModel()
	// blank description and zero qty: only the description problem is kept
	model.Items = []invoice.LineItem{{}}

	result := Validate(model)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "description")
}

func TestValidateZeroQtyWarns(t *testing.T) {
	model := validModel()
	model.Items[0].Qty = decimal.Zero

	result := Validate(model)
	assert.True(t, result.IsValid())
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "greater than zero")
}
