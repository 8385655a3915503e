package validation

import (
	"fmt"
	"strings"

	"github.com/garagebill/garagebill/internal/domain/invoice"
)

// Result is the outcome of one validation pass. It is advisory data, not an
// exception: a failing result disables the finalize action but never stops
// a preview render.
//
// Two severity tiers:
//   - Errors are hard blocks (no record, blank customer name, no items);
//     the invoice cannot be finalized while any is present.
//   - Warnings are per-item problems (blank description, bad numbers);
//     the row is still shown, highlighted, with its numeric contribution
//     clamped to zero, and the invoice stays finalizable.
type Result struct {
	Errors   []string
	Warnings []string
}

// IsValid reports whether the invoice may be finalized.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// FirstError returns the primary user-facing message, or "" when valid.
func (r Result) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

// Problems returns every recorded problem, hard errors first, in rule order.
func (r Result) Problems() []string {
	return append(append([]string{}, r.Errors...), r.Warnings...)
}

// Validate checks the structural completeness of a candidate invoice.
// Top-level rules are evaluated independently, not short-circuited; per
// line item only the first applicable failure is recorded.
func Validate(model *invoice.Model) Result {
	var result Result

	if model == nil {
		result.Errors = append(result.Errors, "No invoice record supplied")
		return result
	}

	if strings.TrimSpace(model.Customer.Name) == "" {
		result.Errors = append(result.Errors, "Customer name is required")
	}

	if !model.HasItems() {
		result.Errors = append(result.Errors, "At least one service item is required")
	}

	for i, item := range model.Items {
		if problem := validateItem(item); problem != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Item %d: %s", i+1, problem))
		}
	}

	return result
}

// validateItem returns the first applicable failure for one line item.
func validateItem(item invoice.LineItem) string {
	if strings.TrimSpace(item.Description) == "" {
		return "description is required"
	}
	if item.QtyInvalid {
		return fmt.Sprintf("quantity %q is not a valid amount", item.RawQty)
	}
	if !item.Qty.IsPositive() {
		return "quantity must be greater than zero"
	}
	if item.UnitPriceInvalid {
		return fmt.Sprintf("unit price %q is not a valid amount", item.RawUnitPrice)
	}
	if item.UnitPrice.IsNegative() {
		return "unit price must not be negative"
	}
	return ""
}
