package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceDateLayout is the UK day/month/year presentation used on rendered
// invoices. Models keep time.Time; only the layout stage formats.
const InvoiceDateLayout = "02/01/2006"

// FormatDate renders a timestamp in UK day/month/year form.
func FormatDate(t time.Time) string {
	return t.Format(InvoiceDateLayout)
}

// FormatAmount renders a monetary amount with the currency symbol, two
// decimal places and UK-style thousands separators, e.g. "£1,234.56".
// Negative amounts keep the sign ahead of the symbol: "-£12.00".
func FormatAmount(currency string, amount decimal.Decimal) string {
	symbol := GetCurrencySymbol(currency)

	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteString(groupThousands(whole))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
