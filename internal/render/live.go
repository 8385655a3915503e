package render

import (
	"html/template"
	"strings"

	"github.com/garagebill/garagebill/internal/domain/invoice"
	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/layout"
	"github.com/garagebill/garagebill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var hundredPct = decimal.NewFromInt(100)

// Slot is one named value in the live template binding. A slot that is not
// visible suppresses both its label and its value; this is the deliberate
// divergence from the paged document, which prints a placeholder dash
// instead.
type Slot struct {
	Value   string
	Visible bool
}

// SlotBinding maps named template slots to values and visibility. It is
// independent of any rendering target; the HTML template below is one
// consumer, a native view shell would be another.
type SlotBinding map[string]Slot

// Get returns the slot for a name; unknown names come back invisible.
// Slot names contain dots, so templates call this instead of indexing.
func (b SlotBinding) Get(name string) Slot {
	return b[name]
}

// ItemRow is the live view of one service line.
type ItemRow struct {
	Description string
	Qty         string
	UnitPrice   string
	LineTotal   string
	Flagged     bool
}

// LiveView is everything the on-screen template needs.
type LiveView struct {
	Slots      SlotBinding
	Items      []ItemRow
	NoServices bool
	Problems   []string
}

// LiveRenderer fills the structured on-screen template from a canonical
// model. Used for the interactive preview and for browser-print output.
type LiveRenderer struct {
	currency string
	policy   layout.MissingFieldPolicy
	tmpl     *template.Template
}

func NewLiveRenderer(currency string) *LiveRenderer {
	return &LiveRenderer{
		currency: currency,
		policy:   layout.PolicyHide,
		tmpl:     template.Must(template.New("invoice").Parse(liveTemplate)),
	}
}

// WithMissingFieldPolicy overrides the optional-field display policy.
func (r *LiveRenderer) WithMissingFieldPolicy(policy layout.MissingFieldPolicy) *LiveRenderer {
	r.policy = policy
	return r
}

// Bind produces the named-slot binding for a model.
func (r *LiveRenderer) Bind(model *invoice.Model) SlotBinding {
	t := model.Totals
	vat := t.VATRate.Mul(hundredPct).StringFixed(0)

	binding := SlotBinding{
		"company.name":    r.slot(model.Company.Name),
		"company.website": r.slot(model.Company.Website),
		"company.contact": r.slot(strings.Join(model.Company.ContactChannels, " · ")),
		"invoice.number":  r.slot(model.Details.Number),
		"invoice.pin":     r.slot(model.Details.PIN),
		"invoice.date":    r.slot(types.FormatDate(model.Details.Date)),
		"customer.name":   r.slot(model.Customer.Name),
		"customer.address": r.slot(model.Customer.Address),
		"customer.phone":  r.slot(model.Customer.Phone),
		"vehicle":         r.slot(model.Customer.Vehicle),
		"vehicle.reg":     r.slot(model.Customer.RegistrationPlate),
		"vehicle.mileage": r.slot(model.Customer.Mileage),
		"vat.rate":        r.slot(vat + "%"),
		"totals.subtotal": r.slot(types.FormatAmount(r.currency, t.Subtotal)),
		"totals.vat":      r.slot(types.FormatAmount(r.currency, t.VATAmount)),
		"totals.total":    r.slot(types.FormatAmount(r.currency, t.Total)),
		"notes":           r.slot(model.Notes),
	}
	return binding
}

// slot applies the display policy to one optional value.
func (r *LiveRenderer) slot(value string) Slot {
	if strings.TrimSpace(value) == "" {
		if r.policy == layout.PolicyHide {
			return Slot{Visible: false}
		}
		return Slot{Value: layout.Placeholder, Visible: true}
	}
	return Slot{Value: value, Visible: true}
}

// View assembles the full live view, including the item rows and any
// validation problems to surface as inline warnings.
func (r *LiveRenderer) View(model *invoice.Model, problems []string) LiveView {
	return LiveView{
		Slots:      r.Bind(model),
		NoServices: !model.HasItems(),
		Problems:   problems,
		Items: lo.Map(model.Items, func(item invoice.LineItem, _ int) ItemRow {
			return ItemRow{
				Description: item.Description,
				Qty:         item.Qty.String(),
				UnitPrice:   types.FormatAmount(r.currency, item.UnitPrice),
				LineTotal:   types.FormatAmount(r.currency, item.LineTotal),
				Flagged:     item.QtyInvalid || item.UnitPriceInvalid,
			}
		}),
	}
}

// RenderHTML renders the on-screen invoice for preview or browser print.
func (r *LiveRenderer) RenderHTML(model *invoice.Model, problems []string) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, r.View(model, problems)); err != nil {
		return "", ierr.WithError(err).
			WithMessage("live template execution failed").
			WithHint("Preview could not be rendered").
			Mark(ierr.ErrSystem)
	}
	return b.String(), nil
}

const liveTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invoice</title></head>
<body class="invoice">
<header>
  {{with .Slots.Get "company.name"}}{{if .Visible}}<h1>{{.Value}}</h1>{{end}}{{end}}
  {{with .Slots.Get "company.website"}}{{if .Visible}}<p class="website">{{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "company.contact"}}{{if .Visible}}<p class="contact">{{.Value}}</p>{{end}}{{end}}
</header>
<section class="meta">
  {{with .Slots.Get "invoice.number"}}{{if .Visible}}<p><strong>{{.Value}}</strong></p>{{end}}{{end}}
  {{with .Slots.Get "invoice.pin"}}{{if .Visible}}<p>PIN: <span id="pin">{{.Value}}</span></p>{{end}}{{end}}
  {{with .Slots.Get "invoice.date"}}{{if .Visible}}<p>Date: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "vat.rate"}}{{if .Visible}}<p>VAT rate: {{.Value}}</p>{{end}}{{end}}
</section>
<section class="customer">
  {{with .Slots.Get "customer.name"}}{{if .Visible}}<p>Name: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "customer.address"}}{{if .Visible}}<p>Address: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "customer.phone"}}{{if .Visible}}<p>Phone: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "vehicle"}}{{if .Visible}}<p>Vehicle: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "vehicle.reg"}}{{if .Visible}}<p>Reg: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "vehicle.mileage"}}{{if .Visible}}<p>Mileage: {{.Value}}</p>{{end}}{{end}}
</section>
{{if .Problems}}<ul class="warnings">{{range .Problems}}<li>{{.}}</li>{{end}}</ul>{{end}}
<table class="services">
  <thead><tr><th>Description</th><th>Qty</th><th>Unit Price</th><th>Total</th></tr></thead>
  <tbody>
  {{if .NoServices}}<tr class="empty"><td colspan="4">No services listed</td></tr>{{end}}
  {{range .Items}}
  <tr{{if .Flagged}} class="flagged"{{end}}>
    <td>{{.Description}}</td><td>{{.Qty}}</td><td>{{.UnitPrice}}</td><td>{{.LineTotal}}</td>
  </tr>
  {{end}}
  </tbody>
</table>
<section class="totals">
  {{with .Slots.Get "totals.subtotal"}}{{if .Visible}}<p>Subtotal: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "totals.vat"}}{{if .Visible}}<p>VAT: {{.Value}}</p>{{end}}{{end}}
  {{with .Slots.Get "totals.total"}}{{if .Visible}}<p class="grand">Total: {{.Value}}</p>{{end}}{{end}}
</section>
{{with .Slots.Get "notes"}}{{if .Visible}}<section class="notes"><p>{{.Value}}</p></section>{{end}}{{end}}
</body>
</html>`
