package mapper

// AliasTable fixes the field-resolution priority for every canonical field.
// Resolution always runs canonical name first, then legacy aliases in order,
// then any derived fallback, then the empty default. The ordering is a
// behavioral contract: reordering an entry is a version bump, not a tweak.
type AliasTable struct {
	Version string

	CustomerName    []string
	Phone           []string
	Vehicle         []string
	CombinedVehicle []string // holds a combined "make, plate" string
	Plate           []string
	Mileage         []string
	Address         []string

	Items           []string
	ItemDescription []string
	ItemQty         []string
	ItemUnitPrice   []string

	ID            []string
	InvoiceNumber []string
	PIN           []string
	Date          []string
	VATRate       []string
	Notes         []string

	SubtotalOverride []string
	TotalOverride    []string
}

// AliasTableV1 merges the field spellings of both legacy record producers.
// The booking system wrote camelCase customer* fields; the workshop app
// wrote short names and a combined "make, plate" vehicle string.
var AliasTableV1 = AliasTable{
	Version: "v1",

	CustomerName:    []string{"customerName", "clientName", "name"},
	Phone:           []string{"phone", "customerPhone", "contactNumber"},
	Vehicle:         []string{"vehicle", "makeModel"},
	CombinedVehicle: []string{"vehicleReg"},
	Plate:           []string{"registrationPlate", "regPlate", "reg"},
	Mileage:         []string{"mileage", "odometer"},
	Address:         []string{"address", "customerAddress"},

	Items:           []string{"items", "services", "lineItems"},
	ItemDescription: []string{"description", "service", "name"},
	ItemQty:         []string{"qty", "quantity"},
	ItemUnitPrice:   []string{"unitPrice", "price", "cost"},

	ID:            []string{"id", "appointmentId"},
	InvoiceNumber: []string{"invoiceNumber", "number"},
	PIN:           []string{"pin", "reference"},
	Date:          []string{"date", "appointmentDate"},
	VATRate:       []string{"vatRate", "vat"},
	Notes:         []string{"notes", "comments"},

	SubtotalOverride: []string{"subtotalOverride", "subtotal"},
	TotalOverride:    []string{"totalOverride", "total"},
}
