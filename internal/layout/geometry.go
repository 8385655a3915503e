package layout

// Geometry fixes the coordinate grid for the paged document. All values are
// millimetres on an A4 page. These are configuration constants; nothing is
// derived at runtime, so every render of the same model lands on the same
// grid.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	MarginLeft float64
	MarginRight float64

	// header anchors, first page only
	LogoX, LogoY, LogoW, LogoH float64
	CompanyX, CompanyY         float64
	TitleY                     float64
	NumberY                    float64
	PINY                       float64
	DateY                      float64
	CustomerX, CustomerY       float64
	VehicleX, VehicleY         float64
	VATRateY                   float64
	LineGap                    float64

	// services table, every page
	TableHeaderY   float64
	ServicesStartY float64
	RowHeight      float64
	PageBottomY    float64

	DescColX      float64
	QtyColX       float64
	UnitPriceColX float64
	TotalColX     float64
	DescColChars  int

	// totals and notes
	TotalsHeight    float64
	TotalsLabelX    float64
	NotesGap        float64
}

// DefaultGeometry mirrors the printed workshop template: identity block top
// left, reference block top right, customer and vehicle blocks mid page,
// services table in the lower two thirds. The table region holds exactly 25
// single-line rows per page.
var DefaultGeometry = Geometry{
	PageWidth:   210,
	PageHeight:  297,
	MarginLeft:  15,
	MarginRight: 195,

	LogoX: 15, LogoY: 12, LogoW: 40, LogoH: 20,
	CompanyX: 15, CompanyY: 36,
	TitleY:   16,
	NumberY:  24,
	PINY:     31,
	DateY:    38,
	CustomerX: 15, CustomerY: 60,
	VehicleX: 115, VehicleY: 60,
	VATRateY: 96,
	LineGap:  6,

	TableHeaderY:   103,
	ServicesStartY: 110,
	RowHeight:      7,
	PageBottomY:    285,

	DescColX:      15,
	QtyColX:       130,
	UnitPriceColX: 160,
	TotalColX:     195,
	DescColChars:  52,

	TotalsHeight: 30,
	TotalsLabelX: 140,
	NotesGap:     12,
}

// RowsPerPage is the single-line row budget of the services table region.
func (g Geometry) RowsPerPage() int {
	return int((g.PageBottomY - g.ServicesStartY) / g.RowHeight)
}
