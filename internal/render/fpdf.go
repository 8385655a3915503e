package render

import (
	"bytes"
	"strings"

	"github.com/garagebill/garagebill/internal/layout"
	"github.com/garagebill/garagebill/internal/resource"
	"github.com/jung-kurt/gofpdf"
)

// FpdfCanvas adapts gofpdf to the Canvas contract. It is the only file that
// knows a concrete drawing engine exists.
type FpdfCanvas struct {
	pdf        *gofpdf.Fpdf
	translate  func(string) string
	registered map[string]bool
}

// NewFpdfCanvas builds an A4 portrait canvas in millimetre units.
func NewFpdfCanvas() Canvas {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return &FpdfCanvas{
		pdf:        pdf,
		translate:  pdf.UnicodeTranslatorFromDescriptor(""),
		registered: make(map[string]bool),
	}
}

func (c *FpdfCanvas) NewPage() {
	c.pdf.AddPage()
}

func (c *FpdfCanvas) PlaceText(op *layout.TextOp) {
	styleStr := ""
	if op.Style.Bold {
		styleStr = "B"
	}
	c.pdf.SetFont("Arial", styleStr, op.Style.Size)

	content := c.translate(op.Content)
	x := op.X
	switch op.Align {
	case layout.AlignRight:
		x -= c.pdf.GetStringWidth(content)
	case layout.AlignCenter:
		x -= c.pdf.GetStringWidth(content) / 2
	}
	c.pdf.Text(x, op.Y, content)
}

func (c *FpdfCanvas) PlaceImage(op *layout.ImageOp, img *resource.Embeddable) {
	if img == nil || len(img.Data) == 0 {
		return
	}

	imageType := imageTypeFromMIME(img.MIME)
	if imageType == "" {
		return
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	if !c.registered[img.Name] {
		c.pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
		c.registered[img.Name] = true
	}
	c.pdf.ImageOptions(img.Name, op.X, op.Y, op.W, op.H, false, opts, 0, "")
}

func (c *FpdfCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func imageTypeFromMIME(mime string) string {
	switch {
	case strings.Contains(mime, "png"):
		return "PNG"
	case strings.Contains(mime, "jpeg"), strings.Contains(mime, "jpg"):
		return "JPG"
	case strings.Contains(mime, "gif"):
		return "GIF"
	default:
		return ""
	}
}
