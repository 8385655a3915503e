package render

import (
	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/layout"
	"github.com/garagebill/garagebill/internal/logger"
	"github.com/garagebill/garagebill/internal/resource"
)

// DocumentRenderer plays a draw-instruction stream against a paged binary
// canvas. Page backgrounds and the logo are optional embeddables; a nil
// resource is skipped, the page stays blank and rendering continues.
type DocumentRenderer struct {
	newCanvas  CanvasFactory
	geom       layout.Geometry
	background *resource.Embeddable
	images     map[string]*resource.Embeddable
	logger     *logger.Logger
}

func NewDocumentRenderer(newCanvas CanvasFactory, geom layout.Geometry, log *logger.Logger) *DocumentRenderer {
	return &DocumentRenderer{
		newCanvas: newCanvas,
		geom:      geom,
		images:    make(map[string]*resource.Embeddable),
		logger:    log,
	}
}

// WithBackground sets the per-page background template. nil means blank.
func (r *DocumentRenderer) WithBackground(img *resource.Embeddable) *DocumentRenderer {
	r.background = img
	return r
}

// WithImage registers a named embeddable the instruction stream may refer
// to (e.g. the logo).
func (r *DocumentRenderer) WithImage(name string, img *resource.Embeddable) *DocumentRenderer {
	if img != nil {
		r.images[name] = img
	}
	return r
}

// Render produces the finished binary document. An absent canvas factory is
// terminal for the document path only; the live preview path is unaffected.
func (r *DocumentRenderer) Render(instructions []layout.Instruction) (*Document, error) {
	if r.newCanvas == nil {
		return nil, ierr.NewError("no document canvas available").
			WithHint("PDF generation is unavailable right now").
			Mark(ierr.ErrRenderBackend)
	}

	canvas := r.newCanvas()
	pages := 0

	for i := range instructions {
		in := &instructions[i]
		switch in.Kind {
		case layout.KindNewPage:
			canvas.NewPage()
			pages++
			r.compositeBackground(canvas)
		case layout.KindText:
			canvas.PlaceText(in.Text)
		case layout.KindImage:
			img, ok := r.images[in.Image.Resource]
			if !ok {
				r.logger.Debugw("skipping unresolved image resource", "resource", in.Image.Resource)
				continue
			}
			canvas.PlaceImage(in.Image, img)
		}
	}

	bytes, err := canvas.Bytes()
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("canvas failed to produce document bytes").
			WithHint("PDF generation failed").
			Mark(ierr.ErrRenderBackend)
	}

	return &Document{
		Bytes: bytes,
		Pages: pages,
		MIME:  "application/pdf",
	}, nil
}

// compositeBackground paints the template image across the full page before
// any text lands on it.
func (r *DocumentRenderer) compositeBackground(canvas Canvas) {
	if r.background == nil {
		return
	}
	canvas.PlaceImage(&layout.ImageOp{
		Resource: r.background.Name,
		X:        0,
		Y:        0,
		W:        r.geom.PageWidth,
		H:        r.geom.PageHeight,
	}, r.background)
}
