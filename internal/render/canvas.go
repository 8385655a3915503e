package render

import (
	"github.com/garagebill/garagebill/internal/layout"
	"github.com/garagebill/garagebill/internal/resource"
)

// Canvas is the abstract paged drawing surface the document renderer plays
// instructions against. The core depends only on this contract, never on a
// concrete drawing engine.
type Canvas interface {
	// NewPage opens a fresh page; all placements land on the latest page.
	NewPage()
	// PlaceText draws one absolutely positioned line of text.
	PlaceText(op *layout.TextOp)
	// PlaceImage composites an embeddable image into the given rectangle.
	PlaceImage(op *layout.ImageOp, img *resource.Embeddable)
	// Bytes finalizes the document and returns its binary form.
	Bytes() ([]byte, error)
}

// CanvasFactory builds a canvas per render. A nil factory models the
// drawing dependency being unavailable at render time.
type CanvasFactory func() Canvas

// Document is a finished, deliverable artifact. It outlives the render call
// only so that delivery can be retried without re-running layout.
type Document struct {
	Bytes []byte
	Pages int
	MIME  string
}
