package testutil

import (
	"fmt"

	"github.com/garagebill/garagebill/internal/layout"
	"github.com/garagebill/garagebill/internal/render"
	"github.com/garagebill/garagebill/internal/resource"
)

// RecordingCanvas implements render.Canvas by recording every operation,
// so tests can assert on what was drawn without a drawing engine.
type RecordingCanvas struct {
	Pages  int
	Texts  []layout.TextOp
	Images []layout.ImageOp

	// FailOutput makes Bytes return an error, for exercising the render
	// failure path.
	FailOutput bool
}

func NewRecordingCanvas() *RecordingCanvas {
	return &RecordingCanvas{}
}

// Factory returns a render.CanvasFactory that always hands out this canvas.
func (c *RecordingCanvas) Factory() render.CanvasFactory {
	return func() render.Canvas { return c }
}

func (c *RecordingCanvas) NewPage() {
	c.Pages++
}

func (c *RecordingCanvas) PlaceText(op *layout.TextOp) {
	c.Texts = append(c.Texts, *op)
}

func (c *RecordingCanvas) PlaceImage(op *layout.ImageOp, _ *resource.Embeddable) {
	c.Images = append(c.Images, *op)
}

func (c *RecordingCanvas) Bytes() ([]byte, error) {
	if c.FailOutput {
		return nil, fmt.Errorf("canvas output failed")
	}
	return []byte(fmt.Sprintf("doc with %d pages", c.Pages)), nil
}

// TextContents returns every drawn string in draw order.
func (c *RecordingCanvas) TextContents() []string {
	out := make([]string, 0, len(c.Texts))
	for _, op := range c.Texts {
		out = append(out, op.Content)
	}
	return out
}
