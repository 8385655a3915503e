package layout

// Kind discriminates the draw instruction variants.
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindNewPage Kind = "new_page"
)

// Alignment positions text relative to its anchor.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TextStyle is the minimal styling vocabulary the canvas contract supports.
type TextStyle struct {
	Size float64
	Bold bool
}

// Instruction is one abstract placement command, independent of the
// concrete rendering engine. Exactly one of Text / Image is set for the
// matching kind; a new-page instruction carries neither.
type Instruction struct {
	Kind  Kind
	Text  *TextOp
	Image *ImageOp
}

// TextOp places a single line of text at an absolute position on the
// current page. Coordinates are millimetres from the top-left corner.
type TextOp struct {
	Content string
	X       float64
	Y       float64
	Align   Alignment
	Style   TextStyle
}

// ImageOp places a named resource into a rectangle on the current page.
// The renderer resolves the name; an unresolvable resource is skipped.
type ImageOp struct {
	Resource string
	X        float64
	Y        float64
	W        float64
	H        float64
}

func placeText(content string, x, y float64, align Alignment, style TextStyle) Instruction {
	return Instruction{
		Kind: KindText,
		Text: &TextOp{Content: content, X: x, Y: y, Align: align, Style: style},
	}
}

func placeImage(resource string, x, y, w, h float64) Instruction {
	return Instruction{
		Kind:  KindImage,
		Image: &ImageOp{Resource: resource, X: x, Y: y, W: w, H: h},
	}
}

func newPage() Instruction {
	return Instruction{Kind: KindNewPage}
}

// CountPages returns how many pages the instruction stream opens. The
// stream always begins with a new-page instruction for the first page, so
// this equals the number of new-page instructions.
func CountPages(instructions []Instruction) int {
	pages := 0
	for _, in := range instructions {
		if in.Kind == KindNewPage {
			pages++
		}
	}
	return pages
}
