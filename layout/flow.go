package layout

import (
	"math"

	"github.com/wudi/invoicekit/builder"
)

// Flow places blocks down a single page. It keeps one vertical cursor that
// only ever moves down, and splits the printable width into two equal
// columns for rows.
type Flow struct {
	ts     *Typesetter
	canvas *Canvas
	geom   Geometry

	y         float64
	inkBottom float64 // lowest point drawn by content above the footer
	footer    *Box
	boxes     []Box
}

// NewFlow starts a flow at the top margin of page.
func NewFlow(page builder.PageBuilder, ts *Typesetter, opts ...Option) *Flow {
	g := DefaultGeometry()
	for _, opt := range opts {
		opt(&g)
	}
	return &Flow{
		ts:     ts,
		canvas: NewCanvas(page, g.PageHeight),
		geom:   g,
		y:      g.Top(),
	}
}

// Y is the current cursor position from the top of the page.
func (f *Flow) Y() float64 { return f.y }

func (f *Flow) Geometry() Geometry { return f.geom }

// Typesetter returns the typesetter blocks are measured with.
func (f *Flow) Typesetter() *Typesetter { return f.ts }

// Advance moves the cursor down by dy. Non-positive values are ignored.
func (f *Flow) Advance(dy float64) {
	if dy > 0 {
		f.y += dy
	}
}

// Rule draws a separator across the printable width at the cursor.
func (f *Flow) Rule() {
	f.line(f.geom.MaxX(), f.y, f.geom.MinX(), f.y)
}

// PlaceTitle centers a single-line block on the printable width at the
// cursor, then advances by the fixed gap.
func (f *Flow) PlaceTitle(b Block) Size {
	b = b.Unwrapped()
	size := f.ts.Measure(b, 0)
	x := f.geom.MinX() + f.geom.Width()/2 - size.Width/2
	f.ts.Draw(f.canvas, b, x, f.y, 0)
	f.record(Box{X: x, Top: f.y, Width: size.Width, Height: size.Height})
	f.Advance(math.Max(f.geom.Gap, size.Height))
	return size
}

// PlaceRow draws left and right in the two columns, padded, and returns the
// taller height. The cursor advances past the row and a separator is drawn.
func (f *Flow) PlaceRow(left, right Block) float64 {
	pad := f.geom.Padding
	width := f.geom.CenterX() - 2*pad
	top := f.y + pad
	l := f.ts.Draw(f.canvas, left, f.geom.MinX()+pad, top, width)
	r := f.ts.Draw(f.canvas, right, f.geom.MinX()+f.geom.CenterX()+pad, top, width)
	h := math.Max(l.Height, r.Height)
	f.record(Box{X: f.geom.MinX() + pad, Top: top, Width: f.geom.Width() - 2*pad, Height: h})
	f.Advance(h + 2*pad)
	f.Rule()
	return h
}

// PlaceSingle draws b across the full printable width at the cursor and
// advances by its height plus after.
func (f *Flow) PlaceSingle(b Block, after float64) float64 {
	size := f.ts.Draw(f.canvas, b, f.geom.MinX(), f.y, f.geom.Width())
	f.record(Box{X: f.geom.MinX(), Top: f.y, Width: f.geom.Width(), Height: size.Height})
	f.Advance(size.Height + after)
	return size.Height
}

// PlaceFooter pins b to the bottom of the printable area. The cursor does
// not move.
func (f *Flow) PlaceFooter(b Block) float64 {
	size := f.ts.Measure(b, f.geom.Width())
	top := f.geom.Bottom() - size.Height
	f.ts.Draw(f.canvas, b, f.geom.MinX(), top, f.geom.Width())
	box := Box{X: f.geom.MinX(), Top: top, Width: f.geom.Width(), Height: size.Height}
	f.boxes = append(f.boxes, box)
	f.footer = &box
	return size.Height
}

// Boxes returns the area of every placed block in placement order. Rows and
// table rows count as one box.
func (f *Flow) Boxes() []Box {
	out := make([]Box, len(f.boxes))
	copy(out, f.boxes)
	return out
}

// ContentHeight is the distance the cursor moved from the top margin.
func (f *Flow) ContentHeight() float64 { return f.y - f.geom.Top() }

// Overflows reports whether content reaches past the printable bottom or
// into the footer.
func (f *Flow) Overflows() bool {
	limit := f.geom.Bottom()
	if f.footer != nil {
		limit = f.footer.Top
	}
	return f.inkBottom > limit
}

// Frame collects the top of a ruled region whose vertical borders are drawn
// once its height is known.
type Frame struct {
	f   *Flow
	top float64
}

// BeginFrame marks the cursor as the top of a frame.
func (f *Flow) BeginFrame() Frame { return Frame{f: f, top: f.y} }

// Top is the y the frame was opened at.
func (fr Frame) Top() float64 { return fr.top }

// Close draws a vertical line at each x from the frame top to the cursor.
func (fr Frame) Close(xs ...float64) {
	for _, x := range xs {
		fr.f.line(x, fr.f.y, x, fr.top)
	}
}

// Columns returns the x of the left border, the column divider and the
// right border.
func (f *Flow) Columns() (left, center, right float64) {
	return f.geom.MinX(), f.geom.MinX() + f.geom.CenterX(), f.geom.MaxX()
}

func (f *Flow) record(b Box) {
	f.boxes = append(f.boxes, b)
	f.inkBottom = math.Max(f.inkBottom, b.Bottom())
}

func (f *Flow) line(x1, y1, x2, y2 float64) {
	f.canvas.Line(x1, y1, x2, y2, f.geom.Rule)
	f.inkBottom = math.Max(f.inkBottom, math.Max(y1, y2))
}
