// Package layout places styled text blocks and ruled tables on a single page
// using top-down coordinates measured from the page's top edge.
package layout

import (
	"github.com/wudi/invoicekit/builder"
)

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Geometry is the fixed page frame a Flow lays out into.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margins    Margins
	Gap        float64 // advance after the title
	Padding    float64 // inset of text inside rows and cells
	Rule       builder.LineOptions
}

// Printable area accessors.
func (g Geometry) MinX() float64   { return g.Margins.Left }
func (g Geometry) MaxX() float64   { return g.PageWidth - g.Margins.Right }
func (g Geometry) Width() float64  { return g.MaxX() - g.MinX() }
func (g Geometry) Top() float64    { return g.Margins.Top }
func (g Geometry) Bottom() float64 { return g.PageHeight - g.Margins.Bottom }

// CenterX is half of the printable width, the width of each of the two
// columns of a row.
func (g Geometry) CenterX() float64 { return g.Width() / 2 }

// DefaultGeometry is a 595.2×841.8 page with the invoice margins, light gray
// half-point rules, a 25pt title gap and 5pt padding.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:  595.2,
		PageHeight: 841.8,
		Margins:    Margins{Top: 35, Left: 85, Bottom: 21, Right: 43},
		Gap:        25,
		Padding:    5,
		Rule:       builder.LineOptions{StrokeColor: builder.Gray(2.0 / 3.0), LineWidth: 0.5},
	}
}

// Option defines a configuration option for a Flow.
type Option func(*Geometry)

// WithMargins sets the page margins.
func WithMargins(margins Margins) Option {
	return func(g *Geometry) {
		g.Margins = margins
	}
}

// WithPageSize sets the page dimensions.
func WithPageSize(width, height float64) Option {
	return func(g *Geometry) {
		g.PageWidth = width
		g.PageHeight = height
	}
}

// WithGap sets the advance after the title.
func WithGap(gap float64) Option {
	return func(g *Geometry) {
		g.Gap = gap
	}
}

// WithPadding sets the text inset used by rows and table cells.
func WithPadding(padding float64) Option {
	return func(g *Geometry) {
		g.Padding = padding
	}
}

// WithRule sets the stroke of separators and table borders.
func WithRule(opts builder.LineOptions) Option {
	return func(g *Geometry) {
		g.Rule = opts
	}
}

// Box is the area a placed block occupies, in top-down coordinates.
type Box struct {
	X, Top        float64
	Width, Height float64
}

func (b Box) Bottom() float64 { return b.Top + b.Height }

// Canvas draws on one page with top-down coordinates and converts them to
// the bottom-up PDF space.
type Canvas struct {
	page   builder.PageBuilder
	height float64
}

func NewCanvas(page builder.PageBuilder, pageHeight float64) *Canvas {
	return &Canvas{page: page, height: pageHeight}
}

// Text draws a single run with its baseline at the top-down position.
func (c *Canvas) Text(text string, x, baseline float64, s Style) {
	c.page.DrawText(text, x, c.height-baseline, builder.TextOptions{
		Font:     s.Font,
		FontSize: s.Size,
		Color:    s.Color,
	})
}

// Line strokes a segment between two top-down points.
func (c *Canvas) Line(x1, y1, x2, y2 float64, opts builder.LineOptions) {
	c.page.DrawLine(x1, c.height-y1, x2, c.height-y2, opts)
}
