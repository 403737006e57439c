package layout

import "math"

// Cell is the content of one or more adjacent columns of a row. All blocks
// but the last are drawn at their natural width, side by side; the last
// wraps in whatever width remains.
type Cell struct {
	Col    int
	Span   int // columns covered, 1 when zero
	Blocks []Block
}

func (c Cell) span() int {
	if c.Span < 1 {
		return 1
	}
	return c.Span
}

// covers reports whether the cell extends across divider i.
func (c Cell) covers(i int) bool {
	return c.Col < i && i < c.Col+c.span()
}

type Row struct {
	Cells []Cell
}

// Table is a ruled grid. Fractions give the share of the printable width of
// every column but the last, which extends to the right margin.
type Table struct {
	Fractions []float64
	Rows      []Row
}

// Columns is the number of columns of t.
func (t Table) Columns() int { return len(t.Fractions) + 1 }

// Dividers returns the x of every vertical line, outer borders included.
// Divider i sits one padding plus its column's share of the width right of
// divider i-1.
func (t Table) Dividers(g Geometry) []float64 {
	xs := make([]float64, 0, t.Columns()+1)
	x := g.MinX()
	xs = append(xs, x)
	for _, frac := range t.Fractions {
		x += g.Padding + g.Width()*frac
		xs = append(xs, x)
	}
	return append(xs, g.MaxX())
}

type placedRow struct {
	top, bottom float64
	cells       []Cell
}

// PlaceTable draws t at the cursor: a top rule, then every row followed by
// a separator, then the vertical dividers. A divider is drawn beside a row
// only when no cell of that row spans across it; the outer borders always
// are. It returns the divider positions.
func (f *Flow) PlaceTable(t Table) []float64 {
	xs := t.Dividers(f.geom)
	pad := f.geom.Padding
	f.Rule()

	placed := make([]placedRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		rowTop := f.y
		top := f.y + pad
		h := 0.0
		for _, cell := range row.Cells {
			end := cell.Col + cell.span()
			if cell.Col < 0 || end >= len(xs) {
				continue
			}
			h = math.Max(h, f.drawCell(cell, xs[cell.Col]+pad, xs[end]-pad, top))
		}
		f.record(Box{X: xs[0] + pad, Top: top, Width: xs[len(xs)-1] - xs[0] - 2*pad, Height: h})
		f.Advance(h + 2*pad)
		f.Rule()
		placed = append(placed, placedRow{top: rowTop, bottom: f.y, cells: row.Cells})
	}

	// Second pass: every row is measured, so the dividers' extents are known.
	for i, x := range xs {
		outer := i == 0 || i == len(xs)-1
		var segTop, segBottom float64
		open := false
		for _, r := range placed {
			if outer || !rowCovers(r.cells, i) {
				if !open {
					segTop = r.top
					open = true
				}
				segBottom = r.bottom
				continue
			}
			if open {
				f.line(x, segBottom, x, segTop)
				open = false
			}
		}
		if open {
			f.line(x, segBottom, x, segTop)
		}
	}
	return xs
}

func rowCovers(cells []Cell, divider int) bool {
	for _, c := range cells {
		if c.covers(divider) {
			return true
		}
	}
	return false
}

// drawCell draws the cell's blocks between left and right and returns the
// tallest block height.
func (f *Flow) drawCell(c Cell, left, right, top float64) float64 {
	x := left
	h := 0.0
	for i, b := range c.Blocks {
		last := i == len(c.Blocks)-1
		if !last {
			size := f.ts.Draw(f.canvas, b.Unwrapped(), x, top, 0)
			h = math.Max(h, size.Height)
			x += size.Width + 2*f.geom.Padding
			continue
		}
		size := f.ts.Draw(f.canvas, b, x, top, math.Max(right-x, 0))
		h = math.Max(h, size.Height)
	}
	return h
}
