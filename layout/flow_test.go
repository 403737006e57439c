package layout

import (
	"strings"
	"testing"
)

func TestGeometry_Default(t *testing.T) {
	g := DefaultGeometry()
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"MinX", g.MinX(), 85},
		{"MaxX", g.MaxX(), 552.2},
		{"Width", g.Width(), 467.2},
		{"CenterX", g.CenterX(), 233.6},
		{"Top", g.Top(), 35},
		{"Bottom", g.Bottom(), 820.8},
	}
	for _, tt := range tests {
		if !approx(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestFlow_AdvanceIsMonotonic(t *testing.T) {
	f, _ := newTestFlow(t)
	start := f.Y()
	f.Advance(10)
	f.Advance(-5)
	f.Advance(0)
	if got := f.Y(); !approx(got, start+10) {
		t.Fatalf("Y = %v, want %v", got, start+10)
	}
}

func TestFlow_PlaceTitleCentersAndAdvancesByGap(t *testing.T) {
	f, page := newTestFlow(t)
	size := f.PlaceTitle(Text(bold, "Invoice № 7 / Рахунок-фактура № 7"))
	g := f.Geometry()

	if got := f.Y(); !approx(got, g.Top()+g.Gap) {
		t.Fatalf("Y after title = %v, want %v", got, g.Top()+g.Gap)
	}
	box := f.Boxes()[0]
	if !approx(box.X+box.Width/2, g.MinX()+g.Width()/2) {
		t.Fatalf("title not centered: box %+v", box)
	}
	if !approx(box.Width, size.Width) || len(page.DrawnTexts) == 0 {
		t.Fatalf("title box %+v does not match size %+v", box, size)
	}
}

func TestFlow_PlaceRowAdvancesPastTallerColumn(t *testing.T) {
	f, page := newTestFlow(t)
	before := f.Y()
	short := Text(regular, "Subject Matter: design")
	tall := Text(regular, "Предмет:\nдизайн\nінтерфейсу")

	h := f.PlaceRow(short, tall)
	want := f.Typesetter().Measure(tall, f.Geometry().CenterX()-10).Height
	if !approx(h, want) {
		t.Fatalf("row height = %v, want %v", h, want)
	}
	pad := f.Geometry().Padding
	if got := f.Y(); !approx(got, before+h+2*pad) {
		t.Fatalf("Y = %v, want %v", got, before+h+2*pad)
	}

	// The separator under the row is the only line drawn.
	if len(page.DrawnLines) != 1 {
		t.Fatalf("drawn %d lines, want 1", len(page.DrawnLines))
	}
	rule := page.DrawnLines[0]
	pdfY := f.Geometry().PageHeight - f.Y()
	if !approx(rule.Y1, pdfY) || !approx(rule.Y2, pdfY) {
		t.Fatalf("rule at %v/%v, want %v", rule.Y1, rule.Y2, pdfY)
	}

	// Right column starts one padding past the center divider.
	_, center, _ := f.Columns()
	var sawRight bool
	for _, d := range page.DrawnTexts {
		if approx(d.X, center+pad) {
			sawRight = true
		}
	}
	if !sawRight {
		t.Fatalf("no text drawn at right column x=%v", center+pad)
	}
}

func TestFlow_RowTextStaysInsideColumns(t *testing.T) {
	f, page := newTestFlow(t)
	long := Text(regular, strings.Repeat("Individual Entrepreneur ", 12))
	f.PlaceRow(long, long)

	left, center, right := f.Columns()
	pad := f.Geometry().Padding
	ts := f.Typesetter()
	for _, d := range page.DrawnTexts {
		end := d.X + ts.advance(d.Text, regular)
		// Whole-run shaping may kern slightly differently than per word.
		const tol = 0.5
		inLeft := d.X >= left+pad-tol && end <= center-pad+tol
		inRight := d.X >= center+pad-tol && end <= right-pad+tol
		if !inLeft && !inRight {
			t.Fatalf("run %q spans [%.2f, %.2f] outside both columns", d.Text, d.X, end)
		}
	}
}

func TestFlow_BoxesDoNotOverlap(t *testing.T) {
	f, _ := newTestFlow(t)
	f.PlaceTitle(Text(bold, "Invoice"))
	fr := f.BeginFrame()
	f.Rule()
	f.PlaceRow(Text(regular, "a\nb"), Text(regular, "c"))
	f.PlaceRow(Text(regular, "d"), Text(regular, "e\nf\ng"))
	left, center, right := f.Columns()
	fr.Close(right, left, center)
	f.Advance(10)
	f.PlaceSingle(Text(Style{Font: "Regular", Size: 8}, "1. Clause text."), 5)
	f.PlaceFooter(Text(regular, "Supplier/Виконавець:\t____"))

	boxes := f.Boxes()
	for i := 1; i < len(boxes); i++ {
		if boxes[i].Top < boxes[i-1].Bottom()-1e-6 {
			t.Fatalf("box %d %+v overlaps box %d %+v", i, boxes[i], i-1, boxes[i-1])
		}
	}
	if f.Overflows() {
		t.Fatalf("short content reported as overflowing")
	}
}

func TestFlow_FooterPinnedToBottom(t *testing.T) {
	f, _ := newTestFlow(t)
	before := f.Y()
	h := f.PlaceFooter(Text(regular, "Supplier/Виконавець:"))
	if f.Y() != before {
		t.Fatalf("footer moved the cursor")
	}
	box := f.Boxes()[0]
	if !approx(box.Bottom(), f.Geometry().Bottom()) || !approx(box.Height, h) {
		t.Fatalf("footer box %+v not pinned to %v", box, f.Geometry().Bottom())
	}
}

func TestFlow_Overflows(t *testing.T) {
	f, _ := newTestFlow(t)
	f.PlaceFooter(Text(regular, "signature"))
	tall := Text(regular, strings.Repeat("line\n", 90))
	f.PlaceSingle(tall, 0)
	if !f.Overflows() {
		t.Fatalf("content running into the footer not detected")
	}

	g, _ := newTestFlow(t, WithPageSize(200, 100), WithMargins(Margins{Top: 10, Bottom: 10, Left: 10, Right: 10}))
	g.PlaceSingle(Text(regular, "a\nb\nc\nd\ne\nf\ng\nh"), 0)
	if !g.Overflows() {
		t.Fatalf("content past the printable bottom not detected")
	}
}

func TestFrame_CloseDrawsFullHeightVerticals(t *testing.T) {
	f, page := newTestFlow(t)
	fr := f.BeginFrame()
	f.Advance(40)
	left, center, right := f.Columns()
	fr.Close(right, left, center)

	if len(page.DrawnLines) != 3 {
		t.Fatalf("drawn %d lines, want 3", len(page.DrawnLines))
	}
	ph := f.Geometry().PageHeight
	for i, x := range []float64{right, left, center} {
		l := page.DrawnLines[i]
		if l.X1 != x || l.X2 != x {
			t.Fatalf("line %d at x=%v, want %v", i, l.X1, x)
		}
		if !approx(l.Y1, ph-f.Y()) || !approx(l.Y2, ph-fr.Top()) {
			t.Fatalf("line %d spans %v..%v", i, l.Y1, l.Y2)
		}
	}
}
