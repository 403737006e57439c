package layout

import (
	"testing"

	"github.com/wudi/invoicekit/builder"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// --- Mocks ---

type MockPageBuilder struct {
	DrawnTexts []DrawnText
	DrawnLines []DrawnLine
	Finished   bool
}

type DrawnText struct {
	Text string
	X, Y float64
	Opts builder.TextOptions
}

type DrawnLine struct {
	X1, Y1, X2, Y2 float64
	Opts           builder.LineOptions
}

func (m *MockPageBuilder) DrawText(text string, x, y float64, opts builder.TextOptions) builder.PageBuilder {
	m.DrawnTexts = append(m.DrawnTexts, DrawnText{Text: text, X: x, Y: y, Opts: opts})
	return m
}

func (m *MockPageBuilder) DrawLine(x1, y1, x2, y2 float64, opts builder.LineOptions) builder.PageBuilder {
	m.DrawnLines = append(m.DrawnLines, DrawnLine{X1: x1, Y1: y1, X2: x2, Y2: y2, Opts: opts})
	return m
}

func (m *MockPageBuilder) Finish() builder.PDFBuilder {
	m.Finished = true
	return nil
}

var (
	regular = Style{Font: "Regular", Size: 10}
	bold    = Style{Font: "Bold", Size: 10}
)

func newTestTypesetter(t *testing.T) *Typesetter {
	t.Helper()
	b := builder.NewBuilder().
		RegisterTrueTypeFont("Regular", goregular.TTF).
		RegisterTrueTypeFont("Bold", gobold.TTF)
	if _, ok := b.Face("Regular"); !ok {
		t.Fatalf("regular face not registered")
	}
	return NewTypesetter(b)
}

func newTestFlow(t *testing.T, opts ...Option) (*Flow, *MockPageBuilder) {
	t.Helper()
	page := &MockPageBuilder{}
	return NewFlow(page, newTestTypesetter(t), opts...), page
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
