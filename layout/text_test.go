package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lineTexts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		var sb strings.Builder
		for _, f := range l.Fragments {
			sb.WriteString(f.Text)
		}
		out = append(out, sb.String())
	}
	return out
}

func TestTypesetter_WrapsAtSpaces(t *testing.T) {
	ts := newTestTypesetter(t)
	word := ts.advance("alpha", regular)
	space := ts.advance(" ", regular)
	// Room for two words but not three.
	width := 2*word + space + word/2

	lines := ts.Lines(Text(regular, "alpha alpha alpha"), width)
	want := []string{"alpha alpha", "alpha"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	for i, l := range lines {
		if l.Width > width {
			t.Fatalf("line %d width %.2f exceeds %.2f", i, l.Width, width)
		}
	}
}

func TestTypesetter_TrailingSpacesExcluded(t *testing.T) {
	ts := newTestTypesetter(t)
	plain := ts.Measure(Text(regular, "alpha"), 500)
	spaced := ts.Measure(Text(regular, "alpha   "), 500)
	if !approx(plain.Width, spaced.Width) {
		t.Fatalf("trailing spaces counted: %.3f vs %.3f", spaced.Width, plain.Width)
	}
}

func TestTypesetter_NewlinesAlwaysBreak(t *testing.T) {
	ts := newTestTypesetter(t)
	for _, noWrap := range []bool{false, true} {
		b := Text(regular, "Description/\nОпис")
		b.NoWrap = noWrap
		lines := ts.Lines(b, 1000)
		if diff := cmp.Diff([]string{"Description/", "Опис"}, lineTexts(lines)); diff != "" {
			t.Fatalf("noWrap=%v lines mismatch (-want +got):\n%s", noWrap, diff)
		}
	}
}

func TestTypesetter_EmptyLinesKeepHeight(t *testing.T) {
	ts := newTestTypesetter(t)
	one := ts.Measure(Text(regular, "x"), 100)
	three := ts.Measure(Text(regular, "x\n\nx"), 100)
	if !approx(three.Height, 3*one.Height) {
		t.Fatalf("height = %.3f, want %.3f", three.Height, 3*one.Height)
	}
	if got := ts.Measure(Block{}, 100); got != (Size{}) {
		t.Fatalf("empty block measured %+v", got)
	}
}

func TestTypesetter_NoWrapIgnoresWidth(t *testing.T) {
	ts := newTestTypesetter(t)
	b := Text(regular, "Currency: USD").Unwrapped()
	lines := ts.Lines(b, 10)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
}

func TestTypesetter_LongWordBreaksBetweenCharacters(t *testing.T) {
	ts := newTestTypesetter(t)
	long := strings.Repeat("W", 40)
	width := ts.advance("WWWWW", regular) + 0.1
	lines := ts.Lines(Text(regular, "ab "+long), width)
	if len(lines) < 9 {
		t.Fatalf("expected the word split over many lines, got %d", len(lines))
	}
	if lineTexts(lines)[0] != "ab" {
		t.Fatalf("first line = %q, want the short word alone", lineTexts(lines)[0])
	}
	if got := strings.Join(lineTexts(lines[1:]), ""); got != long {
		t.Fatalf("characters lost: %q", got)
	}
	for i, l := range lines {
		if l.Width > width {
			t.Fatalf("line %d width %.2f exceeds %.2f", i, l.Width, width)
		}
	}
}

func TestTypesetter_TabStops(t *testing.T) {
	ts := newTestTypesetter(t)
	lines := ts.Lines(Text(regular, "ab\tcd").Unwrapped(), 0)
	if len(lines) != 1 || len(lines[0].Fragments) != 2 {
		t.Fatalf("unexpected layout: %+v", lines)
	}
	if got := lines[0].Fragments[1].X; !approx(got, DefaultTabStop) {
		t.Fatalf("tabbed fragment at %.2f, want %d", got, DefaultTabStop)
	}

	wide := ts.WithTabStop(50)
	lines = wide.Lines(Text(regular, "\t\tx").Unwrapped(), 0)
	if got := lines[0].Fragments[0].X; !approx(got, 100) {
		t.Fatalf("second tab stop at %.2f, want 100", got)
	}
}

func TestTypesetter_MixedStylesShareLine(t *testing.T) {
	ts := newTestTypesetter(t)
	b := Text(bold, "Supplier: ").Add(regular, "Individual Entrepreneur")
	lines := ts.Lines(b, 1000)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	frags := lines[0].Fragments
	if len(frags) != 2 || frags[0].Style != bold || frags[1].Style != regular {
		t.Fatalf("unexpected fragments: %+v", frags)
	}
	if !approx(frags[1].X, frags[0].Width) {
		t.Fatalf("second span at %.2f, want %.2f", frags[1].X, frags[0].Width)
	}
}

func TestTypesetter_DrawMatchesMeasure(t *testing.T) {
	ts := newTestTypesetter(t)
	page := &MockPageBuilder{}
	c := NewCanvas(page, 800)
	b := Text(bold, "Customer: ").Add(regular, "ACME Corporation Limited\n1 Main Street, Springfield, Oregon, 97403, United States")
	measured := ts.Measure(b, 200)
	drawn := ts.Draw(c, b, 10, 20, 200)
	if measured != drawn {
		t.Fatalf("draw %+v differs from measure %+v", drawn, measured)
	}
	if len(page.DrawnTexts) == 0 {
		t.Fatalf("nothing drawn")
	}
	first := page.DrawnTexts[0]
	face, _ := ts.fonts.Face("Bold")
	if asc := ts.Lines(b, 200)[0].Ascent; asc < face.Ascent(10) {
		t.Fatalf("first line ascent %.2f below the bold face's %.2f", asc, face.Ascent(10))
	}
	wantY := 800 - (20 + ts.Lines(b, 200)[0].Ascent)
	if first.X != 10 || !approx(first.Y, wantY) {
		t.Fatalf("first run at (%.2f, %.2f), want (10, %.2f)", first.X, first.Y, wantY)
	}
}

func TestTypesetter_LeadingSpaceDoesNotAddLine(t *testing.T) {
	ts := newTestTypesetter(t)
	word := strings.Repeat("m", 30)
	width := ts.advance(word, regular) + 0.01
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", word, []string{word}},
		{"leading space", " " + word, []string{word}},
		{"leading spaces", "   " + word, []string{word}},
		{"after newline", "a\n " + word, []string{"a", word}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := ts.Lines(Text(regular, tt.text), width)
			if diff := cmp.Diff(tt.want, lineTexts(lines)); diff != "" {
				t.Fatalf("lines mismatch (-want +got):\n%s", diff)
			}
			if got, want := ts.Measure(Text(regular, tt.text), width).Height, float64(len(tt.want))*lines[0].Height; !approx(got, want) {
				t.Fatalf("height = %.3f, want %.3f", got, want)
			}
		})
	}
}
