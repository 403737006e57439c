package layout

import (
	"math"
	"strings"

	"github.com/wudi/invoicekit/builder"
	"github.com/wudi/invoicekit/fonts"
)

// Style binds a registered font to a size and color.
type Style struct {
	Font  string
	Size  float64
	Color builder.Color
}

// Span is a run of text in one style.
type Span struct {
	Text  string
	Style Style
}

// Block is a paragraph of styled spans. A NoWrap block is point-anchored:
// it only breaks at explicit newlines.
type Block struct {
	Spans  []Span
	NoWrap bool
}

// Text starts a block with one span.
func Text(s Style, text string) Block {
	return Block{Spans: []Span{{Text: text, Style: s}}}
}

// Add appends a span and returns the block.
func (b Block) Add(s Style, text string) Block {
	spans := make([]Span, len(b.Spans), len(b.Spans)+1)
	copy(spans, b.Spans)
	b.Spans = append(spans, Span{Text: text, Style: s})
	return b
}

// Unwrapped returns a point-anchored copy of b.
func (b Block) Unwrapped() Block {
	b.NoWrap = true
	return b
}

// Empty reports whether the block has no text at all.
func (b Block) Empty() bool {
	for _, s := range b.Spans {
		if s.Text != "" {
			return false
		}
	}
	return true
}

// Size is a measured extent in points.
type Size struct {
	Width, Height float64
}

// Fragment is a run of same-styled text on a line, X relative to the line
// start.
type Fragment struct {
	Text  string
	Style Style
	X     float64
	Width float64
}

// Line is one laid-out line of a block.
type Line struct {
	Fragments []Fragment
	Width     float64
	Ascent    float64
	Height    float64
}

// FontSource resolves registered font names to faces. builder.PDFBuilder
// satisfies it.
type FontSource interface {
	Face(name string) (*fonts.Face, bool)
}

// Typesetter measures and draws blocks. Measure and Draw use the same line
// breaking, so a block always occupies exactly the size it was measured at.
type Typesetter struct {
	fonts   FontSource
	tabStop float64
}

// DefaultTabStop is the distance between tab stops.
const DefaultTabStop = 28

func NewTypesetter(src FontSource) *Typesetter {
	return &Typesetter{fonts: src, tabStop: DefaultTabStop}
}

// WithTabStop returns a copy of t with tab stops every stop points.
func (t *Typesetter) WithTabStop(stop float64) *Typesetter {
	c := *t
	if stop > 0 {
		c.tabStop = stop
	}
	return &c
}

// Measure returns the size of b laid out within maxWidth. NoWrap blocks
// ignore maxWidth.
func (t *Typesetter) Measure(b Block, maxWidth float64) Size {
	var s Size
	for _, l := range t.Lines(b, maxWidth) {
		s.Width = math.Max(s.Width, l.Width)
		s.Height += l.Height
	}
	return s
}

// Draw lays out b with its top-left corner at (x, top) and returns its size.
func (t *Typesetter) Draw(c *Canvas, b Block, x, top, maxWidth float64) Size {
	var s Size
	y := top
	for _, l := range t.Lines(b, maxWidth) {
		baseline := y + l.Ascent
		for _, f := range l.Fragments {
			if strings.TrimSpace(f.Text) == "" {
				continue
			}
			c.Text(f.Text, x+f.X, baseline, f.Style)
		}
		s.Width = math.Max(s.Width, l.Width)
		s.Height += l.Height
		y += l.Height
	}
	return s
}

type lineBreaker struct {
	t        *Typesetter
	maxWidth float64
	wrap     bool

	lines    []Line
	cur      Line
	x        float64
	styled   bool  // cur has a style to size it with
	joinable bool  // the next put may extend the last fragment
	last     Style // style in effect, sizes empty lines
	pending  []Span
	pendW    float64
}

// Lines breaks b into lines. Text wraps at spaces within maxWidth, words
// wider than a line break between characters, a newline always ends a line
// and a tab moves to the next tab stop. Spaces at a wrap point are dropped.
func (t *Typesetter) Lines(b Block, maxWidth float64) []Line {
	lb := &lineBreaker{t: t, maxWidth: maxWidth, wrap: !b.NoWrap && maxWidth > 0}
	started := false
	for _, span := range b.Spans {
		if span.Text == "" {
			continue
		}
		started = true
		lb.last = span.Style
		for _, tok := range tokenize(span.Text) {
			switch tok {
			case "\n":
				lb.endLine()
			case "\t":
				lb.tab()
			case " ":
				w := t.advance(" ", span.Style)
				lb.pending = append(lb.pending, Span{Text: " ", Style: span.Style})
				lb.pendW += w
			default:
				lb.word(tok, span.Style)
			}
		}
	}
	if !started {
		return nil
	}
	lb.endLine()
	return lb.lines
}

func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range text {
		switch r {
		case ' ', '\n', '\t':
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			tokens = append(tokens, string(r))
		case '\r':
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func (lb *lineBreaker) word(text string, s Style) {
	w := lb.t.advance(text, s)
	if !lb.wrap || lb.x+lb.pendW+w <= lb.maxWidth {
		lb.flushPending()
		lb.put(text, s, w)
		return
	}
	if w <= lb.maxWidth {
		// Spaces alone never start a line of their own.
		if lb.x > 0 {
			lb.endLine()
		}
		lb.pending, lb.pendW = nil, 0
		lb.put(text, s, w)
		return
	}
	// The word is wider than a whole line: break it between characters,
	// starting on a fresh line.
	if lb.x > 0 {
		lb.endLine()
	}
	lb.pending, lb.pendW = nil, 0
	var piece []rune
	pieceW := 0.0
	for _, r := range text {
		next := append(piece, r)
		nw := lb.t.advance(string(next), s)
		if nw > lb.maxWidth && len(piece) > 0 {
			lb.put(string(piece), s, pieceW)
			lb.endLine()
			piece = []rune{r}
			pieceW = lb.t.advance(string(r), s)
			continue
		}
		piece = next
		pieceW = nw
	}
	if len(piece) > 0 {
		lb.put(string(piece), s, pieceW)
	}
}

func (lb *lineBreaker) tab() {
	lb.flushPending()
	stop := lb.t.tabStop
	next := (math.Floor(lb.x/stop) + 1) * stop
	if lb.wrap && next > lb.maxWidth {
		lb.endLine()
		next = stop
	}
	lb.x = next
	lb.cur.Width = next
	lb.joinable = false
}

func (lb *lineBreaker) flushPending() {
	for _, p := range lb.pending {
		lb.put(p.Text, p.Style, lb.t.advance(p.Text, p.Style))
	}
	lb.pending = nil
	lb.pendW = 0
}

// put appends text at the pen position, merging with the previous fragment
// when the style matches and nothing separates them.
func (lb *lineBreaker) put(text string, s Style, w float64) {
	frags := lb.cur.Fragments
	if n := len(frags); n > 0 && lb.joinable && frags[n-1].Style == s {
		frags[n-1].Text += text
		frags[n-1].Width += w
	} else {
		lb.cur.Fragments = append(frags, Fragment{Text: text, Style: s, X: lb.x, Width: w})
	}
	lb.x += w
	lb.joinable = true
	if lb.x > lb.cur.Width {
		lb.cur.Width = lb.x
	}
	lb.grow(s)
}

func (lb *lineBreaker) grow(s Style) {
	asc, height := lb.t.metrics(s)
	lb.cur.Ascent = math.Max(lb.cur.Ascent, asc)
	lb.cur.Height = math.Max(lb.cur.Height, height)
	lb.styled = true
}

func (lb *lineBreaker) endLine() {
	lb.pending = nil
	lb.pendW = 0
	if !lb.styled {
		lb.grow(lb.last)
	}
	lb.lines = append(lb.lines, lb.cur)
	lb.cur = Line{}
	lb.x = 0
	lb.styled = false
	lb.joinable = false
}

func (t *Typesetter) face(s Style) *fonts.Face {
	if t.fonts == nil {
		return nil
	}
	f, ok := t.fonts.Face(s.Font)
	if !ok {
		return nil
	}
	return f
}

func (t *Typesetter) advance(text string, s Style) float64 {
	f := t.face(s)
	if f == nil {
		return 0
	}
	return f.Advance(text, s.Size)
}

func (t *Typesetter) metrics(s Style) (ascent, height float64) {
	f := t.face(s)
	if f == nil {
		return 0, 0
	}
	return f.Ascent(s.Size), f.LineHeight(s.Size)
}
