package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/invoicekit/ir/semantic"
)

// ErrCFFOutlines is returned for OpenType fonts with CFF outlines, which
// cannot be embedded as a TrueType font program.
var ErrCFFOutlines = errors.New("font has CFF outlines")

// Face is a parsed TrueType font usable for both measurement and embedding.
// A Face owns a HarfBuzz shaper and must not be shared between goroutines.
type Face struct {
	name       string
	font       *semantic.Font
	shapeFace  *gofont.Face
	shaper     shaping.HarfbuzzShaper
	unitsPerEm sfnt.Units

	// Vertical metrics in 1/1000 em. descent is positive below the baseline.
	ascent     float64
	descent    float64
	lineHeight float64
}

// LoadTrueType parses a TrueType/OpenType font, extracts basic metrics, and
// returns a Face whose PDF description is a Type0 Identity-H font with a
// FontFile2 stream. The full font is embedded (no subsetting).
func LoadTrueType(name string, data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("truetype font data is empty")
	}
	// FontFile2 can only carry glyf outlines.
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return nil, ErrCFFOutlines
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	unitsPerEm := font.UnitsPerEm()
	if unitsPerEm == 0 {
		return nil, fmt.Errorf("invalid unitsPerEm")
	}
	shapeFace, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse truetype for shaping: %w", err)
	}
	buf := &sfnt.Buffer{}
	ppem := fixed.Int26_6(unitsPerEm << 6)

	baseName := strings.TrimSpace(name)
	if ps, _ := font.Name(buf, sfnt.NameIDPostScript); len(ps) > 0 {
		baseName = ps
	}
	if baseName == "" {
		baseName = "CustomTT"
	}
	baseName = strings.ReplaceAll(baseName, " ", "")

	widths := glyphWidths(font, buf, unitsPerEm, ppem)
	defaultWidth := widths[0]
	if defaultWidth == 0 {
		defaultWidth = 1000
	}

	metrics, err := font.Metrics(buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("read metrics: %w", err)
	}
	bounds, _ := font.Bounds(buf, ppem, xfont.HintingNone)
	ascent := scaleFixed(metrics.Ascent, unitsPerEm)
	descent := scaleFixed(metrics.Descent, unitsPerEm)
	lineHeight := scaleFixed(metrics.Height, unitsPerEm)
	if lineHeight < ascent+descent {
		lineHeight = ascent + descent
	}
	capHeight := scaleFixed(metrics.CapHeight, unitsPerEm)
	if capHeight == 0 {
		capHeight = ascent
	}

	descriptor := &semantic.FontDescriptor{
		FontName:    baseName,
		Flags:       32, // Nonsymbolic
		ItalicAngle: italicAngle(font),
		Ascent:      ascent,
		Descent:     -descent,
		CapHeight:   capHeight,
		StemV:       80,
		FontBBox: [4]float64{
			scaleFixed(bounds.Min.X, unitsPerEm),
			// sfnt bounds grow downwards; PDF boxes grow upwards.
			-scaleFixed(bounds.Max.Y, unitsPerEm),
			scaleFixed(bounds.Max.X, unitsPerEm),
			-scaleFixed(bounds.Min.Y, unitsPerEm),
		},
		FontFile:     data,
		FontFileType: "FontFile2",
	}

	cidInfo := semantic.CIDSystemInfo{Registry: "Adobe", Ordering: "Identity", Supplement: 0}
	descendant := &semantic.CIDFont{
		Subtype:       "CIDFontType2",
		BaseFont:      baseName,
		CIDSystemInfo: cidInfo,
		DW:            defaultWidth,
		W:             widths,
		Descriptor:    descriptor,
	}

	return &Face{
		name: baseName,
		font: &semantic.Font{
			Subtype:        "Type0",
			BaseFont:       baseName,
			Encoding:       "Identity-H",
			Widths:         widths,
			ToUnicode:      make(map[int][]rune),
			CIDSystemInfo:  &cidInfo,
			DescendantFont: descendant,
			Descriptor:     descriptor,
		},
		shapeFace:  shapeFace,
		unitsPerEm: unitsPerEm,
		ascent:     ascent,
		descent:    descent,
		lineHeight: lineHeight,
	}, nil
}

// Name returns the PostScript name of the face.
func (f *Face) Name() string { return f.name }

// PDFFont returns the page-description font for this face. Glyphs shaped by
// the face record their source text in its ToUnicode map.
func (f *Face) PDFFont() *semantic.Font { return f.font }

// Ascent returns the distance from the baseline to the top of a line at size.
func (f *Face) Ascent(size float64) float64 { return f.ascent * size / 1000 }

// Descent returns the distance from the baseline to the bottom of a line at size.
func (f *Face) Descent(size float64) float64 { return f.descent * size / 1000 }

// LineHeight returns the line pitch at size, including the font's leading.
func (f *Face) LineHeight(size float64) float64 { return f.lineHeight * size / 1000 }

// GlyphWidth returns the advance of glyph id in 1/1000 em as written to the
// PDF widths array.
func (f *Face) GlyphWidth(id int) int {
	if w, ok := f.font.Widths[id]; ok {
		return w
	}
	return f.font.DescendantFont.DW
}

func glyphWidths(font *sfnt.Font, buf *sfnt.Buffer, unitsPerEm sfnt.Units, ppem fixed.Int26_6) map[int]int {
	glyphs := font.NumGlyphs()
	widths := make(map[int]int, glyphs)
	for i := 0; i < glyphs; i++ {
		adv, err := font.GlyphAdvance(buf, sfnt.GlyphIndex(i), ppem, xfont.HintingNone)
		if err != nil {
			continue
		}
		widths[i] = int(math.Round(scaleFixed(adv, unitsPerEm)))
	}
	return widths
}

func italicAngle(font *sfnt.Font) float64 {
	post := font.PostTable()
	if post == nil {
		return 0
	}
	return post.ItalicAngle
}

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}
