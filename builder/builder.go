package builder

import (
	"errors"
	"fmt"
	"math"

	"github.com/wudi/invoicekit/fonts"
	"github.com/wudi/invoicekit/ir/semantic"
)

// PDFBuilder provides a fluent API for PDF construction.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	SetLanguage(lang string) PDFBuilder
	RegisterFace(name string, face *fonts.Face) PDFBuilder
	RegisterTrueTypeFont(name string, data []byte) PDFBuilder
	Face(name string) (*fonts.Face, bool)
	MeasureText(text string, fontSize float64, fontName string) float64
	Build() (*semantic.Document, error)
}

// PageBuilder provides a fluent API for page construction.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	Finish() PDFBuilder
}

// ErrUnknownFont is recorded when text is drawn with a font that was never
// registered. Build reports it.
var ErrUnknownFont = errors.New("unknown font")

// TextOptions configures text drawing. Y is the baseline.
type TextOptions struct {
	Font     string
	FontSize float64
	Color    Color
}

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
}

// Color represents an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Gray returns the RGB color with all components set to level.
func Gray(level float64) Color { return Color{R: level, G: level, B: level} }

type fontResource struct {
	face     *fonts.Face
	resource string
}

type builderImpl struct {
	pages []*semantic.Page
	info  *semantic.DocumentInfo
	lang  string
	fonts map[string]fontResource
	err   error
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

const defaultFontSize = 12

// NewBuilder constructs a PDFBuilder.
func NewBuilder() PDFBuilder { return &builderImpl{fonts: make(map[string]fontResource)} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{MediaBox: semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h}}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

func (b *builderImpl) SetLanguage(lang string) PDFBuilder {
	b.lang = lang
	return b
}

// RegisterFace makes face available under name. Content streams refer to it
// by a generated resource name (F1, F2, ...) in registration order.
func (b *builderImpl) RegisterFace(name string, face *fonts.Face) PDFBuilder {
	if face == nil {
		return b
	}
	if existing, ok := b.fonts[name]; ok {
		existing.face = face
		b.fonts[name] = existing
		return b
	}
	b.fonts[name] = fontResource{face: face, resource: fmt.Sprintf("F%d", len(b.fonts)+1)}
	return b
}

func (b *builderImpl) RegisterTrueTypeFont(name string, data []byte) PDFBuilder {
	face, err := fonts.LoadTrueType(name, data)
	if err != nil {
		b.recordErr(fmt.Errorf("register font %q: %w", name, err))
		return b
	}
	return b.RegisterFace(name, face)
}

func (b *builderImpl) Face(name string) (*fonts.Face, bool) {
	res, ok := b.fonts[name]
	if !ok {
		return nil, false
	}
	return res.face, true
}

// MeasureText returns the shaped width of text, or 0 for unknown fonts.
func (b *builderImpl) MeasureText(text string, fontSize float64, fontName string) float64 {
	res, ok := b.fonts[fontName]
	if !ok {
		return 0
	}
	return res.face.Advance(text, fontSize)
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.pages) == 0 {
		return nil, errors.New("document has no pages")
	}
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{
		Pages: b.pages,
		Info:  b.info,
		Lang:  b.lang,
	}, nil
}

func (b *builderImpl) recordErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	if text == "" {
		return p
	}
	res, ok := p.parent.fonts[opts.Font]
	if !ok {
		p.parent.recordErr(fmt.Errorf("draw text: %q: %w", opts.Font, ErrUnknownFont))
		return p
	}
	resources := p.ensureResources()
	font := res.face.PDFFont()
	resources.Fonts[res.resource] = font

	size := opts.FontSize
	if size <= 0 {
		size = defaultFontSize
	}

	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "BT"})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tf",
		Operands: []semantic.Operand{semantic.NameOperand{Value: res.resource}, semantic.NumberOperand{Value: size}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tm",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
		},
	})
	if !isZeroColor(opts.Color) {
		p.appendColorOp(ops, opts.Color, false)
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "TJ",
		Operands: []semantic.Operand{encodeShaped(text, res.face)},
	})
	*ops = append(*ops, semantic.Operation{Operator: "ET"})
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	p.appendColorOp(ops, opts.StrokeColor, true)
	if opts.LineWidth > 0 {
		*ops = append(*ops, semantic.Operation{Operator: "w", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.LineWidth}}})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "m",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x1}, semantic.NumberOperand{Value: y1}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "l",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x2}, semantic.NumberOperand{Value: y2}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "S"})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) Finish() PDFBuilder { return p.parent }

// encodeShaped shapes text and returns a TJ array of two-byte glyph ids.
// Where the shaped advance differs from the glyph's nominal width (kerning),
// a displacement is inserted after the glyph. The glyphs' source text is
// recorded in the font's ToUnicode map.
func encodeShaped(text string, face *fonts.Face) semantic.ArrayOperand {
	glyphs := face.Shape(text)
	clusters := fonts.ClusterText(text, glyphs)
	toUnicode := face.PDFFont().ToUnicode

	var arr semantic.ArrayOperand
	var run []byte
	flush := func() {
		if len(run) > 0 {
			arr.Values = append(arr.Values, semantic.HexStringOperand{Value: run})
			run = nil
		}
	}
	for i, g := range glyphs {
		run = append(run, byte(g.ID>>8), byte(g.ID))
		if src := clusters[i]; len(src) > 0 {
			if _, seen := toUnicode[g.ID]; !seen {
				toUnicode[g.ID] = append([]rune(nil), src...)
			}
		}
		adj := float64(face.GlyphWidth(g.ID)) - g.XAdvance
		if math.Abs(adj) >= 0.5 && i < len(glyphs)-1 {
			flush()
			arr.Values = append(arr.Values, semantic.NumberOperand{Value: math.Round(adj)})
		}
	}
	flush()
	return arr
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func (p *pageBuilderImpl) appendColorOp(ops *[]semantic.Operation, c Color, stroking bool) {
	if isZeroColor(c) {
		return
	}
	op := "rg"
	if stroking {
		op = "RG"
	}
	*ops = append(*ops, semantic.Operation{
		Operator: op,
		Operands: colorOperands(c),
	})
}

func isZeroColor(c Color) bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

func colorOperands(c Color) []semantic.Operand {
	return []semantic.Operand{
		semantic.NumberOperand{Value: c.R},
		semantic.NumberOperand{Value: c.G},
		semantic.NumberOperand{Value: c.B},
	}
}
