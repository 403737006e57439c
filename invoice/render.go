// Package invoice renders bilingual English/Ukrainian invoices to one-page
// PDF documents.
package invoice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wudi/invoicekit/builder"
	"github.com/wudi/invoicekit/fonts"
	"github.com/wudi/invoicekit/ir/semantic"
	"github.com/wudi/invoicekit/layout"
	"github.com/wudi/invoicekit/observability"
	"github.com/wudi/invoicekit/writer"
)

// DefaultFontFamily is the family looked up for both weights.
const DefaultFontFamily = "Arial Narrow"

// Renderer turns invoices into PDF bytes. It holds configuration only, so
// one Renderer may serve concurrent calls.
type Renderer struct {
	logger        observability.Logger
	tracer        observability.Tracer
	resolver      fonts.Resolver
	family        string
	allowOverflow bool
	layoutOpts    []layout.Option
	writerCfg     writer.Config
}

// Option configures a Renderer.
type Option func(*Renderer)

func WithLogger(l observability.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithTracer(t observability.Tracer) Option {
	return func(r *Renderer) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithFontResolver sets where the font family is looked up. Families that
// cannot be resolved fall back to the bundled Go fonts.
func WithFontResolver(res fonts.Resolver) Option {
	return func(r *Renderer) {
		if res != nil {
			r.resolver = res
		}
	}
}

func WithFontFamily(family string) Option {
	return func(r *Renderer) {
		if family != "" {
			r.family = family
		}
	}
}

// WithAllowOverflow renders content that runs past the page instead of
// failing with ErrContentOverflow.
func WithAllowOverflow(allow bool) Option {
	return func(r *Renderer) { r.allowOverflow = allow }
}

// WithLayout overrides the page geometry.
func WithLayout(opts ...layout.Option) Option {
	return func(r *Renderer) { r.layoutOpts = append(r.layoutOpts, opts...) }
}

// WithCompression flate-compresses content streams at the given level.
func WithCompression(level int) Option {
	return func(r *Renderer) {
		r.writerCfg.Compression = level
		r.writerCfg.ContentFilter = writer.FilterFlate
	}
}

// NewRenderer returns a renderer that writes deterministic PDF 1.7 files
// using the system's Arial Narrow when installed.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger:   observability.NopLogger{},
		tracer:   observability.NopTracer(),
		resolver: fonts.DirResolver{Dirs: fonts.SystemFontDirs},
		family:   DefaultFontFamily,
		writerCfg: writer.Config{
			Version:       writer.PDF17,
			ContentFilter: writer.FilterFlate,
			Deterministic: true,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Generate renders with the default renderer.
func Generate(inv Invoice, customer Customer, profile *Profile) ([]byte, error) {
	return defaultRenderer.Render(context.Background(), inv, customer, profile)
}

// Report describes where the content of a rendered page went.
type Report struct {
	Boxes         []layout.Box
	ContentHeight float64
	Overflow      bool
}

// Render lays out the invoice on one page and serializes it. The context
// only carries tracing; a canceled context does not stop the render.
func (r *Renderer) Render(ctx context.Context, inv Invoice, customer Customer, profile *Profile) ([]byte, error) {
	ctx, span := r.tracer.StartSpan(ctx, observability.SpanRender)
	defer span.Finish()
	span.SetTag(observability.KeyInvoiceNumber, inv.Number)
	span.SetTag(observability.KeyCurrency, inv.Currency.Code())
	span.SetTag(observability.KeyItems, len(inv.Items))

	log := r.logger.With(observability.Int(observability.KeyInvoiceNumber, inv.Number))
	log.Debug("render invoice", observability.Int(observability.KeyItems, len(inv.Items)))

	out, rep, err := r.render(ctx, inv, customer, profile, log)
	if err != nil {
		span.SetError(err)
		log.Warn("render failed", observability.Error("error", err))
		return nil, err
	}
	span.SetTag(observability.KeyBytes, len(out))
	span.SetTag(observability.KeyContentHeight, rep.ContentHeight)
	log.Debug("rendered invoice",
		observability.Int(observability.KeyBytes, len(out)),
		observability.Float64(observability.KeyContentHeight, rep.ContentHeight),
	)
	return out, nil
}

func (r *Renderer) render(ctx context.Context, inv Invoice, customer Customer, profile *Profile, log observability.Logger) ([]byte, Report, error) {
	if profile == nil {
		return nil, Report{}, ErrMissingProfile
	}
	if err := inv.Validate(); err != nil {
		return nil, Report{}, err
	}

	b := builder.NewBuilder()
	if err := r.registerFonts(b, log); err != nil {
		return nil, Report{}, err
	}
	b.SetLanguage("uk-UA")
	b.SetInfo(&semantic.DocumentInfo{
		Title:    fmt.Sprintf("Invoice № %d", inv.Number),
		Subject:  "Invoice (offer) / Інвойс (оферта)",
		Producer: "invoicekit",
	})

	geom := layout.DefaultGeometry()
	for _, opt := range r.layoutOpts {
		opt(&geom)
	}
	pb := b.NewPage(geom.PageWidth, geom.PageHeight)
	flow := layout.NewFlow(pb, layout.NewTypesetter(b), r.layoutOpts...)
	layoutPage(flow, newPage(inv, customer, profile, defaultStyles()))
	pb.Finish()

	rep := Report{
		Boxes:         flow.Boxes(),
		ContentHeight: flow.ContentHeight(),
		Overflow:      flow.Overflows(),
	}
	if rep.Overflow && !r.allowOverflow {
		return nil, rep, fmt.Errorf("invoice %d: %w", inv.Number, ErrContentOverflow)
	}

	doc, err := b.Build()
	if err != nil {
		return nil, rep, fmt.Errorf("build page: %w: %w", ErrSink, err)
	}
	var buf bytes.Buffer
	w := (&writer.WriterBuilder{}).WithInterceptor(objectLogger{log: log}).Build()
	if err := w.Write(context.WithoutCancel(ctx), doc, &buf, r.writerCfg); err != nil {
		return nil, rep, fmt.Errorf("write pdf: %w: %w", ErrSink, err)
	}
	return buf.Bytes(), rep, nil
}

// layoutPage places every part of the invoice, top to bottom.
func layoutPage(f *layout.Flow, p *page) {
	f.PlaceTitle(p.title())

	frame := f.BeginFrame()
	f.Rule()
	for _, s := range p.sections() {
		if !s.present {
			continue
		}
		f.PlaceRow(s.en(), s.uk())
	}
	left, center, right := f.Columns()
	frame.Close(right, left, center)

	f.Advance(tableSpacing)
	f.PlaceTable(p.itemTable())
	f.Advance(tableSpacing)

	for _, c := range p.clauses() {
		f.PlaceSingle(layout.Text(p.st.terms, c), clauseSpacing)
	}
	f.PlaceFooter(p.signature())
}

// registerFonts resolves both weights of the family. A weight that cannot
// be found or parsed is replaced by the bundled Go font and logged.
func (r *Renderer) registerFonts(b builder.PDFBuilder, log observability.Logger) error {
	for _, w := range []struct {
		name string
		bold bool
	}{{fontRegular, false}, {fontBold, true}} {
		face, err := r.loadFace(w.name, w.bold)
		if err != nil {
			log.Warn("font unavailable, using fallback",
				observability.String(observability.KeyFont, r.family),
				observability.Bool("bold", w.bold),
				observability.Error("error", err),
			)
			face, err = fonts.LoadTrueType(w.name, fonts.Fallback(w.bold))
			if err != nil {
				return fmt.Errorf("load fallback font: %w: %w", ErrSink, err)
			}
		}
		b.RegisterFace(w.name, face)
	}
	return nil
}

func (r *Renderer) loadFace(name string, bold bool) (*fonts.Face, error) {
	data, err := r.resolver.Resolve(r.family, bold)
	if err != nil {
		return nil, err
	}
	return fonts.LoadTrueType(name, data)
}
