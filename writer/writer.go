// Package writer serializes a semantic document into a single-revision PDF
// file with a classic cross-reference table.
package writer

import (
	"io"

	"github.com/wudi/invoicekit/ir/raw"
	"github.com/wudi/invoicekit/ir/semantic"
)

// PDFVersion is the number written into the file header.
type PDFVersion string

// PDF17 is the default header version.
const PDF17 PDFVersion = "1.7"

// ContentFilter selects the encoding of content, font and CMap streams.
type ContentFilter int

const (
	FilterNone ContentFilter = iota
	FilterFlate
)

// Config controls serialization. The zero value writes uncompressed streams
// with a random first file identifier.
type Config struct {
	Version       PDFVersion
	Compression   int // flate level; non-zero implies FilterFlate
	ContentFilter ContentFilter
	Deterministic bool // both ID halves hash the body, so equal input gives equal bytes
}

// Writer turns a document into PDF bytes.
type Writer interface {
	Write(ctx Context, doc *semantic.Document, out io.Writer, cfg Config) error
	SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error)
}

// Interceptor observes every indirect object as it is written. An error
// from either hook aborts the write.
type Interceptor interface {
	BeforeWrite(ctx Context, obj raw.Object) error
	AfterWrite(ctx Context, obj raw.Object, bytesWritten int64) error
}

// WriterBuilder collects interceptors for a Writer.
type WriterBuilder struct{ interceptors []Interceptor }

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}

func (b *WriterBuilder) Build() Writer { return &impl{interceptors: b.interceptors} }

// Context is the part of context.Context the writer checks between objects.
type Context interface {
	Done() <-chan struct{}
	Err() error
}
