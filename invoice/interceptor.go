package invoice

import (
	"github.com/wudi/invoicekit/ir/raw"
	"github.com/wudi/invoicekit/observability"
	"github.com/wudi/invoicekit/writer"
)

// objectLogger reports serialized objects at debug level.
type objectLogger struct {
	log observability.Logger
}

func (objectLogger) BeforeWrite(writer.Context, raw.Object) error { return nil }

func (o objectLogger) AfterWrite(_ writer.Context, obj raw.Object, n int64) error {
	o.log.Debug("pdf object written",
		observability.String("type", obj.Type()),
		observability.Int64("bytes", n),
	)
	return nil
}
