package invoice

import "errors"

var (
	// ErrInvalidInvoice wraps every validation failure of an invoice.
	ErrInvalidInvoice = errors.New("invalid invoice")
	// ErrMissingProfile is returned when no issuer profile is given.
	ErrMissingProfile = errors.New("missing supplier profile")
	// ErrContentOverflow is returned when the laid-out content does not fit
	// on one page above the signature line. No bytes are produced.
	ErrContentOverflow = errors.New("invoice content does not fit on one page")
	// ErrSink wraps failures of the page builder or the PDF writer.
	ErrSink = errors.New("pdf output failed")
)
