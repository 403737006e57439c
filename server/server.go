// Package server exposes invoice rendering over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wudi/invoicekit/invoice"
	"github.com/wudi/invoicekit/observability"
)

// MaxBodyBytes bounds the size of a request document.
const MaxBodyBytes = 1 << 20

// Server handles rendering requests with one shared Renderer.
type Server struct {
	renderer *invoice.Renderer
	logger   observability.Logger
	router   *mux.Router
}

// New wires the routes. A nil logger discards logs.
func New(r *invoice.Renderer, logger observability.Logger) *Server {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	s := &Server{renderer: r, logger: logger, router: mux.NewRouter()}
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	s.router.HandleFunc("/invoices/pdf", s.renderPDF).Methods(http.MethodPost)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderPDF(w http.ResponseWriter, r *http.Request) {
	format := requestFormat(r.Header.Get("Content-Type"))
	doc, err := invoice.DecodeDocument(io.LimitReader(r.Body, MaxBodyBytes), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if doc.Profile == nil {
		writeError(w, http.StatusBadRequest, invoice.ErrMissingProfile)
		return
	}

	out, err := s.renderer.Render(r.Context(), doc.Invoice, doc.Customer, doc.Profile)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("render invoice", observability.Int(observability.KeyInvoiceNumber, doc.Invoice.Number), observability.Error("error", err))
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Header().Set("Content-Disposition", "inline; filename=\"invoice-"+strconv.Itoa(doc.Invoice.Number)+".pdf\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// requestFormat picks the document decoder from a Content-Type header.
// Parameters such as charset are ignored; anything not YAML is read as JSON.
func requestFormat(contentType string) invoice.Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return invoice.FormatJSON
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return invoice.FormatYAML
	default:
		return invoice.FormatJSON
	}
}

// statusFor maps rendering errors to response codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, invoice.ErrMissingProfile):
		return http.StatusBadRequest
	case errors.Is(err, invoice.ErrInvalidInvoice), errors.Is(err, invoice.ErrContentOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
