package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wudi/invoicekit/fonts"
	"github.com/wudi/invoicekit/invoice"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestServer() *Server {
	goFonts := fonts.ResolverFunc(func(_ string, bold bool) ([]byte, error) {
		if bold {
			return gobold.TTF, nil
		}
		return goregular.TTF, nil
	})
	return New(invoice.NewRenderer(invoice.WithFontResolver(goFonts)), nil)
}

func document(items int) string {
	var list []string
	for i := 0; i < items; i++ {
		list = append(list, `{"quantity": 1, "price": "10.00", "subject": {"name_en": "Support", "name_uk": "Підтримка"}}`)
	}
	return fmt.Sprintf(`{
  "invoice": {"number": 3, "start_date": "2025-01-10", "end_date": "2025-01-17", "currency": "uah", "items": [%s]},
  "customer": {"name": "ACME Inc.", "address": {"city": "Lviv"}},
  "profile": {"last_name": "Коваль", "first_name": "Олена", "patronymic": "Іванівна", "address": {"city": "Львів"}}
}`, strings.Join(list, ","))
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Fatalf("body = %s, %v", rec.Body.String(), err)
	}
}

func TestRenderPDF(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		status      int
	}{
		{"ok", http.MethodPost, "application/json", document(1), http.StatusOK},
		{"yaml with charset", http.MethodPost, "application/yaml; charset=utf-8", "invoice:\n  number: 1\n  start_date: 2025-01-10\n  end_date: 2025-01-11\n  currency: usd\n  items: []\ncustomer:\n  name: X\nprofile:\n  last_name: Y\n", http.StatusOK},
		{"yaml", http.MethodPost, "application/yaml", "invoice:\n  number: 1\n  start_date: 2025-01-10\n  end_date: 2025-01-11\n  currency: usd\n  items: []\ncustomer:\n  name: X\nprofile:\n  last_name: Y\n", http.StatusOK},
		{"malformed", http.MethodPost, "application/json", `{"invoice":`, http.StatusBadRequest},
		{"no profile", http.MethodPost, "application/json", `{"invoice": {"number": 1}}`, http.StatusBadRequest},
		{"invalid invoice", http.MethodPost, "application/json", strings.Replace(document(1), `"number": 3`, `"number": 0`, 1), http.StatusUnprocessableEntity},
		{"overflow", http.MethodPost, "application/json", document(45), http.StatusUnprocessableEntity},
		{"wrong method", http.MethodGet, "", "", http.StatusMethodNotAllowed},
	}
	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/invoices/pdf", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
				t.Fatalf("content type = %q", ct)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
				t.Fatalf("body is not a PDF")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", invoice.ErrInvalidInvoice), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", invoice.ErrContentOverflow), http.StatusUnprocessableEntity},
		{invoice.ErrMissingProfile, http.StatusBadRequest},
		{fmt.Errorf("x: %w", invoice.ErrSink), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRequestFormat(t *testing.T) {
	tests := map[string]invoice.Format{
		"application/yaml":                invoice.FormatYAML,
		"application/yaml; charset=utf-8": invoice.FormatYAML,
		"Application/X-YAML":              invoice.FormatYAML,
		"text/yaml":                       invoice.FormatYAML,
		"application/json":                invoice.FormatJSON,
		"application/json; charset=utf-8": invoice.FormatJSON,
		"":                                invoice.FormatJSON,
		"not a media type;;":              invoice.FormatJSON,
	}
	for contentType, want := range tests {
		if got := requestFormat(contentType); got != want {
			t.Errorf("requestFormat(%q) = %q, want %q", contentType, got, want)
		}
	}
}
