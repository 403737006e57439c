package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wudi/invoicekit/money"
	"gopkg.in/yaml.v3"
)

// Document is everything one rendering needs, as read from a file or an
// HTTP request body.
type Document struct {
	Invoice  Invoice  `json:"invoice" yaml:"invoice"`
	Customer Customer `json:"customer" yaml:"customer"`
	Profile  *Profile `json:"profile" yaml:"profile"`
}

// Validate checks the invoice and the presence of a profile.
func (d *Document) Validate() error {
	if d.Profile == nil {
		return ErrMissingProfile
	}
	return d.Invoice.Validate()
}

// Format is the encoding of a Document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeDocument reads a document in the given format. Unknown JSON fields
// are rejected.
func DecodeDocument(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml document: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	return &doc, nil
}

// EncodeDocument writes doc in the given format.
func EncodeDocument(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml document: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}

// Sample returns a filled-in document for new users to start from.
func Sample() *Document {
	return &Document{
		Invoice: Invoice{
			Number:    1,
			Place:     "Kyiv",
			StartDate: NewDate(2025, time.January, 1),
			EndDate:   NewDate(2025, time.January, 31),
			Currency:  money.USD,
			Items: []LineItem{{
				Quantity: 1,
				Price:    decimal.RequireFromString("1000.00"),
				Subject:  &Subject{NameEN: "Software development services", NameUK: "Послуги з розробки програмного забезпечення"},
			}},
		},
		Customer: Customer{
			Party: Party{
				Name:        "ACME Inc.",
				Address:     Address{Street: "1 Main St", City: "Wilmington", Region: "DE", Zip: "19801", Country: "USA"},
				Represented: &Represented{Name: "John Smith", NoteEN: "CEO", NoteUK: "генеральний директор"},
			},
		},
		Profile: &Profile{
			LastName:     "Шевченко",
			FirstName:    "Тарас",
			Patronymic:   "Григорович",
			Entrepreneur: true,
			TaxNumber:    "1234567890",
			Address:      Address{Street: "вул. Хрещатик, 1", City: "Київ", Zip: "01001", Country: "Україна"},
		},
	}
}
