package invoice

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wudi/invoicekit/money"
)

// DateLayout is the wire form of dates in invoice documents.
const DateLayout = "2006-01-02"

// printedDate is how dates appear on the page.
const printedDate = "02.01.2006"

// Date is a calendar day. It encodes as 2006-01-02 in JSON and YAML.
type Date struct {
	time.Time
}

// NewDate returns the given day at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Printed is the day as printed on the invoice, dd.MM.yyyy.
func (d Date) Printed() string { return d.Format(printedDate) }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q: want %s", s, DateLayout)
	}
	*d = Date{t}
	return nil
}

// MarshalJSON shadows time.Time's RFC 3339 encoding.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// Address parts are all optional.
type Address struct {
	Street   string `json:"street,omitempty" yaml:"street,omitempty"`
	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	District string `json:"district,omitempty" yaml:"district,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Zip      string `json:"zip,omitempty" yaml:"zip,omitempty"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
}

// String joins the present parts with ", " from street to country.
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Street, a.City, a.District, a.Region, a.Zip, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Represented names the person signing for a party. A note is only printed
// together with the name.
type Represented struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	NoteEN string `json:"note_en,omitempty" yaml:"note_en,omitempty"`
	NoteUK string `json:"note_uk,omitempty" yaml:"note_uk,omitempty"`
}

// Party is a customer or a payer.
type Party struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Address     Address      `json:"address" yaml:"address"`
	Represented *Represented `json:"represented,omitempty" yaml:"represented,omitempty"`
}

// Customer is the billed party. Payer, when set, pays on its behalf.
type Customer struct {
	Party `yaml:",inline"`
	Payer *Party `json:"payer,omitempty" yaml:"payer,omitempty"`
}

// Profile is the issuing individual entrepreneur.
type Profile struct {
	LastName     string  `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	FirstName    string  `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	Patronymic   string  `json:"patronymic,omitempty" yaml:"patronymic,omitempty"`
	Entrepreneur bool    `json:"entrepreneur" yaml:"entrepreneur"`
	TaxNumber    string  `json:"tax_number,omitempty" yaml:"tax_number,omitempty"`
	Address      Address `json:"address" yaml:"address"`
}

// HasFullName reports whether all three name parts are known. The name is
// printed only then.
func (p *Profile) HasFullName() bool {
	return p.LastName != "" && p.FirstName != "" && p.Patronymic != ""
}

// Subject is what an invoice line is for, named in both languages.
type Subject struct {
	NameEN string `json:"name_en,omitempty" yaml:"name_en,omitempty"`
	NameUK string `json:"name_uk,omitempty" yaml:"name_uk,omitempty"`
}

type LineItem struct {
	Quantity int64           `json:"quantity" yaml:"quantity"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Subject  *Subject        `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// Amount is quantity times unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(li.Quantity))
}

type Invoice struct {
	Number    int            `json:"number" yaml:"number"`
	Place     string         `json:"place,omitempty" yaml:"place,omitempty"`
	StartDate Date           `json:"start_date" yaml:"start_date"`
	EndDate   Date           `json:"end_date" yaml:"end_date"`
	Currency  money.Currency `json:"currency" yaml:"currency"`
	Items     []LineItem     `json:"items" yaml:"items"`
}

// Total sums the line amounts. It is computed on every call.
func (inv Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range inv.Items {
		total = total.Add(it.Amount())
	}
	return total
}

// Validate reports the first inconsistency as an ErrInvalidInvoice.
func (inv Invoice) Validate() error {
	switch {
	case inv.Number <= 0:
		return fmt.Errorf("%w: number %d is not positive", ErrInvalidInvoice, inv.Number)
	case inv.StartDate.IsZero():
		return fmt.Errorf("%w: start date missing", ErrInvalidInvoice)
	case inv.EndDate.IsZero():
		return fmt.Errorf("%w: end date missing", ErrInvalidInvoice)
	case inv.EndDate.Before(inv.StartDate.Time):
		return fmt.Errorf("%w: end date %s before start date %s", ErrInvalidInvoice, inv.EndDate, inv.StartDate)
	case !inv.Currency.Valid():
		return fmt.Errorf("%w: currency %q", ErrInvalidInvoice, string(inv.Currency))
	}
	for i, it := range inv.Items {
		if it.Quantity < 0 {
			return fmt.Errorf("%w: item %d: negative quantity %d", ErrInvalidInvoice, i+1, it.Quantity)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("%w: item %d: negative price %s", ErrInvalidInvoice, i+1, it.Price)
		}
	}
	return nil
}
