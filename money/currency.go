// Package money handles invoice currencies and amounts in words.
package money

import (
	"errors"
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code in lower case, the form invoices are stored
// with.
type Currency string

const (
	USD Currency = "usd"
	EUR Currency = "eur"
	UAH Currency = "uah"
)

// ErrUnknownCurrency is returned when a code is not one of the supported
// currencies.
var ErrUnknownCurrency = errors.New("money: unknown currency")

// Currencies lists the supported currencies.
func Currencies() []Currency { return []Currency{USD, EUR, UAH} }

// ParseCurrency accepts a code in any letter case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	_, ok := nounTable[c]
	return ok
}

// Code is the upper case code printed on the invoice.
func (c Currency) Code() string { return strings.ToUpper(string(c)) }

func (c Currency) String() string { return c.Code() }

func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(c))
	}
	return []byte(c), nil
}

func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Nouns are the unit names of a currency as they follow a spelled-out amount.
type Nouns struct {
	Major, Minor string
}

type currencyNouns struct {
	en, uk Nouns
}

// The amounts are always followed by the genitive plural, whatever the
// number.
var nounTable = map[Currency]currencyNouns{
	USD: {
		en: Nouns{Major: "United States dollars", Minor: "cents"},
		uk: Nouns{Major: "доларів США", Minor: "центів"},
	},
	EUR: {
		en: Nouns{Major: "euros", Minor: "cents"},
		uk: Nouns{Major: "євро", Minor: "центів"},
	},
	UAH: {
		en: Nouns{Major: "hryvnias", Minor: "kopiyok"},
		uk: Nouns{Major: "гривень", Minor: "копійок"},
	},
}

// EnglishNouns returns the English unit names of c, zero for an unknown
// currency.
func (c Currency) EnglishNouns() Nouns { return nounTable[c].en }

// UkrainianNouns returns the Ukrainian unit names of c.
func (c Currency) UkrainianNouns() Nouns { return nounTable[c].uk }
