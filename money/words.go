package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wudi/invoicekit/spellout"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Split rounds amount to cents, half away from zero, and returns the whole
// units and the cents. The cents carry no sign.
func Split(amount decimal.Decimal) (units, cents int64) {
	r := amount.Round(2)
	units = r.IntPart()
	cents = r.Sub(decimal.NewFromInt(units)).Shift(2).Abs().IntPart()
	return units, cents
}

// Format prints amount with exactly two decimals.
func Format(amount decimal.Decimal) string { return amount.StringFixed(2) }

// Words is an amount in words in one language.
type Words struct {
	Integer  string
	Major    string
	Fraction string
	Minor    string
}

// String joins the parts with single spaces, skipping empty ones.
func (w Words) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{w.Integer, w.Major, w.Fraction, w.Minor} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Phrase is an amount in words in both invoice languages.
type Phrase struct {
	EN Words
	UK Words
}

// SpellOut writes amount in words in English and Ukrainian, followed by the
// unit names of cur.
func SpellOut(amount decimal.Decimal, cur Currency) Phrase {
	units, cents := Split(amount)
	en, uk := cur.EnglishNouns(), cur.UkrainianNouns()
	return Phrase{
		EN: Words{
			Integer:  orElse(spellout.English(units), "zero"),
			Major:    en.Major,
			Fraction: orElse(spellout.English(cents), "zero"),
			Minor:    en.Minor,
		},
		UK: Words{
			Integer:  orElse(spellout.Ukrainian(units), "нуль"),
			Major:    uk.Major,
			Fraction: orElse(spellout.Ukrainian(cents), "нуль"),
			Minor:    uk.Minor,
		},
	}
}

// Capitalized title-cases the integer words of both languages, the way the
// total to pay is printed. Unit names and the fraction stay as they are.
func (p Phrase) Capitalized() Phrase {
	p.EN.Integer = cases.Title(language.English).String(p.EN.Integer)
	p.UK.Integer = cases.Title(language.Ukrainian).String(p.UK.Integer)
	return p
}

// String is the English and Ukrainian phrases separated by a slash.
func (p Phrase) String() string { return p.EN.String() + " / " + p.UK.String() }

func orElse(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
