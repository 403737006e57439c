// Package spellout writes integers as cardinal numerals in words.
package spellout

import "strings"

var englishOnes = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var englishTens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var englishScales = [...]string{
	"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion",
}

// English returns the en-US cardinal for n, e.g. 1234 is
// "one thousand two hundred thirty-four". Hyphens join tens and units only.
func English(n int64) string {
	if n == 0 {
		return englishOnes[0]
	}
	neg, u := magnitude(n)
	var words []string
	for i, group := range groups(u) {
		if group == 0 {
			continue
		}
		part := englishGroup(group)
		if scale := englishScales[i]; scale != "" {
			part += " " + scale
		}
		words = append([]string{part}, words...)
	}
	out := strings.Join(words, " ")
	if neg {
		out = "minus " + out
	}
	return out
}

// englishGroup spells 1..999.
func englishGroup(n int) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, englishOnes[h]+" hundred")
	}
	switch r := n % 100; {
	case r == 0:
	case r < 20:
		parts = append(parts, englishOnes[r])
	case r%10 == 0:
		parts = append(parts, englishTens[r/10])
	default:
		parts = append(parts, englishTens[r/10]+"-"+englishOnes[r%10])
	}
	return strings.Join(parts, " ")
}

// magnitude splits n into its sign and absolute value. The absolute value of
// the smallest int64 only fits unsigned.
func magnitude(n int64) (neg bool, u uint64) {
	if n < 0 {
		return true, uint64(-(n + 1)) + 1
	}
	return false, uint64(n)
}

// groups splits u into base-1000 digits, least significant first.
func groups(u uint64) []int {
	var out []int
	for u > 0 {
		out = append(out, int(u%1000))
		u /= 1000
	}
	return out
}
