package spellout

import "strings"

var ukrainianOnes = [...]string{
	"нуль", "один", "два", "три", "чотири", "п’ять", "шість", "сім", "вісім", "дев’ять",
	"десять", "одинадцять", "дванадцять", "тринадцять", "чотирнадцять", "п’ятнадцять",
	"шістнадцять", "сімнадцять", "вісімнадцять", "дев’ятнадцять",
}

var ukrainianTens = [...]string{
	"", "", "двадцять", "тридцять", "сорок", "п’ятдесят", "шістдесят", "сімдесят",
	"вісімдесят", "дев’яносто",
}

var ukrainianHundreds = [...]string{
	"", "сто", "двісті", "триста", "чотириста", "п’ятсот", "шістсот", "сімсот",
	"вісімсот", "дев’ятсот",
}

// scaleForms holds the noun of a power of a thousand in its one, few and
// many forms.
type scaleForms struct {
	one, few, many string
	feminine       bool
}

var ukrainianScales = [...]scaleForms{
	{},
	{"тисяча", "тисячі", "тисяч", true},
	{"мільйон", "мільйони", "мільйонів", false},
	{"мільярд", "мільярди", "мільярдів", false},
	{"трильйон", "трильйони", "трильйонів", false},
	{"квадрильйон", "квадрильйони", "квадрильйонів", false},
	{"квінтильйон", "квінтильйони", "квінтильйонів", false},
}

// Ukrainian returns the uk cardinal for n in the masculine form, with
// thousands agreeing in the feminine: 1001 is "одна тисяча один".
func Ukrainian(n int64) string {
	if n == 0 {
		return ukrainianOnes[0]
	}
	neg, u := magnitude(n)
	var words []string
	for i, group := range groups(u) {
		if group == 0 {
			continue
		}
		scale := ukrainianScales[i]
		part := ukrainianGroup(group, scale.feminine)
		if i > 0 {
			part += " " + scale.form(group)
		}
		words = append([]string{part}, words...)
	}
	out := strings.Join(words, " ")
	if neg {
		out = "мінус " + out
	}
	return out
}

// ukrainianGroup spells 1..999.
func ukrainianGroup(n int, feminine bool) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, ukrainianHundreds[h])
	}
	r := n % 100
	if r >= 20 {
		parts = append(parts, ukrainianTens[r/10])
		r %= 10
	}
	if r > 0 {
		word := ukrainianOnes[r]
		if feminine {
			switch r {
			case 1:
				word = "одна"
			case 2:
				word = "дві"
			}
		}
		parts = append(parts, word)
	}
	return strings.Join(parts, " ")
}

// form picks the noun form agreeing with a group value.
func (s scaleForms) form(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return s.many
	case n%10 == 1:
		return s.one
	case n%10 >= 2 && n%10 <= 4:
		return s.few
	default:
		return s.many
	}
}
