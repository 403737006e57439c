// Package translit romanizes Ukrainian text with the national passport
// transliteration table.
package translit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Letters spelled differently at the start of a word.
var initial = map[rune]string{
	'Є': "Ye", 'є': "ye", 'Ї': "Yi", 'ї': "yi", 'Й': "Y", 'й': "y",
	'Ю': "Yu", 'ю': "yu", 'Я': "Ya", 'я': "ya",
}

var medial = map[rune]string{
	'Є': "Ie", 'є': "ie", 'Ї': "I", 'ї': "i", 'Й': "I", 'й': "i",
	'Ю': "Iu", 'ю': "iu", 'Я': "Ia", 'я': "ia",
}

var common = map[rune]string{
	'А': "A", 'а': "a", 'Б': "B", 'б': "b", 'В': "V", 'в': "v",
	'Г': "H", 'г': "h", 'Ґ': "G", 'ґ': "g", 'Д': "D", 'д': "d",
	'Е': "E", 'е': "e", 'Ж': "Zh", 'ж': "zh", 'З': "Z", 'з': "z",
	'И': "Y", 'и': "y", 'І': "I", 'і': "i", 'К': "K", 'к': "k",
	'Л': "L", 'л': "l", 'М': "M", 'м': "m", 'Н': "N", 'н': "n",
	'О': "O", 'о': "o", 'П': "P", 'п': "p", 'Р': "R", 'р': "r",
	'С': "S", 'с': "s", 'Т': "T", 'т': "t", 'У': "U", 'у': "u",
	'Ф': "F", 'ф': "f", 'Х': "Kh", 'х': "kh", 'Ц': "Ts", 'ц': "ts",
	'Ч': "Ch", 'ч': "ch", 'Ш': "Sh", 'ш': "sh", 'Щ': "Shch", 'щ': "shch",
}

// Soft signs and apostrophes have no Latin counterpart.
func silent(r rune) bool {
	switch r {
	case 'ь', 'Ь', '\'', '’', 'ʼ':
		return true
	}
	return false
}

// Transliterate romanizes text word by word. Words are separated by single
// spaces in the result. Characters outside the Ukrainian alphabet pass
// through unchanged.
func Transliterate(text string) string {
	text = norm.NFC.String(text)
	words := strings.Split(text, " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, word(w))
	}
	return strings.Join(out, " ")
}

func word(w string) string {
	var sb strings.Builder
	runes := []rune(w)
	for i, r := range runes {
		if silent(r) {
			continue
		}
		// "зг" keeps the g audible: Zghoretskyi, not Zhoretskyi.
		if i > 0 && (runes[i-1] == 'з' || runes[i-1] == 'З') && (r == 'г' || r == 'Г') {
			if r == 'Г' {
				sb.WriteString("GH")
			} else {
				sb.WriteString("gh")
			}
			continue
		}
		table := medial
		if i == 0 {
			table = initial
		}
		if s, ok := table[r]; ok {
			sb.WriteString(s)
		} else if s, ok := common[r]; ok {
			sb.WriteString(s)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
