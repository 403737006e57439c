package fonts

import (
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph represents a single shaped glyph with positioning information.
type ShapedGlyph struct {
	ID       int
	Cluster  int     // index of the first rune of the cluster in the shaped text
	XAdvance float64 // In PDF text units (1/1000 em)
	XOffset  float64
	YOffset  float64
}

// shapingSize makes one em equal 1000 units after dividing by 64.
const shapingSize = fixed.Int26_6(1000 * 64)

// Shape shapes text with the face and returns glyphs in visual order.
func (f *Face) Shape(text string) []ShapedGlyph {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	script := DetectScript(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      f.shapeFace,
		Size:      shapingSize,
		Script:    script,
		Language:  scriptLanguage(script),
	}
	output := f.shaper.Shape(input)

	result := make([]ShapedGlyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		result = append(result, ShapedGlyph{
			ID:       int(g.GlyphID),
			Cluster:  g.ClusterIndex,
			XAdvance: float64(g.XAdvance) / 64.0,
			XOffset:  float64(g.XOffset) / 64.0,
			YOffset:  float64(g.YOffset) / 64.0,
		})
	}
	return result
}

// Advance returns the shaped width of text at size in user units.
func (f *Face) Advance(text string, size float64) float64 {
	var total float64
	for _, g := range f.Shape(text) {
		total += g.XAdvance
	}
	return total * size / 1000
}

// ClusterText returns the runes each glyph was shaped from, keyed by glyph
// index in glyphs. Glyphs sharing a cluster map the whole cluster to the
// first of them.
func ClusterText(text string, glyphs []ShapedGlyph) [][]rune {
	runes := []rune(text)
	out := make([][]rune, len(glyphs))
	for i, g := range glyphs {
		if i > 0 && glyphs[i-1].Cluster == g.Cluster {
			continue
		}
		end := len(runes)
		for j := i + 1; j < len(glyphs); j++ {
			if glyphs[j].Cluster > g.Cluster {
				end = glyphs[j].Cluster
				break
			}
		}
		if g.Cluster < end && g.Cluster >= 0 {
			out[i] = runes[g.Cluster:end]
		}
	}
	return out
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

func scriptLanguage(script language.Script) language.Language {
	if script == language.Cyrillic {
		return language.NewLanguage("uk")
	}
	return language.NewLanguage("en")
}

// DetectScript returns the script with the most runes in text, Latin when no
// rune carries a script.
func DetectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	}
	return language.Unknown
}
