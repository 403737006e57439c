package fonts_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/wudi/invoicekit/fonts"
	"golang.org/x/image/font/gofont/goregular"
)

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect language.Script
	}{
		{"Latin", "Hello World", language.Latin},
		{"Cyrillic", "Рахунок-фактура", language.Cyrillic},
		{"Greek", "Γειά σου Κόσμε", language.Greek},
		{"Arabic", "مرحبا بالعالم", language.Arabic},
		{"Hebrew", "שלום עולם", language.Hebrew},
		{"digits only", "12.05.2025", language.Latin},
		// Ties keep the script counted first.
		{"tie", "Abc Абв", language.Latin},
		{"Cyrillic dominant", "Invoice / Рахунок-фактура", language.Cyrillic},
		{"Latin dominant", "Invoice number / Рахунок", language.Latin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fonts.DetectScript([]rune(tc.input))
			if got != tc.expect {
				t.Errorf("Expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func TestShapeCyrillic(t *testing.T) {
	face := loadFace(t)
	text := "Привіт, світ"
	glyphs := face.Shape(text)
	if len(glyphs) != len([]rune(text)) {
		t.Fatalf("got %d glyphs for %d runes", len(glyphs), len([]rune(text)))
	}
	for i, g := range glyphs {
		if g.ID == 0 {
			t.Fatalf("glyph %d is .notdef", i)
		}
		if g.XAdvance < 0 {
			t.Fatalf("glyph %d has negative advance %v", i, g.XAdvance)
		}
	}
	if got := face.Shape(""); got != nil {
		t.Fatalf("empty text shaped to %v", got)
	}
}

func TestClusterText(t *testing.T) {
	face := loadFace(t)
	for _, text := range []string{"Invoice", "Рахунок", "П’ятдесят"} {
		glyphs := face.Shape(text)
		var joined []rune
		for _, c := range fonts.ClusterText(text, glyphs) {
			joined = append(joined, c...)
		}
		if string(joined) != text {
			t.Errorf("clusters of %q joined to %q", text, string(joined))
		}
	}
}

func TestAdvance(t *testing.T) {
	face := loadFace(t)
	a := face.Advance("a", 10)
	ab := face.Advance("ab", 10)
	if a <= 0 || ab <= a {
		t.Fatalf("advance not growing: a=%v ab=%v", a, ab)
	}
	if got, want := face.Advance("ab", 20), 2*ab; got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("advance at 20pt = %v, want %v", got, want)
	}
	if face.Advance("", 10) != 0 {
		t.Fatalf("empty text has width")
	}
}

func loadFace(t *testing.T) *fonts.Face {
	t.Helper()
	face, err := fonts.LoadTrueType("Go Regular", goregular.TTF)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return face
}
