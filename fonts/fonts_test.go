package fonts_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wudi/invoicekit/fonts"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadTrueType(t *testing.T) {
	face := loadFace(t)
	if face.Name() == "" {
		t.Fatalf("face has no name")
	}
	asc, desc, lh := face.Ascent(10), face.Descent(10), face.LineHeight(10)
	if asc <= 0 || desc <= 0 {
		t.Fatalf("ascent %v descent %v must be positive", asc, desc)
	}
	if lh < asc+desc {
		t.Fatalf("line height %v below ascent+descent %v", lh, asc+desc)
	}

	f := face.PDFFont()
	if f.Subtype != "Type0" || f.Encoding != "Identity-H" {
		t.Fatalf("font is %s/%s, want Type0/Identity-H", f.Subtype, f.Encoding)
	}
	if f.DescendantFont == nil || f.DescendantFont.Subtype != "CIDFontType2" {
		t.Fatalf("missing CIDFontType2 descendant")
	}
	d := f.DescendantFont.Descriptor
	if d.FontFileType != "FontFile2" || !bytes.Equal(d.FontFile, goregular.TTF) {
		t.Fatalf("font program not embedded whole")
	}
	if d.Descent >= 0 {
		t.Fatalf("descriptor descent %v must be negative", d.Descent)
	}
	if d.FontBBox[1] >= d.FontBBox[3] {
		t.Fatalf("bbox %v is upside down", d.FontBBox)
	}
	if w := face.GlyphWidth(face.Shape("Ж")[0].ID); w <= 0 {
		t.Fatalf("width of Ж = %d", w)
	}
}

func TestLoadTrueType_Invalid(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("definitely not a font"),
	} {
		if _, err := fonts.LoadTrueType("Broken", data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestDirResolver(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("Arial Narrow.ttf", goregular.TTF)
	write("ArialNarrow-Bold.ttf", gobold.TTF)

	r := fonts.DirResolver{Dirs: []string{filepath.Join(dir, "missing"), dir}}
	got, err := r.Resolve("Arial Narrow", false)
	if err != nil || !bytes.Equal(got, goregular.TTF) {
		t.Fatalf("regular: %v", err)
	}
	got, err = r.Resolve("Arial Narrow", true)
	if err != nil || !bytes.Equal(got, gobold.TTF) {
		t.Fatalf("bold: %v", err)
	}

	for _, family := range []string{"Times", "  "} {
		if _, err := r.Resolve(family, false); !errors.Is(err, fonts.ErrFontNotFound) {
			t.Errorf("Resolve(%q) = %v, want ErrFontNotFound", family, err)
		}
	}
}

func TestFallback(t *testing.T) {
	for _, bold := range []bool{false, true} {
		face, err := fonts.LoadTrueType("Fallback", fonts.Fallback(bold))
		if err != nil {
			t.Fatalf("bold=%v: %v", bold, err)
		}
		for _, g := range face.Shape("Сума Total") {
			if g.ID == 0 {
				t.Fatalf("bold=%v: fallback misses a glyph", bold)
			}
		}
	}
}

func TestDirResolver_WindowsNamesAndSubdirectories(t *testing.T) {
	tests := []struct {
		name  string
		files map[string][]byte
	}{
		{"windows short names", map[string][]byte{"ARIALN.TTF": goregular.TTF, "ARIALNB.TTF": gobold.TTF}},
		{"nested", map[string][]byte{"arial/Arial Narrow.ttf": goregular.TTF, "arial/bold/ArialNarrow-Bold.ttf": gobold.TTF}},
		{"nested short names", map[string][]byte{"msttcorefonts/arialn.ttf": goregular.TTF, "msttcorefonts/arialnb.ttf": gobold.TTF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, data := range tt.files {
				path := filepath.Join(dir, filepath.FromSlash(name))
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					t.Fatal(err)
				}
			}
			r := fonts.DirResolver{Dirs: []string{dir}}
			for bold, want := range map[bool][]byte{false: goregular.TTF, true: gobold.TTF} {
				got, err := r.Resolve("Arial Narrow", bold)
				if err != nil {
					t.Fatalf("bold=%v: %v", bold, err)
				}
				if !bytes.Equal(got, want) {
					t.Fatalf("bold=%v: resolved the wrong weight", bold)
				}
			}
		})
	}
}

func TestDirResolver_PrefersTopLevelFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "old"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "old", "Arial Narrow.ttf"), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ARIALN.TTF"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := fonts.DirResolver{Dirs: []string{dir}}.Resolve("Arial Narrow", false)
	if err != nil || !bytes.Equal(got, goregular.TTF) {
		t.Fatalf("expected the top-level file, err %v", err)
	}
}

func TestLoadTrueType_RejectsCFFOutlines(t *testing.T) {
	data := append([]byte("OTTO"), make([]byte, 64)...)
	if _, err := fonts.LoadTrueType("Cff", data); !errors.Is(err, fonts.ErrCFFOutlines) {
		t.Fatalf("expected ErrCFFOutlines, got %v", err)
	}
}
