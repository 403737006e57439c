package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrFontNotFound is returned by resolvers that have no file for a family.
var ErrFontNotFound = errors.New("font not found")

// Resolver locates the font program for a family and weight.
type Resolver interface {
	Resolve(family string, bold bool) ([]byte, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(family string, bold bool) ([]byte, error)

func (f ResolverFunc) Resolve(family string, bold bool) ([]byte, error) { return f(family, bold) }

// SystemFontDirs lists the usual locations of installed TrueType fonts.
var SystemFontDirs = []string{
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/truetype",
	"/usr/local/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
	`C:\Windows\Fonts`,
}

// DirResolver looks for "<Family>[ Bold].ttf" style file names in Dirs and
// their subdirectories. Directories are tried in order; within one, a file
// directly inside wins over one further down.
type DirResolver struct {
	Dirs []string
}

func (r DirResolver) Resolve(family string, bold bool) ([]byte, error) {
	family = strings.TrimSpace(family)
	if family == "" {
		return nil, fmt.Errorf("empty family: %w", ErrFontNotFound)
	}
	names := candidateFileNames(family, bold)
	for _, dir := range r.Dirs {
		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err == nil {
				return data, nil
			}
		}
		if path := findNested(dir, names); path != "" {
			if data, err := os.ReadFile(path); err == nil {
				return data, nil
			}
		}
	}
	weight := "regular"
	if bold {
		weight = "bold"
	}
	return nil, fmt.Errorf("%s %s: %w", family, weight, ErrFontNotFound)
}

// findNested walks the subdirectories of dir for the best ranked name,
// compared without case. It returns "" when nothing matches.
func findNested(dir string, names []string) string {
	rank := make(map[string]int, len(names))
	for i, n := range names {
		if _, seen := rank[strings.ToLower(n)]; !seen {
			rank[strings.ToLower(n)] = i
		}
	}
	best, bestRank := "", len(names)
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Dir(path) == filepath.Clean(dir) {
			return nil
		}
		if i, ok := rank[strings.ToLower(d.Name())]; ok && i < bestRank {
			best, bestRank = path, i
		}
		return nil
	})
	return best
}

// shortNames are the 8.3 file names Windows ships its core fonts under.
var shortNames = map[string][2]string{
	"arial narrow":    {"ARIALN", "ARIALNB"},
	"arial":           {"arial", "arialbd"},
	"times new roman": {"times", "timesbd"},
}

func candidateFileNames(family string, bold bool) []string {
	compact := strings.ReplaceAll(family, " ", "")
	var bases []string
	if bold {
		bases = []string{family + " Bold", compact + "-Bold", compact + "Bold", compact + "bd"}
	} else {
		bases = []string{family, compact + "-Regular", compact}
	}
	if short, ok := shortNames[strings.ToLower(family)]; ok {
		if bold {
			bases = append(bases, short[1])
		} else {
			bases = append(bases, short[0])
		}
	}
	names := make([]string, 0, len(bases)*3)
	for _, b := range bases {
		names = append(names, b+".ttf", b+".TTF", strings.ToLower(b)+".ttf")
	}
	return names
}

// Fallback returns the bundled Go font of the requested weight. Both weights
// cover Latin and Cyrillic.
func Fallback(bold bool) []byte {
	if bold {
		return gobold.TTF
	}
	return goregular.TTF
}
