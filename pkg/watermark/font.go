package watermark

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontBook resolves CSS-style font family lists to parsed fonts. Families
// are tried in order as a font file path, then by name in the registered
// directories; generic or unknown families fall back to the Go fonts.
type FontBook struct {
	mu    sync.Mutex
	dirs  []string
	fonts map[string]*opentype.Font
}

// NewFontBook returns a FontBook searching the given directories.
func NewFontBook(dirs ...string) *FontBook {
	return &FontBook{dirs: dirs, fonts: make(map[string]*opentype.Font)}
}

var defaultFonts = NewFontBook()

// AddDir registers another directory of .ttf/.otf files.
func (b *FontBook) AddDir(dir string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirs = append(b.dirs, dir)
}

// Face returns a face of the given pixel size for family and weight. It
// never fails: unusable families fall back to Go Regular or Go Bold, and a
// face that cannot be built at all to the fixed 7x13 bitmap font.
func (b *FontBook) Face(family, weight string, size float64) font.Face {
	bold := isBold(weight)
	face, err := openFace(b.resolve(family, bold), size)
	if err == nil {
		return face
	}
	log.Printf("failed to create face for %q, using Go Regular: %v", family, err)
	if face, err = openFace(b.builtin("goregular", goregular.TTF), size); err == nil {
		return face
	}
	log.Printf("failed to create Go Regular face, using 7x13: %v", err)
	return basicfont.Face7x13
}

var openFace = func(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (b *FontBook) resolve(family string, bold bool) *opentype.Font {
	for _, name := range splitFamilies(family) {
		switch strings.ToLower(name) {
		case "monospace":
			if bold {
				return b.builtin("gomonobold", gomonobold.TTF)
			}
			return b.builtin("gomono", gomono.TTF)
		case "serif", "sans-serif", "cursive", "fantasy", "system-ui":
			return b.fallback(bold)
		}
		if f := b.load(name, bold); f != nil {
			return f
		}
	}
	return b.fallback(bold)
}

func (b *FontBook) fallback(bold bool) *opentype.Font {
	if bold {
		return b.builtin("gobold", gobold.TTF)
	}
	return b.builtin("goregular", goregular.TTF)
}

func (b *FontBook) builtin(key string, ttf []byte) *opentype.Font {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.fonts[key]; ok {
		return f
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		// the embedded Go fonts always parse
		panic(err)
	}
	b.fonts[key] = f
	return f
}

func (b *FontBook) load(name string, bold bool) *opentype.Font {
	path := b.find(name, bold)
	if path == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.fonts[path]; ok {
		return f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read font %q: %v", path, err)
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		log.Printf("failed to parse font %q: %v", path, err)
		return nil
	}
	b.fonts[path] = f
	return f
}

func (b *FontBook) find(name string, bold bool) string {
	if isFontFile(name) {
		if _, err := os.Stat(name); err == nil {
			return name
		}
		return ""
	}
	b.mu.Lock()
	dirs := append([]string(nil), b.dirs...)
	b.mu.Unlock()

	stem := strings.ReplaceAll(strings.ToLower(name), " ", "")
	want := []string{stem + "-regular", stem}
	if bold {
		want = []string{stem + "-bold", stem + "bold", stem}
	}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, w := range want {
			for _, e := range entries {
				if e.IsDir() || !isFontFile(e.Name()) {
					continue
				}
				base := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
				if strings.ReplaceAll(base, " ", "") == w {
					return filepath.Join(dir, e.Name())
				}
			}
		}
	}
	return ""
}

func splitFamilies(family string) []string {
	var out []string
	for _, part := range strings.Split(family, ",") {
		name := strings.Trim(strings.TrimSpace(part), `'"`)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

func isBold(weight string) bool {
	w := strings.ToLower(strings.TrimSpace(weight))
	switch w {
	case "bold", "bolder":
		return true
	case "", "normal", "lighter":
		return false
	}
	n, err := strconv.Atoi(w)
	return err == nil && n >= 600
}
