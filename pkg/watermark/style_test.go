package watermark

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

func TestParseColor(t *testing.T) {
	test := []struct {
		in   string
		want color.NRGBA
		err  bool
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}, false},
		{"#DC2626", color.NRGBA{0xdc, 0x26, 0x26, 255}, false},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}, false},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}, false},
		{"rgba(0,0,0,0.5)", color.NRGBA{0, 0, 0, 128}, false},
		{" White ", color.NRGBA{255, 255, 255, 255}, false},
		{"transparent", color.NRGBA{}, false},
		{"crimson", color.NRGBA{220, 20, 60, 255}, false},
		{"Navy", color.NRGBA{0, 0, 128, 255}, false},
		{"darkgoldenrod", color.NRGBA{184, 134, 11, 255}, false},
		{"grey", color.NRGBA{128, 128, 128, 255}, false},
		{"notacolour", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
		{"#12", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
		{"rgba(0,0,0,2)", color.NRGBA{}, true},
		{"rgb(300,0,0)", color.NRGBA{}, true},
		{"rgb(1,2)", color.NRGBA{}, true},
	}
	for _, tt := range test {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorOr(t *testing.T) {
	def := color.NRGBA{1, 2, 3, 4}
	assert.Equal(t, def, colorOr("not-a-colour", def))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, colorOr("red", def))
}

func TestIsBold(t *testing.T) {
	for w, want := range map[string]bool{
		"700": true, "600": true, "bold": true, "Bolder": true,
		"400": false, "normal": false, "": false, "heavy": false,
	} {
		assert.Equal(t, want, isBold(w), w)
	}
}

func TestSplitFamilies(t *testing.T) {
	assert.Equal(t, []string{"Playfair Display", "serif"}, splitFamilies("'Playfair Display', serif"))
	assert.Equal(t, []string{"Inter"}, splitFamilies(` "Inter" ,, `))
	assert.Empty(t, splitFamilies(""))
}

func TestFontBookFallback(t *testing.T) {
	b := NewFontBook()
	mono := b.resolve("'Nope', monospace", false)
	assert.Same(t, b.builtin("gomono", gomono.TTF), mono)

	bold := b.resolve("'Montserrat', sans-serif", true)
	assert.Same(t, b.builtin("gobold", gobold.TTF), bold)

	face := b.Face("Missing Family", "400", 20)
	require.NotNil(t, face)
	assert.Greater(t, int(font.MeasureString(face, "abc")), 0)
}

func TestFontBookFaceFailure(t *testing.T) {
	open := openFace
	t.Cleanup(func() { openFace = open })

	calls := 0
	openFace = func(f *opentype.Font, size float64) (font.Face, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("bad table")
		}
		return open(f, size)
	}
	face := NewFontBook().Face("Broken", "400", 20)
	require.NotNil(t, face)
	assert.NotSame(t, basicfont.Face7x13, face)
	assert.Equal(t, 2, calls)

	openFace = func(*opentype.Font, float64) (font.Face, error) {
		return nil, errors.New("bad table")
	}
	face = NewFontBook().Face("Broken", "400", 20)
	assert.Same(t, basicfont.Face7x13, face)
	assert.Greater(t, int(font.MeasureString(face, "abc")), 0)
	assert.NoError(t, face.Close())
}

func TestFontBookDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Brand Sans-Bold.ttf"), gobold.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BrandSans.ttf"), gomono.TTF, 0o644))

	b := NewFontBook()
	b.AddDir(dir)

	assert.Equal(t, filepath.Join(dir, "Brand Sans-Bold.ttf"), b.find("Brand Sans", true))
	assert.Equal(t, filepath.Join(dir, "BrandSans.ttf"), b.find("Brand Sans", false))
	assert.Empty(t, b.find("Other", false))

	// a direct path to a font file is used as is
	path := filepath.Join(dir, "BrandSans.ttf")
	assert.Equal(t, path, b.find(path, false))

	f := b.resolve("'Brand Sans', serif", false)
	assert.Same(t, b.load("Brand Sans", false), f)
}

func TestPresets(t *testing.T) {
	ps := Presets()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Official Seal", "Modern Box", "Minimal", "Luxury", "Badge"}, names)

	seal, ok := LookupPreset("official seal")
	require.True(t, ok)
	cfg := DefaultConfig()
	cfg.Kind = KindImage
	cfg = seal.Patch.Apply(cfg)
	assert.Equal(t, KindText, cfg.Kind)
	assert.Equal(t, ShapeDoubleCircle, cfg.Frame.Shape)
	assert.Equal(t, "#DC2626", cfg.Frame.Color)
	assert.Equal(t, 4.0, cfg.Frame.Width)
	assert.Equal(t, 40.0, cfg.Frame.Padding)
	assert.Equal(t, 95.0, cfg.Opacity)

	// presets without a frame leave border settings alone
	minimal, ok := LookupPreset("Minimal")
	require.True(t, ok)
	cfg = minimal.Patch.Apply(cfg)
	assert.Equal(t, ShapeNone, cfg.Frame.Shape)
	assert.Equal(t, 4.0, cfg.Frame.Width)
	assert.Equal(t, "400", cfg.Text.FontWeight)

	_, ok = LookupPreset("Grunge")
	assert.False(t, ok)
}

func TestSuggestion(t *testing.T) {
	shape := ShapeCircle
	empty := ""
	zero := 0.0
	width := 3.0
	p := StylePatch{Shape: &shape, Color: &empty, BorderWidth: &width, LetterSpacing: &zero}.Suggestion()

	require.NotNil(t, p.Padding)
	assert.Equal(t, 40.0, *p.Padding)
	assert.Nil(t, p.Color)
	assert.Nil(t, p.LetterSpacing)

	cfg := p.Apply(DefaultConfig())
	assert.Equal(t, ShapeCircle, cfg.Frame.Shape)
	assert.Equal(t, 3.0, cfg.Frame.Width)
	assert.Equal(t, "#ffffff", cfg.Text.Color)

	square := ShapeSquare
	assert.Nil(t, StylePatch{Shape: &square}.Suggestion().Padding)
}

func TestConfigVisible(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Visible())
	assert.Equal(t, 3, cfg.Density())

	cfg.TileDensity = 0
	assert.Equal(t, 1, cfg.Density())

	cfg.Kind = KindImage
	assert.False(t, cfg.Visible())
}
