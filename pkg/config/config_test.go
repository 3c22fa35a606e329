package config

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanlens/pkg/geom"
	"cleanlens/pkg/watermark"
	"cleanlens/pkg/workspace"
)

const sample = `
watermark:
  text:
    text: "© Studio"
  frame:
    shape: DOUBLE_CIRCLE
    width: 3
  opacity: 70
  tiled: true
  tile_density: 4
adjust:
  brightness: 120
  sepia: 250
masks:
  - size: 8
    points:
      - {x: 10, y: 10}
      - {x: 20, y: 30}
target: date stamp
font_dirs: [fonts]
export:
  quality: 80
  background: white
  stagger: 250ms
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "© Studio", c.Watermark.Text.Text)
	assert.Equal(t, watermark.ShapeDoubleCircle, c.Watermark.Frame.Shape)
	assert.Equal(t, 3.0, c.Watermark.Frame.Width)
	assert.Equal(t, 70.0, c.Watermark.Opacity)
	assert.Equal(t, 4, c.Watermark.TileDensity)
	assert.True(t, c.Watermark.Tiled)

	// unset fields keep their defaults
	def := watermark.DefaultConfig()
	assert.Equal(t, watermark.KindText, c.Watermark.Kind)
	assert.Equal(t, def.Text.FontFamily, c.Watermark.Text.FontFamily)
	assert.Equal(t, def.Frame.Padding, c.Watermark.Frame.Padding)
	assert.Equal(t, 100.0, c.Adjust.Contrast)

	assert.Equal(t, 120.0, c.Adjust.Brightness)
	assert.Equal(t, 100.0, c.Adjust.Sepia)

	require.Len(t, c.Masks, 1)
	assert.Equal(t, 8.0, c.Masks[0].Size)
	assert.Equal(t, []geom.Point{{X: 10, Y: 10}, {X: 20, Y: 30}}, c.Masks[0].Points)
	assert.Equal(t, "date stamp", c.Target)

	assert.Equal(t, 80, c.Export.Quality)
	assert.Equal(t, 250*time.Millisecond, c.Export.Stagger)
	assert.Equal(t, 1000, c.Export.PreviewSize)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, c.ExportOptions().Background)
}

func TestParseInvalid(t *testing.T) {
	test := []struct {
		name string
		yaml string
	}{
		{"syntax", "watermark: ["},
		{"kind", "watermark: {kind: VIDEO}"},
		{"quality", "export: {quality: 0}"},
		{"background", "export: {background: nope}"},
		{"stagger", "export: {stagger: -1s}"},
		{"preset", "preset: Gothic"},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("preset: Gothic"))
	assert.ErrorIs(t, err, workspace.ErrUnknownPreset)
}

func TestDefault(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.NoError(t, c.Validate())
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	logo := image.NewNRGBA(image.Rect(0, 0, 6, 3))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, logo))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), buf.Bytes(), 0o644))

	yml := "watermark:\n  kind: IMAGE\n  logo: {path: logo.png}\nfont_dirs: [fonts, /abs]\n"
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "fonts"), "/abs"}, c.FontDirs)
	assert.Equal(t, filepath.Join(dir, "logo.png"), c.Watermark.Logo.Path)
	require.NotNil(t, c.Watermark.Logo.Image)
	assert.Equal(t, logo.Bounds(), c.Watermark.Logo.Image.Bounds())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watermark: {logo: {path: gone.png}}"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	ws := workspace.New(c.Options())
	_, err = ws.Add("a.png", image.NewNRGBA(image.Rect(0, 0, 40, 20)))
	require.NoError(t, err)
	require.NoError(t, c.Apply(ws))

	sel, err := ws.Selected()
	require.NoError(t, err)
	assert.Equal(t, c.Watermark, sel.Watermark)
	assert.Equal(t, c.Adjust, sel.Adjust)
	assert.Equal(t, "date stamp", sel.Target)
	require.Len(t, sel.Masks, 1)
	assert.Equal(t, c.Masks[0], sel.Masks[0])
}

func TestApplyPreset(t *testing.T) {
	c, err := Parse([]byte("preset: minimal"))
	require.NoError(t, err)

	ws := workspace.New(c.Options())
	_, err = ws.Add("a.png", image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	require.NoError(t, c.Apply(ws))

	p, ok := watermark.LookupPreset("Minimal")
	require.True(t, ok)
	sel, err := ws.Selected()
	require.NoError(t, err)
	assert.Equal(t, p.Patch.Apply(watermark.DefaultConfig()), sel.Watermark)
}
