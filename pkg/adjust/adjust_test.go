package adjust

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func TestApplyNeutralIsIdentity(t *testing.T) {
	src := gradient(64, 48)
	out := Apply(src, Neutral())

	require.Equal(t, src.Bounds(), out.Bounds())
	assert.Equal(t, src.Pix, out.Pix)
	assert.True(t, Neutral().IsNeutral())
}

func TestApply(t *testing.T) {
	grey := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range grey.Pix {
		grey.Pix[i] = 100
	}
	for i := 3; i < len(grey.Pix); i += 4 {
		grey.Pix[i] = 255
	}

	test := []struct {
		name string
		cfg  Config
		want color.NRGBA
	}{
		{"brightness doubles", Config{Brightness: 200, Contrast: 100, Saturation: 100}, color.NRGBA{200, 200, 200, 255}},
		{"brightness zero is black", Config{Brightness: 0, Contrast: 100, Saturation: 100}, color.NRGBA{0, 0, 0, 255}},
		{"contrast zero is mid grey", Config{Brightness: 100, Contrast: 0, Saturation: 100}, color.NRGBA{128, 128, 128, 255}},
		{"saturation leaves grey alone", Config{Brightness: 100, Contrast: 100, Saturation: 0}, color.NRGBA{100, 100, 100, 255}},
		{"blur of flat image is flat", Config{Brightness: 100, Contrast: 100, Saturation: 100, Blur: 3}, color.NRGBA{100, 100, 100, 255}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			out := Apply(grey, tt.cfg)
			got := out.NRGBAAt(1, 1)
			assert.InDelta(t, tt.want.R, got.R, 1)
			assert.InDelta(t, tt.want.G, got.G, 1)
			assert.InDelta(t, tt.want.B, got.B, 1)
			assert.Equal(t, tt.want.A, got.A)
		})
	}
}

func TestApplyOrder(t *testing.T) {
	px := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	px.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	// brightness first clips at white, then contrast pushes it out further
	out := Apply(px, Config{Brightness: 200, Contrast: 50, Saturation: 100})
	// (1.0-0.5)*0.5+0.5 = 0.75
	assert.InDelta(t, 191, int(out.NRGBAAt(0, 0).R), 1)
}

func TestSepia(t *testing.T) {
	px := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	px.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 255, A: 255})

	out := Apply(px, Config{Brightness: 100, Contrast: 100, Saturation: 100, Sepia: 100})
	got := out.NRGBAAt(0, 0)
	assert.InDelta(t, 48, int(got.R), 1)
	assert.InDelta(t, 43, int(got.G), 1)
	assert.InDelta(t, 33, int(got.B), 1)
}

func TestClamp(t *testing.T) {
	c := Config{Brightness: 250, Contrast: -5, Saturation: 100, Blur: 30, Sepia: 150}.Clamp()
	assert.Equal(t, Config{Brightness: 200, Contrast: 0, Saturation: 100, Blur: 10, Sepia: 100}, c)
}

func TestCSSFilter(t *testing.T) {
	assert.Equal(t,
		"brightness(110%) contrast(90%) saturate(100%) blur(1.5px) sepia(20%)",
		Config{Brightness: 110, Contrast: 90, Saturation: 100, Blur: 1.5, Sepia: 20}.CSSFilter())
}
