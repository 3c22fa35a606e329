// Package adjust applies the tone and blur filters chosen for an image.
//
// The filters follow the CSS filter functions of the same names and are
// applied in a fixed order: brightness, contrast, saturation, blur, sepia.
package adjust

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// Config holds the five adjustment knobs of one image.
type Config struct {
	Brightness float64 `yaml:"brightness"` // 0-200, 100 is neutral
	Contrast   float64 `yaml:"contrast"`   // 0-200, 100 is neutral
	Saturation float64 `yaml:"saturation"` // 0-200, 100 is neutral
	Blur       float64 `yaml:"blur"`       // radius in pixels, 0-10
	Sepia      float64 `yaml:"sepia"`      // percent, 0-100
}

// Neutral returns the configuration that leaves an image untouched.
func Neutral() Config {
	return Config{Brightness: 100, Contrast: 100, Saturation: 100}
}

// IsNeutral reports whether applying c is a no-op.
func (c Config) IsNeutral() bool {
	return c.toneNeutral() && c.Blur <= 0 && c.Sepia <= 0
}

func (c Config) toneNeutral() bool {
	return c.Brightness == 100 && c.Contrast == 100 && c.Saturation == 100
}

// Clamp limits every knob to its documented range.
func (c Config) Clamp() Config {
	return Config{
		Brightness: clamp(c.Brightness, 0, 200),
		Contrast:   clamp(c.Contrast, 0, 200),
		Saturation: clamp(c.Saturation, 0, 200),
		Blur:       clamp(c.Blur, 0, 10),
		Sepia:      clamp(c.Sepia, 0, 100),
	}
}

// CSSFilter returns the equivalent CSS filter description, for surfaces that
// apply the filters themselves.
func (c Config) CSSFilter() string {
	return fmt.Sprintf("brightness(%g%%) contrast(%g%%) saturate(%g%%) blur(%gpx) sepia(%g%%)",
		c.Brightness, c.Contrast, c.Saturation, c.Blur, c.Sepia)
}

// Apply returns a filtered copy of img. Stages whose knob is neutral are
// skipped, so a neutral config returns a pixel-identical copy.
func Apply(img image.Image, c Config) *image.NRGBA {
	out := imaging.Clone(img)
	if !c.toneNeutral() {
		b := c.Brightness / 100
		k := c.Contrast / 100
		s := c.Saturation / 100
		saturate := blend(luminance, 1-s)
		out = imaging.AdjustFunc(out, func(px color.NRGBA) color.NRGBA {
			r, g, bl := unit(px.R), unit(px.G), unit(px.B)
			if b != 1 {
				r, g, bl = sat(r*b), sat(g*b), sat(bl*b)
			}
			if k != 1 {
				r, g, bl = sat((r-0.5)*k+0.5), sat((g-0.5)*k+0.5), sat((bl-0.5)*k+0.5)
			}
			if s != 1 {
				r, g, bl = saturate.apply(r, g, bl)
			}
			return color.NRGBA{R: byteOf(r), G: byteOf(g), B: byteOf(bl), A: px.A}
		})
	}
	if c.Blur > 0 {
		out = imaging.Blur(out, c.Blur)
	}
	if c.Sepia > 0 {
		sepia := blend(sepiaTone, math.Min(c.Sepia/100, 1))
		out = imaging.AdjustFunc(out, func(px color.NRGBA) color.NRGBA {
			r, g, b := sepia.apply(unit(px.R), unit(px.G), unit(px.B))
			return color.NRGBA{R: byteOf(r), G: byteOf(g), B: byteOf(b), A: px.A}
		})
	}
	return out
}

var (
	// luminance weights of the feColorMatrix saturate filter
	luminance = mat.NewDense(3, 3, []float64{
		0.213, 0.715, 0.072,
		0.213, 0.715, 0.072,
		0.213, 0.715, 0.072,
	})
	sepiaTone = mat.NewDense(3, 3, []float64{
		0.393, 0.769, 0.189,
		0.349, 0.686, 0.168,
		0.272, 0.534, 0.131,
	})
)

// colorMatrix is a 3x3 RGB transform in row-major order.
type colorMatrix [9]float64

// blend returns t*m + (1-t)*I.
func blend(m *mat.Dense, t float64) colorMatrix {
	var id, out mat.Dense
	id.Scale(1-t, identity3())
	out.Scale(t, m)
	out.Add(&out, &id)

	var cm colorMatrix
	copy(cm[:], out.RawMatrix().Data)
	return cm
}

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func (m colorMatrix) apply(r, g, b float64) (float64, float64, float64) {
	return sat(m[0]*r + m[1]*g + m[2]*b),
		sat(m[3]*r + m[4]*g + m[5]*b),
		sat(m[6]*r + m[7]*g + m[8]*b)
}

func unit(v uint8) float64 { return float64(v) / 255 }

func byteOf(v float64) uint8 { return uint8(math.Round(sat(v) * 255)) }

func sat(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
