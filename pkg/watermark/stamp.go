package watermark

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"cleanlens/pkg/geom"
)

// stamp is one fully rendered, unrotated watermark instance. The content
// centre sits at origin in img coordinates.
type stamp struct {
	img    *image.NRGBA
	origin geom.Vec
}

var (
	defaultFill   = color.NRGBA{255, 255, 255, 255}
	defaultShadow = color.NRGBA{0, 0, 0, 0}
)

// newCanvas allocates a transparent stamp large enough for content reaching
// half.W and half.H from the centre.
func newCanvas(half geom.Size) stamp {
	hw := int(math.Ceil(half.W)) + 2
	hh := int(math.Ceil(half.H)) + 2
	return stamp{
		img:    image.NewNRGBA(image.Rect(0, 0, 2*hw, 2*hh)),
		origin: geom.Vec{X: float64(hw), Y: float64(hh)},
	}
}

// textStamp renders the TEXT variant of cfg at the scale of m.
func (r *Renderer) textStamp(cfg Config, m geom.Mapper) (stamp, bool) {
	k := m.Factor()
	size := math.Max(12, cfg.Size*k)
	face := r.fonts().Face(cfg.Text.FontFamily, cfg.Text.FontWeight, size)
	defer face.Close()

	text := norm.NFC.String(cfg.Text.Text)
	runes := []rune(text)
	spacing := cfg.Text.LetterSpacing * k
	textWidth := fixedToFloat(font.MeasureString(face, text))
	drawnWidth := textWidth + spacing*float64(len(runes))
	if drawnWidth <= 0 {
		return stamp{}, false
	}

	met := face.Metrics()
	ascent, descent := fixedToFloat(met.Ascent), fixedToFloat(met.Descent)
	frame := cfg.frame(geom.Size{W: textWidth, H: size}, k)

	sigma := cfg.Text.ShadowBlur * k / 2
	margin := size / 2
	if sigma > 0 {
		margin += 3 * sigma
	}
	ext := frame.Extent()
	s := newCanvas(geom.Size{
		W: math.Max(ext.W, drawnWidth/2+margin),
		H: math.Max(ext.H, (ascent+descent)/2+margin),
	})

	frame.Draw(s.img, s.origin, colorOr(cfg.Frame.Color, defaultFill))

	// glyph coverage, centred horizontally with a middle baseline
	glyphs := image.NewAlpha(s.img.Bounds())
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.Opaque,
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(s.origin.X - drawnWidth/2),
			Y: floatToFixed(s.origin.Y + (ascent-descent)/2),
		},
	}
	prev := rune(-1)
	for _, c := range runes {
		if prev >= 0 {
			d.Dot.X += face.Kern(prev, c)
		}
		d.DrawString(string(c))
		d.Dot.X += floatToFixed(spacing)
		prev = c
	}

	b := s.img.Bounds()
	if sigma > 0 {
		shadow := imaging.Blur(glyphs, sigma)
		draw.DrawMask(s.img, b, image.NewUniform(colorOr(cfg.Text.ShadowColor, defaultShadow)), image.Point{}, shadow, image.Point{}, draw.Over)
	}
	draw.DrawMask(s.img, b, image.NewUniform(colorOr(cfg.Text.Color, defaultFill)), image.Point{}, glyphs, image.Point{}, draw.Over)
	return s, true
}

// logoStamp renders the IMAGE variant of cfg at the scale of m.
func (r *Renderer) logoStamp(cfg Config, m geom.Mapper) (stamp, bool) {
	logo := cfg.Logo.Image
	lb := logo.Bounds()
	k := m.Factor()
	w := m.LogoWidth(cfg.Size)
	h := w * float64(lb.Dy()) / float64(lb.Dx())
	if w <= 0 || h <= 0 {
		return stamp{}, false
	}

	frame := cfg.frame(geom.Size{W: w, H: h}, k)
	ext := frame.Extent()
	s := newCanvas(geom.Size{W: math.Max(ext.W, w/2), H: math.Max(ext.H, h/2)})

	frame.Draw(s.img, s.origin, colorOr(cfg.Frame.Color, defaultFill))

	sx, sy := w/float64(lb.Dx()), h/float64(lb.Dy())
	s2d := f64.Aff3{
		sx, 0, s.origin.X - w/2 - sx*float64(lb.Min.X),
		0, sy, s.origin.Y - h/2 - sy*float64(lb.Min.Y),
	}
	draw.CatmullRom.Transform(s.img, s2d, logo, lb, draw.Over, nil)
	return s, true
}

// defaultPadding replaces an unset (zero) frame padding.
const defaultPadding = 20

// frame returns the frame configured in cfg around content, or a NONE frame
// when no visible border is set.
func (cfg Config) frame(content geom.Size, k float64) Frame {
	if cfg.Frame.Shape == ShapeNone || cfg.Frame.Width <= 0 {
		return Frame{Shape: ShapeNone}
	}
	padding := cfg.Frame.Padding
	if padding == 0 {
		padding = defaultPadding
	}
	return NewFrame(cfg.Frame.Shape, content, padding*k, cfg.Frame.Width*k, k)
}

// setOpacity scales the alpha channel of img in place. opacity is clamped
// to [0, 1].
func setOpacity(img *image.NRGBA, opacity float64) {
	opacity = math.Min(1, math.Max(0, opacity))
	if opacity == 1 {
		return
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * opacity))
	}
}

// place draws s onto dst with its origin at anchor, rotated clockwise by
// deg degrees.
func place(dst draw.Image, s stamp, anchor geom.Vec, deg float64) {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cx, cy := s.origin.X, s.origin.Y
	s2d := f64.Aff3{
		cos, -sin, anchor.X - cos*cx + sin*cy,
		sin, cos, anchor.Y - sin*cx - cos*cy,
	}
	draw.BiLinear.Transform(dst, s2d, s.img, s.img.Bounds(), draw.Over, nil)
}

// tightAlphaBounds returns the smallest rectangle holding every pixel of img
// with non-zero alpha.
func tightAlphaBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			minX = min(minX, b.Min.X+x)
			maxX = max(maxX, b.Min.X+x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
