package watermark

import (
	"image"
	"io"
	"log"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"cleanlens/pkg/geom"
	"cleanlens/pkg/imageio"
)

// Renderer draws watermarks. The zero value uses the built-in fonts.
type Renderer struct {
	Fonts *FontBook
}

func (r *Renderer) fonts() *FontBook {
	if r == nil || r.Fonts == nil {
		return defaultFonts
	}
	return r.Fonts
}

// Draw composites cfg onto dst. All sizes are derived from the width of dst,
// so drawing the same config onto rasters of different resolution differs
// only in scale. Invisible configs and empty rasters draw nothing.
func (r *Renderer) Draw(dst draw.Image, cfg Config) {
	b := dst.Bounds()
	m := geom.NewMapper(b.Dx(), b.Dy())
	if m.Empty() || !cfg.Visible() {
		return
	}

	var (
		s  stamp
		ok bool
	)
	switch cfg.Kind {
	case KindText:
		s, ok = r.textStamp(cfg, m)
	case KindImage:
		s, ok = r.logoStamp(cfg, m)
	}
	if !ok {
		return
	}
	tight, ok := tightAlphaBounds(s.img)
	if !ok {
		return
	}
	s.img = s.img.SubImage(tight).(*image.NRGBA)
	setOpacity(s.img, cfg.Opacity/100)

	shift := geom.Vec{X: float64(b.Min.X), Y: float64(b.Min.Y)}
	for _, a := range Anchors(cfg, b.Dx(), b.Dy()) {
		place(dst, s, a.Add(shift), cfg.Rotation)
	}
}

// Render returns a copy of src with cfg drawn on it using the built-in fonts.
func Render(src image.Image, cfg Config) *image.NRGBA {
	out := imaging.Clone(src)
	(&Renderer{}).Draw(out, cfg)
	return out
}

// Anchors returns the pixel centre of every watermark instance drawn on a
// w x h canvas: one for a single placement, density² for a tiled one. Tiles
// are listed column by column; odd rows are shifted right by half a cell.
func Anchors(cfg Config, w, h int) []geom.Vec {
	m := geom.NewMapper(w, h)
	if m.Empty() {
		return nil
	}
	if !cfg.Tiled {
		return []geom.Vec{{X: m.X(cfg.X), Y: m.Y(cfg.Y)}}
	}

	d := cfg.Density()
	stepX := float64(m.Width) / float64(d)
	stepY := float64(m.Height) / float64(d)
	out := make([]geom.Vec, 0, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			off := 0.0
			if j%2 == 1 {
				off = stepX / 2
			}
			out = append(out, geom.Vec{
				X: float64(i)*stepX + stepX/2 + off,
				Y: float64(j)*stepY + stepY/2,
			})
		}
	}
	return out
}

// LoadLogo decodes a logo raster. A logo that fails to decode is logged and
// reported so the caller can leave the watermark without content.
func LoadLogo(r io.Reader) (image.Image, error) {
	img, err := imageio.Decode(r)
	if err != nil {
		log.Printf("failed to decode logo: %v", err)
		return nil, err
	}
	return img, nil
}
