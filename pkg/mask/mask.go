// Package mask records free-hand removal strokes and rasterizes them, both
// as a translucent overlay for feedback and burned into a copy of the image
// for the repair service.
package mask

import (
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"

	"cleanlens/internal/stroke"
	"cleanlens/pkg/geom"
)

// DefaultBrush is the brush size of new strokes, in percent of the canvas
// width.
const DefaultBrush = 5.0

// BurnColor marks removal regions on the image sent for repair.
var BurnColor = color.NRGBA{255, 0, 0, 255}

// Path is one committed stroke.
type Path struct {
	Points []geom.Point `yaml:"points"`
	Size   float64      `yaml:"size"`
}

// Brush returns the brush size of p, DefaultBrush when unset.
func (p Path) Brush() float64 {
	if p.Size <= 0 {
		return DefaultBrush
	}
	return p.Size
}

// Clone returns a deep copy of paths.
func Clone(paths []Path) []Path {
	if paths == nil {
		return nil
	}
	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = Path{Points: append([]geom.Point(nil), p.Points...), Size: p.Size}
	}
	return out
}

// Draw strokes every path onto dst with round caps and joins, scaled to the
// size of dst.
func Draw(dst *image.NRGBA, paths []Path, col color.Color) {
	b := dst.Bounds()
	m := geom.NewMapper(b.Dx(), b.Dy())
	if m.Empty() {
		return
	}
	origin := geom.Vec{X: float64(b.Min.X), Y: float64(b.Min.Y)}
	for _, p := range paths {
		if len(p.Points) == 0 {
			log.Printf("skipping empty mask stroke")
			continue
		}
		pts := make([]geom.Vec, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = m.Point(pt).Add(origin)
		}
		stroke.Polyline(dst, pts, false, stroke.Style{
			Width: m.Brush(p.Brush()),
			Cap:   stroke.CapRound,
			Color: col,
		})
	}
}

// Burn returns a copy of src at its native resolution with every path
// stroked in opaque BurnColor.
func Burn(src image.Image, paths []Path) *image.NRGBA {
	out := imaging.Clone(src)
	Draw(out, paths, BurnColor)
	return out
}
