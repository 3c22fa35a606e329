package mask

import (
	"image"
	"image/color"
	"math"

	"cleanlens/internal/stroke"
	"cleanlens/pkg/geom"
)

// OverlayWidth is the fixed internal width of the feedback overlay.
const OverlayWidth = 1000

// OverlayColor paints strokes on the overlay.
var OverlayColor = color.NRGBA{239, 68, 68, 153}

// Overlay is the translucent stroke layer shown above the image while
// painting. Its height follows the aspect ratio of the image.
type Overlay struct {
	img *image.NRGBA
}

// NewOverlay returns an empty overlay for an image of w x h pixels.
func NewOverlay(w, h int) *Overlay {
	aspect := 1.0
	if w > 0 && h > 0 {
		aspect = float64(h) / float64(w)
	}
	oh := max(1, int(math.Round(OverlayWidth*aspect)))
	return &Overlay{img: image.NewNRGBA(image.Rect(0, 0, OverlayWidth, oh))}
}

// Image returns the overlay raster.
func (o *Overlay) Image() *image.NRGBA {
	return o.img
}

// Redraw clears the overlay and draws all committed paths.
func (o *Overlay) Redraw(paths []Path) {
	clear(o.img.Pix)
	Draw(o.img, paths, OverlayColor)
}

// Extend draws the segment from prev to p of a stroke in progress.
func (o *Overlay) Extend(prev, p geom.Point, size float64) {
	if size <= 0 {
		size = DefaultBrush
	}
	b := o.img.Bounds()
	m := geom.NewMapper(b.Dx(), b.Dy())
	stroke.Polyline(o.img, []geom.Vec{m.Point(prev), m.Point(p)}, false, stroke.Style{
		Width: m.Brush(size),
		Cap:   stroke.CapRound,
		Color: OverlayColor,
	})
}
