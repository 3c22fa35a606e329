// Package geom converts between normalized canvas coordinates and pixels.
//
// All stored geometry (watermark anchors, mask strokes) is kept as percent of
// the canvas extent and only turned into pixels at render time, against the
// raster actually being drawn. Size-like values are expressed relative to a
// 1000px wide reference canvas and scaled by the target width.
package geom

import "math"

const (
	// ReferenceWidth is the canvas width at which reference-relative sizes
	// are taken literally.
	ReferenceWidth = 1000.0

	// LogoWidthMultiplier maps the watermark size slider to a logo width so
	// that image watermarks read at a similar size to text ones.
	LogoWidthMultiplier = 4.0
)

// Point is a normalized coordinate, percent (0-100) of canvas width and height.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec is a position in pixels.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Size is a width/height pair in pixels.
type Size struct {
	W, H float64
}

// Mapper maps normalized values onto one target raster.
type Mapper struct {
	Width, Height int
}

// NewMapper returns a Mapper for a raster of w x h pixels. Negative extents
// are treated as zero.
func NewMapper(w, h int) Mapper {
	return Mapper{Width: max(w, 0), Height: max(h, 0)}
}

// Empty reports whether the target raster has no pixels.
func (m Mapper) Empty() bool {
	return m.Width <= 0 || m.Height <= 0
}

// Factor is the target width divided by ReferenceWidth.
func (m Mapper) Factor() float64 {
	if m.Width <= 0 {
		return 0
	}
	return float64(m.Width) / ReferenceWidth
}

// X converts a percent of the canvas width to pixels.
func (m Mapper) X(p float64) float64 {
	return p / 100 * float64(m.Width)
}

// Y converts a percent of the canvas height to pixels.
func (m Mapper) Y(p float64) float64 {
	return p / 100 * float64(m.Height)
}

// Point converts a normalized point to pixels.
func (m Mapper) Point(p Point) Vec {
	return Vec{X: m.X(p.X), Y: m.Y(p.Y)}
}

// Size scales a reference-relative size to the target raster.
func (m Mapper) Size(s float64) float64 {
	return s * m.Factor()
}

// LogoWidth is the drawn width of an image watermark of the given size.
func (m Mapper) LogoWidth(size float64) float64 {
	return size * LogoWidthMultiplier * m.Factor()
}

// Brush converts a brush size, given in percent of the canvas width, to a
// stroke width in pixels.
func (m Mapper) Brush(size float64) float64 {
	return size * float64(m.Width) / 100
}

// Normalize converts a pixel position inside box to a normalized point.
// A degenerate box yields the origin.
func Normalize(px, py float64, box Size) Point {
	if box.W <= 0 || box.H <= 0 {
		return Point{}
	}
	return Point{X: px / box.W * 100, Y: py / box.H * 100}
}

// ClampPercent limits v to [0, 100].
func ClampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
