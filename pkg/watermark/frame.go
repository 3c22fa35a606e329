package watermark

import (
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"cleanlens/internal/stroke"
	"cleanlens/pkg/geom"
)

// Frame is a shape outline in local coordinates centred on the framed
// content. All lengths are in target pixels.
type Frame struct {
	Shape  Shape
	Width  float64 // rectangle or bracket region width
	Height float64 // rectangle or bracket region height
	Radius float64 // circle radius, or corner radius of ROUNDED
	Inner  float64 // inner circle radius of DOUBLE_CIRCLE
	Arm    float64 // bracket arm length
	Line   float64 // stroke width
}

// NewFrame computes the outline framing content of the given measured size.
// padding and line are already scaled; factor is the mapper scale factor,
// used for the fixed seal gap and bracket arm lengths.
func NewFrame(shape Shape, content geom.Size, padding, line, factor float64) Frame {
	f := Frame{Shape: shape, Line: line}
	switch shape {
	case ShapeCircle, ShapeDoubleCircle:
		f.Radius = math.Max(content.W, content.H*1.5)/2 + padding
		if shape == ShapeDoubleCircle {
			f.Inner = f.Radius - 6*factor
		}
	case ShapeSquare:
		f.Width = content.W + 3*padding
		f.Height = content.H + 2*padding
	case ShapeRounded:
		f.Width = content.W + 3*padding
		f.Height = content.H + 2*padding
		f.Radius = f.Height / 2
	case ShapeBrackets:
		f.Width = content.W + 2*padding
		f.Height = content.H + padding
		f.Arm = 20 * factor
	default:
		f.Shape = ShapeNone
	}
	return f
}

// Extent returns the half width and half height of the stroked outline.
func (f Frame) Extent() geom.Size {
	hw := f.Line / 2
	switch f.Shape {
	case ShapeCircle, ShapeDoubleCircle:
		return geom.Size{W: f.Radius + hw, H: f.Radius + hw}
	case ShapeSquare, ShapeRounded, ShapeBrackets:
		return geom.Size{W: f.Width/2 + hw, H: f.Height/2 + hw}
	default:
		return geom.Size{}
	}
}

// Draw strokes the outline centred at origin.
func (f Frame) Draw(dst draw.Image, origin geom.Vec, col color.Color) {
	if f.Line <= 0 {
		return
	}
	st := stroke.Style{Width: f.Line, Cap: stroke.CapButt, Color: col}
	switch f.Shape {
	case ShapeNone:
	case ShapeCircle:
		stroke.Circle(dst, origin, f.Radius, st)
	case ShapeDoubleCircle:
		stroke.Circle(dst, origin, f.Radius, st)
		stroke.Circle(dst, origin, f.Inner, st)
	case ShapeSquare:
		stroke.RoundedRect(dst, origin, f.Width, f.Height, 0, st)
	case ShapeRounded:
		stroke.RoundedRect(dst, origin, f.Width, f.Height, f.Radius, st)
	case ShapeBrackets:
		w, h, a := f.Width/2, f.Height/2, f.Arm
		left := []geom.Vec{{X: -w + a, Y: -h}, {X: -w, Y: -h}, {X: -w, Y: h}, {X: -w + a, Y: h}}
		right := []geom.Vec{{X: w - a, Y: -h}, {X: w, Y: -h}, {X: w, Y: h}, {X: w - a, Y: h}}
		stroke.Polyline(dst, offset(left, origin), false, st)
		stroke.Polyline(dst, offset(right, origin), false, st)
	}
}

func offset(pts []geom.Vec, o geom.Vec) []geom.Vec {
	out := make([]geom.Vec, len(pts))
	for i, p := range pts {
		out[i] = p.Add(o)
	}
	return out
}
