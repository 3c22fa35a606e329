// Package stroke rasterizes anti-aliased outlines: polylines with round joins,
// circles and (rounded) rectangles.
//
// Every outline is turned into a set of closed polygons whose union is the
// stroked area, rasterized once into a coverage mask and composited with a
// single source-over pass, so overlapping parts of one stroke never blend
// twice.
package stroke

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"cleanlens/pkg/geom"
)

// Cap is the shape drawn at the open ends of a polyline.
type Cap int

const (
	CapButt Cap = iota
	CapRound
)

// Style describes how an outline is painted.
type Style struct {
	Width float64
	Cap   Cap
	Color color.Color
}

// chord tolerance in pixels when approximating arcs
const tolerance = 0.2

type polygon []geom.Vec

// Polyline strokes the points in order with round joins. A single point is
// drawn as a dot when the cap is round.
func Polyline(dst draw.Image, pts []geom.Vec, closed bool, st Style) {
	hw := st.Width / 2
	if hw <= 0 || len(pts) == 0 {
		return
	}
	pts = dedupe(pts)
	if closed && len(pts) > 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}

	var polys []polygon
	if len(pts) == 1 {
		if st.Cap == CapRound {
			polys = append(polys, disc(pts[0], hw))
		}
		fill(dst, polys, st.Color)
		return
	}

	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	for i := 0; i < n; i++ {
		polys = append(polys, segment(pts[i], pts[(i+1)%len(pts)], hw))
	}
	for i, p := range pts {
		end := i == 0 || i == len(pts)-1
		if end && !closed && st.Cap != CapRound {
			continue
		}
		polys = append(polys, disc(p, hw))
	}
	fill(dst, polys, st.Color)
}

// Circle strokes a circle of radius r centred at c.
func Circle(dst draw.Image, c geom.Vec, r float64, st Style) {
	hw := st.Width / 2
	if hw <= 0 || r <= 0 {
		return
	}
	polys := []polygon{disc(c, r+hw)}
	if inner := r - hw; inner > 0 {
		polys = append(polys, reverse(disc(c, inner)))
	}
	fill(dst, polys, st.Color)
}

// RoundedRect strokes a w x h rectangle centred at c with corner radius r.
// Corners are joined round, so r == 0 still yields softly rounded outer
// corners of radius Width/2.
func RoundedRect(dst draw.Image, c geom.Vec, w, h, r float64, st Style) {
	hw := st.Width / 2
	if hw <= 0 || w < 0 || h < 0 {
		return
	}
	polys := []polygon{roundedRect(c, w+st.Width, h+st.Width, r+hw)}
	if iw, ih := w-st.Width, h-st.Width; iw > 0 && ih > 0 {
		polys = append(polys, reverse(roundedRect(c, iw, ih, math.Max(r-hw, 0))))
	}
	fill(dst, polys, st.Color)
}

func fill(dst draw.Image, polys []polygon, col color.Color) {
	if len(polys) == 0 || col == nil {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, p := range poly {
			minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
			maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 0) || math.IsNaN(minX) || math.IsNaN(maxX) {
		return
	}
	r := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, r, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

// segment returns the quad covering p0-p1 widened by hw on each side.
func segment(p0, p1 geom.Vec, hw float64) polygon {
	d := p1.Sub(p0)
	l := d.Len()
	n := geom.Vec{X: -d.Y / l * hw, Y: d.X / l * hw}
	return orient(polygon{p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n)})
}

func disc(c geom.Vec, r float64) polygon {
	n := arcSegments(r)
	poly := make(polygon, n)
	for i := range poly {
		a := 2 * math.Pi * float64(i) / float64(n)
		poly[i] = geom.Vec{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return orient(poly)
}

func roundedRect(c geom.Vec, w, h, r float64) polygon {
	x0, y0 := c.X-w/2, c.Y-h/2
	x1, y1 := c.X+w/2, c.Y+h/2
	r = math.Min(math.Max(r, 0), math.Min(w, h)/2)
	if r == 0 {
		return orient(polygon{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}})
	}
	corners := []struct {
		c     geom.Vec
		start float64
	}{
		{geom.Vec{X: x0 + r, Y: y0 + r}, math.Pi},
		{geom.Vec{X: x1 - r, Y: y0 + r}, 1.5 * math.Pi},
		{geom.Vec{X: x1 - r, Y: y1 - r}, 0},
		{geom.Vec{X: x0 + r, Y: y1 - r}, 0.5 * math.Pi},
	}
	steps := max(arcSegments(r)/4, 2)
	poly := make(polygon, 0, 4*(steps+1))
	for _, k := range corners {
		for i := 0; i <= steps; i++ {
			a := k.start + 0.5*math.Pi*float64(i)/float64(steps)
			poly = append(poly, geom.Vec{X: k.c.X + r*math.Cos(a), Y: k.c.Y + r*math.Sin(a)})
		}
	}
	return orient(poly)
}

func arcSegments(r float64) int {
	if r <= tolerance {
		return 8
	}
	n := int(math.Ceil(math.Pi / math.Acos(1-tolerance/r)))
	return min(max(n, 8), 720)
}

// orient returns poly wound clockwise in screen space (positive shoelace
// area), the winding shared by every filled part so that overlaps union.
func orient(poly polygon) polygon {
	if area(poly) < 0 {
		return reverse(poly)
	}
	return poly
}

func reverse(poly polygon) polygon {
	out := make(polygon, len(poly))
	for i, p := range poly {
		out[len(poly)-1-i] = p
	}
	return out
}

func area(poly polygon) float64 {
	var s float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		s += p.X*q.Y - q.X*p.Y
	}
	return s / 2
}

func dedupe(pts []geom.Vec) []geom.Vec {
	out := make([]geom.Vec, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
