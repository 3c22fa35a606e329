package mask

import "cleanlens/pkg/geom"

// State is the drawing state of a Recorder.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "DRAWING"
	}
	return "IDLE"
}

// Recorder buffers the points of the stroke being painted. It is not safe
// for concurrent use; callers own one Recorder per gesture surface.
type Recorder struct {
	// Brush is the size stored with committed strokes. Zero means
	// DefaultBrush.
	Brush float64

	state State
	buf   []geom.Point
}

// State reports whether a stroke is in progress.
func (r *Recorder) State() State {
	return r.state
}

// Begin starts a new stroke at p, discarding any unfinished one.
func (r *Recorder) Begin(p geom.Point) {
	r.state = Drawing
	r.buf = []geom.Point{p}
}

// Extend appends p to the stroke in progress and returns the previous point,
// so the caller can draw just the new segment. It is a no-op when idle.
func (r *Recorder) Extend(p geom.Point) (prev geom.Point, ok bool) {
	if r.state != Drawing {
		return geom.Point{}, false
	}
	prev = r.buf[len(r.buf)-1]
	r.buf = append(r.buf, p)
	return prev, true
}

// End finishes the stroke in progress. It returns the committed path and
// true when the stroke holds at least one point.
func (r *Recorder) End() (Path, bool) {
	if r.state != Drawing {
		return Path{}, false
	}
	pts := r.buf
	r.state, r.buf = Idle, nil
	if len(pts) == 0 {
		return Path{}, false
	}
	size := r.Brush
	if size <= 0 {
		size = DefaultBrush
	}
	return Path{Points: pts, Size: size}, true
}

// Cancel abandons the stroke in progress.
func (r *Recorder) Cancel() {
	r.state, r.buf = Idle, nil
}

// Points returns a copy of the points buffered so far.
func (r *Recorder) Points() []geom.Point {
	return append([]geom.Point(nil), r.buf...)
}
