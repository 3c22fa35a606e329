package workspace

import (
	"image"

	"github.com/disintegration/imaging"

	"cleanlens/pkg/geom"
	"cleanlens/pkg/mask"
	"cleanlens/pkg/watermark"
)

// drag is a watermark repositioning gesture in progress.
type drag struct {
	image     string
	pointer   geom.Vec  // pointer position at the start, in container pixels
	container geom.Size // displayed size of the image
	anchor    geom.Point
}

// BeginStroke starts painting a removal stroke on the selected image at p.
func (w *Workspace) BeginStroke(p geom.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.findLocked(w.selected) == nil {
		return ErrNoImage
	}
	if w.drag != nil {
		return ErrGestureActive
	}
	w.recorder.Begin(p)
	w.strokeFor = w.selected
	return nil
}

// ExtendStroke adds p to the stroke in progress and draws the new segment on
// the overlay. It is a no-op when no stroke is in progress.
func (w *Workspace) ExtendStroke(p geom.Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, ok := w.recorder.Extend(p)
	if !ok {
		return
	}
	if w.overlay != nil && w.overlayID == w.strokeFor {
		w.overlay.Extend(prev, p, w.recorder.Brush)
	}
}

// EndStroke commits the stroke in progress to the image it was started on.
// It reports whether a stroke was committed.
func (w *Workspace) EndStroke() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	path, ok := w.recorder.End()
	if !ok {
		return false
	}
	img := w.findLocked(w.strokeFor)
	w.strokeFor = ""
	if img == nil {
		return false
	}
	img.Masks = append(img.Masks, path)
	w.refreshOverlayLocked()
	return true
}

// CancelStroke abandons the stroke in progress.
func (w *Workspace) CancelStroke() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recorder.Cancel()
	w.strokeFor = ""
	w.refreshOverlayLocked()
}

// SetBrush sets the size of strokes committed from now on, in percent of the
// image width.
func (w *Workspace) SetBrush(size float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recorder.Brush = size
}

// ClearMasks removes every stroke of the selected image.
func (w *Workspace) ClearMasks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	img := w.findLocked(w.selected)
	if img == nil {
		return ErrNoImage
	}
	img.Masks = nil
	img.maskEpoch++
	w.refreshOverlayLocked()
	return nil
}

// Overlay returns a copy of the translucent stroke overlay of the selected
// image, including the segments of a stroke in progress.
func (w *Workspace) Overlay() (*image.NRGBA, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.overlay == nil {
		return nil, ErrNoImage
	}
	return imaging.Clone(w.overlay.Image()), nil
}

// refreshOverlayLocked redraws the overlay from the selected image's
// committed strokes.
func (w *Workspace) refreshOverlayLocked() {
	img := w.findLocked(w.selected)
	if img == nil {
		w.overlay, w.overlayID = nil, ""
		return
	}
	if w.overlay == nil || w.overlayID != img.ID {
		b := img.Working().Bounds()
		w.overlay = mask.NewOverlay(b.Dx(), b.Dy())
		w.overlayID = img.ID
	}
	w.overlay.Redraw(img.Masks)
}

// BeginDrag starts moving the selected watermark. pointer is the pointer
// position and container the displayed size of the image, both in the same
// screen units.
func (w *Workspace) BeginDrag(pointer geom.Vec, container geom.Size) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	img := w.findLocked(w.selected)
	if img == nil {
		return ErrNoImage
	}
	if w.drag != nil || w.recorder.State() == mask.Drawing {
		return ErrGestureActive
	}
	w.drag = &drag{
		image:     img.ID,
		pointer:   pointer,
		container: container,
		anchor:    geom.Point{X: img.Watermark.X, Y: img.Watermark.Y},
	}
	return nil
}

// DragTo moves the watermark by the pointer's offset from where the drag
// started, converted to percent of the container. It is a no-op without an
// active drag or for a degenerate container.
func (w *Workspace) DragTo(pointer geom.Vec) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.drag
	if d == nil || d.container.W <= 0 || d.container.H <= 0 {
		return nil
	}
	if d.image != w.selected {
		w.drag = nil
		return ErrNotFound
	}
	delta := pointer.Sub(d.pointer)
	x := geom.ClampPercent(d.anchor.X + delta.X/d.container.W*100)
	y := geom.ClampPercent(d.anchor.Y + delta.Y/d.container.H*100)
	return w.updateWatermarkLocked(func(c *watermark.Config) { c.X, c.Y = x, y })
}

// EndDrag finishes the drag gesture.
func (w *Workspace) EndDrag() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drag = nil
}

// SetPosition moves the selected watermark anchor. It fails while a drag
// gesture owns the position.
func (w *Workspace) SetPosition(p geom.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.drag != nil {
		return ErrGestureActive
	}
	return w.updateWatermarkLocked(func(c *watermark.Config) {
		c.X, c.Y = geom.ClampPercent(p.X), geom.ClampPercent(p.Y)
	})
}
