// Package workspace owns the imported images and every edit applied to them:
// selection and sync mode, watermark and adjustment updates, mask and drag
// gestures, calls to the external services, preview and export.
//
// A Workspace is safe for concurrent use. Service calls run without holding
// the workspace lock; their results are installed only if the image they were
// computed for is still in the state it was when the call was dispatched.
package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"cleanlens/pkg/adjust"
	"cleanlens/pkg/imageio"
	"cleanlens/pkg/mask"
	"cleanlens/pkg/service"
	"cleanlens/pkg/watermark"
)

var (
	ErrNoImage        = errors.New("no image selected")
	ErrNotFound       = errors.New("image not found")
	ErrRepairInFlight = errors.New("repair already in progress")
	ErrGestureActive  = errors.New("another gesture is active")
	ErrStale          = errors.New("result is stale")
	ErrNoLogo         = errors.New("watermark has no logo")
	ErrUnknownPreset  = errors.New("unknown preset")
)

// Options configures a Workspace. Zero fields take the defaults below.
type Options struct {
	ThumbnailSize int                   // default 256
	PreviewSize   int                   // longest preview edge, default 1000
	Stagger       time.Duration         // pause between batch exports, default 800ms
	Export        imageio.ExportOptions // default JPEG 95 on black
	Fonts         *watermark.FontBook   // default built-in fonts

	Repairer          service.Repairer
	Detector          service.Detector
	BackgroundRemover service.BackgroundRemover
	StyleSuggester    service.StyleSuggester
	TextSuggester     service.TextSuggester
}

const (
	defaultThumbnailSize = 256
	defaultPreviewSize   = 1000
	defaultStagger       = 800 * time.Millisecond
)

// stamper draws a watermark onto a raster.
type stamper interface {
	Draw(dst draw.Image, cfg watermark.Config)
}

// Workspace is the owned collection of images plus the selection.
type Workspace struct {
	opt      Options
	renderer stamper

	mu       sync.Mutex
	images   []*Image
	selected string
	sync     bool

	recorder  mask.Recorder
	strokeFor string
	overlay   *mask.Overlay
	overlayID string
	drag      *drag
	repairing map[string]bool
}

// New returns an empty Workspace.
func New(opt Options) *Workspace {
	if opt.ThumbnailSize <= 0 {
		opt.ThumbnailSize = defaultThumbnailSize
	}
	if opt.PreviewSize <= 0 {
		opt.PreviewSize = defaultPreviewSize
	}
	if opt.Stagger <= 0 {
		opt.Stagger = defaultStagger
	}
	if opt.Export.Quality <= 0 {
		opt.Export = imageio.DefaultExportOptions()
	}
	return &Workspace{
		opt:       opt,
		renderer:  &watermark.Renderer{Fonts: opt.Fonts},
		repairing: make(map[string]bool),
	}
}

// Source is an encoded image to import.
type Source struct {
	Name string
	Data []byte
}

// Import decodes and adds srcs in order, returning the IDs of the images
// added. Sources that fail to decode are skipped and reported together in
// the returned error. Importing several files at once, or into a workspace
// that already holds images, turns sync mode on.
func (w *Workspace) Import(srcs ...Source) ([]string, error) {
	type decoded struct {
		src Source
		img image.Image
	}
	var (
		ok   []decoded
		errs []error
	)
	for _, src := range srcs {
		img, err := imageio.Decode(bytes.NewReader(src.Data))
		if err != nil {
			log.Printf("failed to decode %q: %v", src.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
			continue
		}
		ok = append(ok, decoded{src: src, img: img})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(srcs) > 1 || (len(srcs) > 0 && len(w.images) > 0) {
		w.sync = true
	}
	ids := make([]string, 0, len(ok))
	for _, d := range ok {
		ids = append(ids, w.addLocked(d.src.Name, imageio.MIMEType(d.src.Data), d.src.Data, d.img))
	}
	return ids, errors.Join(errs...)
}

// Add adds an already decoded raster and returns its ID.
func (w *Workspace) Add(name string, img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", imageio.ErrEmptyImage
	}
	data, err := imageio.EncodePNG(img)
	if err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addLocked(name, "image/png", data, img), nil
}

// addLocked appends a new image seeded with the selected image's settings,
// or the defaults when nothing is selected. The first image is selected.
func (w *Workspace) addLocked(name, mime string, data []byte, img image.Image) string {
	n := &Image{
		ID:        uuid.NewString(),
		Name:      name,
		MIMEType:  mime,
		Original:  img,
		Thumbnail: imageio.Thumbnail(img, w.opt.ThumbnailSize),
		Adjust:    adjust.Neutral(),
		Watermark: watermark.DefaultConfig(),
		data:      data,
	}
	if sel := w.findLocked(w.selected); sel != nil {
		n.Adjust = sel.Adjust
		n.Watermark = sel.Watermark
	}
	w.images = append(w.images, n)
	if w.selected == "" {
		w.selectLocked(n.ID)
	}
	return n.ID
}

// Images returns snapshots of all images in list order.
func (w *Workspace) Images() []Image {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Image, len(w.images))
	for i, img := range w.images {
		out[i] = img.snapshot()
	}
	return out
}

// Image returns a snapshot of the image with the given ID.
func (w *Workspace) Image(id string) (Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	img := w.findLocked(id)
	if img == nil {
		return Image{}, ErrNotFound
	}
	return img.snapshot(), nil
}

// Selected returns a snapshot of the selected image.
func (w *Workspace) Selected() (Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	img := w.findLocked(w.selected)
	if img == nil {
		return Image{}, ErrNoImage
	}
	return img.snapshot(), nil
}

// Select makes id the selected image. Gestures in progress are cancelled.
func (w *Workspace) Select(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.findLocked(id) == nil {
		return ErrNotFound
	}
	w.selectLocked(id)
	return nil
}

func (w *Workspace) selectLocked(id string) {
	if id != w.selected {
		w.recorder.Cancel()
		w.drag = nil
	}
	w.selected = id
	w.refreshOverlayLocked()
}

// Delete removes an image with its settings and masks. Deleting the
// selected image selects the first remaining one, or none.
func (w *Workspace) Delete(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, img := range w.images {
		if img.ID != id {
			continue
		}
		w.images = append(w.images[:i], w.images[i+1:]...)
		delete(w.repairing, id)
		if w.selected == id {
			next := ""
			if len(w.images) > 0 {
				next = w.images[0].ID
			}
			w.selectLocked(next)
		}
		return nil
	}
	return ErrNotFound
}

// SetSync turns sync mode on or off. In sync mode watermark and adjustment
// updates of the selected image are copied to every image.
func (w *Workspace) SetSync(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sync = on
}

// Sync reports whether sync mode is on.
func (w *Workspace) Sync() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sync
}

// UpdateWatermark edits the selected image's watermark.
func (w *Workspace) UpdateWatermark(fn func(*watermark.Config)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updateWatermarkLocked(fn)
}

func (w *Workspace) updateWatermarkLocked(fn func(*watermark.Config)) error {
	sel := w.findLocked(w.selected)
	if sel == nil {
		return ErrNoImage
	}
	w.updateWatermarkOfLocked(sel, fn)
	return nil
}

// updateWatermarkOfLocked edits the watermark of img and, in sync mode,
// copies the result to every image.
func (w *Workspace) updateWatermarkOfLocked(img *Image, fn func(*watermark.Config)) {
	fn(&img.Watermark)
	if w.sync {
		for _, other := range w.images {
			other.Watermark = img.Watermark
		}
	}
}

// UpdateAdjustments edits the selected image's adjustments. Values are
// clamped to their documented ranges.
func (w *Workspace) UpdateAdjustments(fn func(*adjust.Config)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sel := w.findLocked(w.selected)
	if sel == nil {
		return ErrNoImage
	}
	fn(&sel.Adjust)
	sel.Adjust = sel.Adjust.Clamp()
	if w.sync {
		for _, img := range w.images {
			img.Adjust = sel.Adjust
		}
	}
	return nil
}

// Setting names one kind of per-image configuration.
type Setting int

const (
	SettingWatermark Setting = iota
	SettingAdjustments
)

// ApplyToAll copies one kind of the selected image's settings to every
// image once, regardless of sync mode.
func (w *Workspace) ApplyToAll(s Setting) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sel := w.findLocked(w.selected)
	if sel == nil {
		return ErrNoImage
	}
	for _, img := range w.images {
		switch s {
		case SettingWatermark:
			img.Watermark = sel.Watermark
		case SettingAdjustments:
			img.Adjust = sel.Adjust
		}
	}
	return nil
}

// ApplyPreset applies a named text style to the selected watermark.
func (w *Workspace) ApplyPreset(name string) error {
	p, ok := watermark.LookupPreset(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return w.UpdateWatermark(func(c *watermark.Config) { *c = p.Patch.Apply(*c) })
}

func (w *Workspace) findLocked(id string) *Image {
	if id == "" {
		return nil
	}
	for _, img := range w.images {
		if img.ID == id {
			return img
		}
	}
	return nil
}
