package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/disintegration/imaging"

	"cleanlens/pkg/adjust"
	"cleanlens/pkg/imageio"
	"cleanlens/pkg/watermark"
)

// Mode selects what an export contains.
type Mode int

const (
	// ModeDesigned exports the adjusted image with its watermark.
	ModeDesigned Mode = iota
	// ModeClean exports the adjusted image without watermark.
	ModeClean
)

func (m Mode) String() string {
	switch m {
	case ModeDesigned:
		return "designed"
	case ModeClean:
		return "clean"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the String form of a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "designed":
		return ModeDesigned, nil
	case "clean":
		return ModeClean, nil
	}
	return 0, fmt.Errorf("unknown export mode %q", s)
}

func (m Mode) prefix() string {
	if m == ModeClean {
		return "CleanLens_Clean_"
	}
	return "CleanLens_Designed_"
}

// Export is one encoded output file.
type Export struct {
	Name string
	Data []byte
}

// Composite returns the full-resolution image of id as exported in mode.
func (w *Workspace) Composite(id string, mode Mode) (*image.NRGBA, error) {
	w.mu.Lock()
	img := w.findLocked(id)
	if img == nil {
		w.mu.Unlock()
		return nil, ErrNotFound
	}
	src, adj, cfg := img.Working(), img.Adjust, img.Watermark
	w.mu.Unlock()

	if mode == ModeClean {
		return adjust.Apply(src, adj), nil
	}
	return w.compose(src, adj, cfg, 1), nil
}

// compose applies adj and draws cfg. blurScale converts the native blur
// radius to the raster's resolution. A renderer failure is logged and the
// adjusted image is returned without watermark.
func (w *Workspace) compose(src image.Image, adj adjust.Config, cfg watermark.Config, blurScale float64) (out *image.NRGBA) {
	adj.Blur *= blurScale
	out = adjust.Apply(src, adj)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("failed to draw watermark: %v", r)
			out = adjust.Apply(src, adj)
		}
	}()
	w.renderer.Draw(out, cfg)
	return out
}

// Export encodes the image id in mode as JPEG.
func (w *Workspace) Export(id string, mode Mode) (Export, error) {
	w.mu.Lock()
	img := w.findLocked(id)
	var name string
	if img != nil {
		name = img.Name
	}
	w.mu.Unlock()
	if img == nil {
		return Export{}, ErrNotFound
	}

	out, err := w.Composite(id, mode)
	if err != nil {
		return Export{}, err
	}
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, out, w.opt.Export); err != nil {
		return Export{}, fmt.Errorf("failed to encode %q: %w", name, err)
	}
	return Export{Name: mode.prefix() + name, Data: buf.Bytes()}, nil
}

// ExportAll exports every image in list order and hands each file to sink,
// pausing between files. Images deleted while the batch runs are skipped.
// It stops at the first error or when ctx is done.
func (w *Workspace) ExportAll(ctx context.Context, mode Mode, sink func(Export) error) error {
	w.mu.Lock()
	ids := make([]string, len(w.images))
	for i, img := range w.images {
		ids[i] = img.ID
	}
	w.mu.Unlock()

	for i, id := range ids {
		if i > 0 {
			t := time.NewTimer(w.opt.Stagger)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		e, err := w.Export(id, mode)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := sink(e); err != nil {
			return err
		}
	}
	return nil
}

// Preview returns the selected image fitted within the preview size, with its
// adjustments and, if withWatermark is set, its watermark. Since every
// watermark size is relative to the raster width, the preview matches the
// export in everything but resolution.
func (w *Workspace) Preview(withWatermark bool) (*image.NRGBA, error) {
	w.mu.Lock()
	img := w.findLocked(w.selected)
	if img == nil {
		w.mu.Unlock()
		return nil, ErrNoImage
	}
	src, adj, cfg := img.Working(), img.Adjust, img.Watermark
	w.mu.Unlock()

	small := imaging.Fit(src, w.opt.PreviewSize, w.opt.PreviewSize, imaging.Lanczos)
	scale := float64(small.Bounds().Dx()) / float64(src.Bounds().Dx())
	if !withWatermark {
		cfg.Opacity = 0
	}
	return w.compose(small, adj, cfg, scale), nil
}
