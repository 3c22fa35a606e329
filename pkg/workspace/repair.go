package workspace

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"cleanlens/pkg/imageio"
	"cleanlens/pkg/mask"
	"cleanlens/pkg/service"
	"cleanlens/pkg/watermark"
)

// burnQuality is the JPEG quality of rasters sent with burned-in masks.
const burnQuality = 90

// Repair asks the repairer to remove target from the selected image. An empty
// target falls back to the image's detected target, then to
// service.DefaultTarget. When the image has strokes they are burned into the
// request and the region they cover is what gets removed.
//
// On success the result replaces the working raster and the strokes that
// were sent are dropped; strokes committed while the call was in flight are
// kept. On failure nothing changes.
func (w *Workspace) Repair(ctx context.Context, target string) error {
	w.mu.Lock()
	img := w.findLocked(w.selected)
	if img == nil {
		w.mu.Unlock()
		return ErrNoImage
	}
	if w.opt.Repairer == nil {
		w.mu.Unlock()
		return fmt.Errorf("repair: %w", service.ErrUnavailable)
	}
	if w.repairing[img.ID] {
		w.mu.Unlock()
		return ErrRepairInFlight
	}
	w.repairing[img.ID] = true
	var (
		id       = img.ID
		working  = img.Working()
		masks    = mask.Clone(img.Masks)
		revision = img.revision
		epoch    = img.maskEpoch
		req      = service.RepairRequest{Image: img.data, MIMEType: img.MIMEType}
	)
	switch {
	case strings.TrimSpace(target) != "":
		req.Target = target
	case img.Target != "":
		req.Target = img.Target
	default:
		req.Target = service.DefaultTarget
	}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.repairing, id)
		w.mu.Unlock()
	}()

	if len(masks) > 0 {
		data, err := imageio.EncodeJPEG(mask.Burn(working, masks), burnQuality)
		if err != nil {
			return fmt.Errorf("failed to burn masks: %w", err)
		}
		req.Image, req.MIMEType, req.Masked = data, "image/jpeg", true
	}

	out, err := w.opt.Repairer.Repair(ctx, req)
	if err != nil {
		log.Printf("repair of %s failed: %v", id, err)
		return service.Wrap("repair", err)
	}
	repaired, err := imageio.Decode(bytes.NewReader(out))
	if err != nil {
		return service.Wrap("repair", fmt.Errorf("undecodable result: %w", err))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	img = w.findLocked(id)
	if img == nil {
		return ErrNotFound
	}
	if img.revision != revision {
		return ErrStale
	}
	img.Repaired = repaired
	img.data = out
	img.MIMEType = imageio.MIMEType(out)
	img.Thumbnail = imageio.Thumbnail(repaired, w.opt.ThumbnailSize)
	img.revision++
	if img.maskEpoch == epoch {
		img.Masks = mask.Clone(img.Masks[len(masks):])
	}
	if img.ID == w.selected {
		w.overlay = nil
		w.refreshOverlayLocked()
	}
	return nil
}

// IsRepairing reports whether a repair of the image is in flight.
func (w *Workspace) IsRepairing(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.repairing[id]
}

// Detect asks the detector what should be removed from the selected image.
// The raw response is kept as the image's analysis and a non-empty
// description becomes its repair target.
func (w *Workspace) Detect(ctx context.Context) (service.Detection, error) {
	w.mu.Lock()
	img := w.findLocked(w.selected)
	if img == nil {
		w.mu.Unlock()
		return service.Detection{}, ErrNoImage
	}
	if w.opt.Detector == nil {
		w.mu.Unlock()
		return service.Detection{}, fmt.Errorf("detect: %w", service.ErrUnavailable)
	}
	id, data, mime, revision := img.ID, img.data, img.MIMEType, img.revision
	w.mu.Unlock()

	raw, err := w.opt.Detector.Detect(ctx, data, mime)
	if err != nil {
		return service.Detection{}, service.Wrap("detect", err)
	}
	d, err := service.ParseDetection(raw)
	if err != nil {
		return service.Detection{}, service.Wrap("detect", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	img = w.findLocked(id)
	if img == nil {
		return d, ErrNotFound
	}
	if img.revision != revision {
		return d, ErrStale
	}
	img.Analysis = d.Raw
	if d.Description != "" {
		img.Target = d.Description
	}
	return d, nil
}

// SetTarget sets the repair description of the selected image.
func (w *Workspace) SetTarget(target string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	img := w.findLocked(w.selected)
	if img == nil {
		return ErrNoImage
	}
	img.Target = target
	return nil
}

// RemoveLogoBackground replaces the selected watermark's logo with a copy
// whose background has been made transparent. The result goes to the image
// selected when the call started.
func (w *Workspace) RemoveLogoBackground(ctx context.Context) error {
	w.mu.Lock()
	img := w.findLocked(w.selected)
	if img == nil {
		w.mu.Unlock()
		return ErrNoImage
	}
	id, logo := img.ID, img.Watermark.Logo.Image
	w.mu.Unlock()
	if logo == nil {
		return ErrNoLogo
	}
	if w.opt.BackgroundRemover == nil {
		return fmt.Errorf("remove background: %w", service.ErrUnavailable)
	}

	data, err := imageio.EncodePNG(logo)
	if err != nil {
		return err
	}
	out, err := w.opt.BackgroundRemover.RemoveBackground(ctx, data, "image/png")
	if err != nil {
		return service.Wrap("remove background", err)
	}
	cut, err := watermark.LoadLogo(bytes.NewReader(out))
	if err != nil {
		return service.Wrap("remove background", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if img = w.findLocked(id); img == nil {
		return ErrNotFound
	}
	w.updateWatermarkOfLocked(img, func(c *watermark.Config) {
		c.Kind = watermark.KindImage
		c.Logo.Image = cut
		c.Logo.Path = ""
	})
	return nil
}

// SuggestStyle asks for a frame and font style matching the selected
// watermark's text and merges the suggestion into it. Empty text is a no-op.
func (w *Workspace) SuggestStyle(ctx context.Context) error {
	w.mu.Lock()
	img := w.findLocked(w.selected)
	if img == nil {
		w.mu.Unlock()
		return ErrNoImage
	}
	id, text := img.ID, img.Watermark.Text.Text
	w.mu.Unlock()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if w.opt.StyleSuggester == nil {
		return fmt.Errorf("suggest style: %w", service.ErrUnavailable)
	}

	patch, err := w.opt.StyleSuggester.SuggestStyle(ctx, text)
	if err != nil {
		return service.Wrap("suggest style", err)
	}
	patch = patch.Suggestion()

	w.mu.Lock()
	defer w.mu.Unlock()
	if img = w.findLocked(id); img == nil {
		return ErrNotFound
	}
	w.updateWatermarkOfLocked(img, func(c *watermark.Config) { *c = patch.Apply(*c) })
	return nil
}

// SuggestText asks for watermark texts matching prompt and uses the first
// one on the image selected when the call started. It returns every
// suggestion.
func (w *Workspace) SuggestText(ctx context.Context, prompt string) ([]string, error) {
	w.mu.Lock()
	img := w.findLocked(w.selected)
	if img == nil {
		w.mu.Unlock()
		return nil, ErrNoImage
	}
	id := img.ID
	w.mu.Unlock()
	if w.opt.TextSuggester == nil {
		return nil, fmt.Errorf("suggest text: %w", service.ErrUnavailable)
	}
	texts, err := w.opt.TextSuggester.SuggestText(ctx, prompt)
	if err != nil {
		return nil, service.Wrap("suggest text", err)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if img = w.findLocked(id); img == nil {
		return texts, ErrNotFound
	}
	w.updateWatermarkOfLocked(img, func(c *watermark.Config) {
		c.Kind = watermark.KindText
		c.Text.Text = texts[0]
	})
	return texts, nil
}
