package workspace

import (
	"image"

	"cleanlens/pkg/adjust"
	"cleanlens/pkg/mask"
	"cleanlens/pkg/watermark"
)

// Image is one imported photo with its edit state.
type Image struct {
	ID       string
	Name     string
	MIMEType string

	// Original is the decoded upload. Once a repair succeeds, Repaired
	// supersedes it for every later render, burn and repair.
	Original  image.Image
	Repaired  image.Image
	Thumbnail image.Image

	Adjust    adjust.Config
	Watermark watermark.Config
	Masks     []mask.Path

	// Analysis is the raw response of the last detection; Target is the
	// repair description it suggested, if any.
	Analysis string
	Target   string

	data      []byte // encoded bytes of the working raster
	revision  uint64 // bumped whenever the working raster is replaced
	maskEpoch uint64 // bumped whenever Masks is replaced rather than appended to
}

// Working returns the raster all rendering starts from.
func (img *Image) Working() image.Image {
	if img.Repaired != nil {
		return img.Repaired
	}
	return img.Original
}

// IsRepaired reports whether a repair result has been installed.
func (img *Image) IsRepaired() bool {
	return img.Repaired != nil
}

// snapshot returns a copy that shares rasters but owns its mask list.
func (img *Image) snapshot() Image {
	out := *img
	out.Masks = mask.Clone(img.Masks)
	return out
}
