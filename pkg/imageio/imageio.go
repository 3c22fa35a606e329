// Package imageio decodes imported rasters and encodes exported ones.
package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for rasters without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// ExportQuality is the JPEG quality of exported composites.
const ExportQuality = 95

// ExportOptions controls how a composite is encoded.
type ExportOptions struct {
	Quality    int
	Background color.NRGBA // transparent areas are flattened onto this colour
}

// DefaultExportOptions returns JPEG quality 95 on a black background.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Quality: ExportQuality, Background: color.NRGBA{0, 0, 0, 255}}
}

// Decode reads a jpeg, png, gif, webp, bmp or tiff raster, honouring EXIF
// orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// DecodeFile decodes the raster stored at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// MIMEType sniffs the MIME type of encoded raster bytes. Unknown formats
// report application/octet-stream.
func MIMEType(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "application/octet-stream"
	}
	return "image/" + format
}

// Thumbnail downsizes img to fit within size x size. Smaller images are
// copied unchanged.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return imaging.Clone(img)
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// Encode writes img as a JPEG flattened onto the configured background.
func Encode(w io.Writer, img image.Image, opt ExportOptions) error {
	if img.Bounds().Empty() {
		return ErrEmptyImage
	}
	q := opt.Quality
	if q <= 0 || q > 100 {
		q = ExportQuality
	}
	return imaging.Encode(w, Flatten(img, opt.Background), imaging.JPEG, imaging.JPEGQuality(q))
}

// EncodeJPEG returns img encoded as a JPEG of the given quality on black.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	opt := DefaultExportOptions()
	opt.Quality = quality
	if err := Encode(&buf, img, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG returns img encoded losslessly as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes img to path, creating parent directories. A .png extension
// keeps the alpha channel; anything else is written as a flattened JPEG.
func Save(img image.Image, path string, opt ExportOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(out, img)
	default:
		return Encode(out, img, opt)
	}
}

// Flatten composites img over an opaque background.
func Flatten(img image.Image, bg color.NRGBA) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Over)
	return rgba
}
