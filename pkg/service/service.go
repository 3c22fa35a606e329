// Package service declares the external collaborators the editor calls:
// repair, detection, background removal and style or text suggestion. The
// editor only depends on these contracts; transports live elsewhere.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cleanlens/pkg/watermark"
)

var (
	// ErrFailed matches every error returned through Wrap.
	ErrFailed = errors.New("service call failed")

	// ErrUnavailable is returned when no collaborator is configured.
	ErrUnavailable = errors.New("service unavailable")
)

// DefaultTarget is the repair target used when nothing better is known.
const DefaultTarget = "watermark"

// Error is an external service failure.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every service error match ErrFailed.
func (e *Error) Is(target error) bool { return target == ErrFailed }

// Wrap returns err as an *Error for op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// RepairRequest asks for a region of an image to be removed and filled.
type RepairRequest struct {
	Image    []byte
	MIMEType string
	Target   string // free-text description of what to remove
	Masked   bool   // the region is painted in solid red on Image
}

// Repairer returns a replacement raster for the request.
type Repairer interface {
	Repair(ctx context.Context, req RepairRequest) ([]byte, error)
}

// Detector describes what should be removed from an image. The response is
// JSON carrying at least a "description" field.
type Detector interface {
	Detect(ctx context.Context, image []byte, mimeType string) (string, error)
}

// BackgroundRemover returns the image with its background made transparent.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, image []byte, mimeType string) ([]byte, error)
}

// StyleSuggester proposes a frame and font style for watermark text.
type StyleSuggester interface {
	SuggestStyle(ctx context.Context, text string) (watermark.StylePatch, error)
}

// TextSuggester proposes watermark texts for a prompt, best first.
type TextSuggester interface {
	SuggestText(ctx context.Context, prompt string) ([]string, error)
}

// Detection is a parsed detector response.
type Detection struct {
	Description string         `json:"description"`
	Fields      map[string]any `json:"-"`
	Raw         string         `json:"-"`
}

// ParseDetection decodes a detector response.
func ParseDetection(raw string) (Detection, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return Detection{}, fmt.Errorf("malformed detection: %w", err)
	}
	d := Detection{Fields: fields, Raw: raw}
	if s, ok := fields["description"].(string); ok {
		d.Description = s
	}
	return d, nil
}
