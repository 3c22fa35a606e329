package watermark

import "image"

// Kind selects what a watermark draws.
type Kind string

const (
	KindText  Kind = "TEXT"
	KindImage Kind = "IMAGE"
)

// Shape selects the decorative frame drawn around the content.
type Shape string

const (
	ShapeNone         Shape = "NONE"
	ShapeCircle       Shape = "CIRCLE"
	ShapeDoubleCircle Shape = "DOUBLE_CIRCLE"
	ShapeSquare       Shape = "SQUARE"
	ShapeRounded      Shape = "ROUNDED"
	ShapeBrackets     Shape = "BRACKETS"
)

// TextContent is the TEXT variant of a watermark.
type TextContent struct {
	Text          string  `yaml:"text"`
	FontFamily    string  `yaml:"font_family"`
	FontWeight    string  `yaml:"font_weight"`
	LetterSpacing float64 `yaml:"letter_spacing"`
	Color         string  `yaml:"color"`
	ShadowColor   string  `yaml:"shadow_color"`
	ShadowBlur    float64 `yaml:"shadow_blur"`
}

// ImageContent is the IMAGE variant of a watermark. Image holds the decoded
// logo; Path is only used to locate it when loading a configuration file.
type ImageContent struct {
	Path  string      `yaml:"path"`
	Image image.Image `yaml:"-"`
}

// FrameStyle configures the shape frame. Width and Padding are
// reference-relative sizes.
type FrameStyle struct {
	Shape   Shape   `yaml:"shape"`
	Color   string  `yaml:"color"`
	Width   float64 `yaml:"width"`
	Padding float64 `yaml:"padding"`
}

// Config is the complete watermark configuration of one image. Only the
// content variant named by Kind is used when drawing.
type Config struct {
	Kind  Kind         `yaml:"kind"`
	Text  TextContent  `yaml:"text"`
	Logo  ImageContent `yaml:"logo"`
	Frame FrameStyle   `yaml:"frame"`

	Opacity     float64 `yaml:"opacity"`  // percent, 0-100
	Size        float64 `yaml:"size"`     // reference-relative font size or logo size
	Rotation    float64 `yaml:"rotation"` // degrees, clockwise
	X           float64 `yaml:"x"`        // anchor, percent of canvas width
	Y           float64 `yaml:"y"`        // anchor, percent of canvas height
	Tiled       bool    `yaml:"tiled"`
	TileDensity int     `yaml:"tile_density"`
}

// DefaultConfig returns the configuration new images start with.
func DefaultConfig() Config {
	return Config{
		Kind: KindText,
		Text: TextContent{
			Text:          "CleanLens AI",
			FontFamily:    "'Montserrat', sans-serif",
			FontWeight:    "700",
			LetterSpacing: 2,
			Color:         "#ffffff",
			ShadowColor:   "rgba(0,0,0,0.5)",
			ShadowBlur:    10,
		},
		Frame: FrameStyle{
			Shape:   ShapeNone,
			Color:   "#ffffff",
			Width:   0,
			Padding: 20,
		},
		Opacity:     90,
		Size:        32,
		Rotation:    0,
		X:           50,
		Y:           50,
		Tiled:       false,
		TileDensity: 3,
	}
}

// Density returns the tile grid dimension, never less than 1.
func (c Config) Density() int {
	return max(1, c.TileDensity)
}

// Visible reports whether drawing c produces any output.
func (c Config) Visible() bool {
	if c.Opacity <= 0 {
		return false
	}
	switch c.Kind {
	case KindText:
		return c.Text.Text != ""
	case KindImage:
		return c.Logo.Image != nil && !c.Logo.Image.Bounds().Empty()
	default:
		return false
	}
}
