package watermark

import "strings"

// StylePatch is a partial watermark configuration. Nil fields are left
// unchanged by Apply.
type StylePatch struct {
	Kind          *Kind    `yaml:"kind" json:"kind,omitempty"`
	Shape         *Shape   `yaml:"shape" json:"shape,omitempty"`
	Color         *string  `yaml:"color" json:"color,omitempty"`
	BorderColor   *string  `yaml:"border_color" json:"borderColor,omitempty"`
	BorderWidth   *float64 `yaml:"border_width" json:"borderWidth,omitempty"`
	Padding       *float64 `yaml:"padding" json:"padding,omitempty"`
	FontFamily    *string  `yaml:"font_family" json:"fontFamily,omitempty"`
	FontWeight    *string  `yaml:"font_weight" json:"fontWeight,omitempty"`
	LetterSpacing *float64 `yaml:"letter_spacing" json:"letterSpacing,omitempty"`
	ShadowColor   *string  `yaml:"shadow_color" json:"shadowColor,omitempty"`
	ShadowBlur    *float64 `yaml:"shadow_blur" json:"shadowBlur,omitempty"`
	Opacity       *float64 `yaml:"opacity" json:"opacity,omitempty"`
	Size          *float64 `yaml:"size" json:"size,omitempty"`
}

// Apply returns cfg with every non-nil field of p copied over it.
func (p StylePatch) Apply(cfg Config) Config {
	if p.Kind != nil {
		cfg.Kind = *p.Kind
	}
	if p.Shape != nil {
		cfg.Frame.Shape = *p.Shape
	}
	if p.Color != nil {
		cfg.Text.Color = *p.Color
	}
	if p.BorderColor != nil {
		cfg.Frame.Color = *p.BorderColor
	}
	if p.BorderWidth != nil {
		cfg.Frame.Width = *p.BorderWidth
	}
	if p.Padding != nil {
		cfg.Frame.Padding = *p.Padding
	}
	if p.FontFamily != nil {
		cfg.Text.FontFamily = *p.FontFamily
	}
	if p.FontWeight != nil {
		cfg.Text.FontWeight = *p.FontWeight
	}
	if p.LetterSpacing != nil {
		cfg.Text.LetterSpacing = *p.LetterSpacing
	}
	if p.ShadowColor != nil {
		cfg.Text.ShadowColor = *p.ShadowColor
	}
	if p.ShadowBlur != nil {
		cfg.Text.ShadowBlur = *p.ShadowBlur
	}
	if p.Opacity != nil {
		cfg.Opacity = *p.Opacity
	}
	if p.Size != nil {
		cfg.Size = *p.Size
	}
	return cfg
}

// Suggestion returns the patch applied for a suggested style: empty and zero
// values are dropped, and circular seals get a wider padding.
func (p StylePatch) Suggestion() StylePatch {
	out := StylePatch{
		Shape:         nonEmpty(p.Shape),
		Color:         nonEmpty(p.Color),
		BorderColor:   nonEmpty(p.BorderColor),
		BorderWidth:   nonZero(p.BorderWidth),
		FontFamily:    nonEmpty(p.FontFamily),
		FontWeight:    nonEmpty(p.FontWeight),
		LetterSpacing: nonZero(p.LetterSpacing),
	}
	if out.Shape != nil && (*out.Shape == ShapeCircle || *out.Shape == ShapeDoubleCircle) {
		out.Padding = ptr(40.0)
	}
	return out
}

// Preset is a named text style.
type Preset struct {
	Name  string
	Patch StylePatch
}

// Presets returns the built-in text styles in display order.
func Presets() []Preset {
	text := KindText
	return []Preset{
		{Name: "Official Seal", Patch: StylePatch{
			Kind: &text, FontFamily: ptr("'Playfair Display', serif"), Color: ptr("#DC2626"),
			Opacity: ptr(95.0), ShadowBlur: ptr(2.0), LetterSpacing: ptr(2.0), FontWeight: ptr("700"), Size: ptr(32.0),
			Shape: ptr(ShapeDoubleCircle), BorderColor: ptr("#DC2626"), BorderWidth: ptr(4.0), Padding: ptr(40.0),
		}},
		{Name: "Modern Box", Patch: StylePatch{
			Kind: &text, FontFamily: ptr("'Montserrat', sans-serif"), Color: ptr("#FFFFFF"),
			Opacity: ptr(100.0), ShadowBlur: ptr(0.0), LetterSpacing: ptr(4.0), FontWeight: ptr("700"), Size: ptr(24.0),
			Shape: ptr(ShapeSquare), BorderColor: ptr("#FFFFFF"), BorderWidth: ptr(2.0), Padding: ptr(20.0),
		}},
		{Name: "Minimal", Patch: StylePatch{
			Kind: &text, FontFamily: ptr("'Montserrat', sans-serif"), Color: ptr("#ffffff"),
			Opacity: ptr(90.0), ShadowBlur: ptr(0.0), LetterSpacing: ptr(2.0), FontWeight: ptr("400"), Size: ptr(24.0),
			Shape: ptr(ShapeNone),
		}},
		{Name: "Luxury", Patch: StylePatch{
			Kind: &text, FontFamily: ptr("'Playfair Display', serif"), Color: ptr("#FCD34D"),
			Opacity: ptr(100.0), ShadowBlur: ptr(10.0), ShadowColor: ptr("rgba(0,0,0,0.5)"), LetterSpacing: ptr(1.0),
			FontWeight: ptr("700"), Size: ptr(32.0), Shape: ptr(ShapeNone),
		}},
		{Name: "Badge", Patch: StylePatch{
			Kind: &text, FontFamily: ptr("'Bebas Neue', sans-serif"), Color: ptr("#ffffff"),
			Opacity: ptr(100.0), ShadowBlur: ptr(5.0), ShadowColor: ptr("rgba(0,0,0,0.8)"), LetterSpacing: ptr(2.0),
			FontWeight: ptr("400"), Size: ptr(28.0), Shape: ptr(ShapeRounded), BorderColor: ptr("#ffffff"),
			BorderWidth: ptr(3.0), Padding: ptr(15.0),
		}},
	}
}

// LookupPreset finds a preset by case-insensitive name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Preset{}, false
}

func ptr[T any](v T) *T { return &v }

func nonEmpty[T ~string](v *T) *T {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
