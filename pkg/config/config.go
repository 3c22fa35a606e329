// Package config loads the YAML file describing a CLI run: the watermark,
// adjustments and removal strokes to apply, extra font directories and
// export settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"cleanlens/pkg/adjust"
	"cleanlens/pkg/imageio"
	"cleanlens/pkg/mask"
	"cleanlens/pkg/watermark"
	"cleanlens/pkg/workspace"
)

// Config is the decoded configuration file. Fields missing from the file
// keep the values of Default.
type Config struct {
	Watermark watermark.Config `yaml:"watermark"`
	Adjust    adjust.Config    `yaml:"adjust"`
	Masks     []mask.Path      `yaml:"masks"`
	Target    string           `yaml:"target"`
	Preset    string           `yaml:"preset"`
	FontDirs  []string         `yaml:"font_dirs"`
	Export    Export           `yaml:"export"`
}

// Export holds the output settings.
type Export struct {
	Quality     int           `yaml:"quality"`
	Background  string        `yaml:"background"`
	Stagger     time.Duration `yaml:"stagger"`
	PreviewSize int           `yaml:"preview_size"`
	Thumbnail   int           `yaml:"thumbnail_size"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Watermark: watermark.DefaultConfig(),
		Adjust:    adjust.Neutral(),
		Export: Export{
			Quality:     imageio.ExportQuality,
			Background:  "#000000",
			Stagger:     800 * time.Millisecond,
			PreviewSize: 1000,
			Thumbnail:   256,
		},
	}
}

// Load reads the configuration at path over the defaults. A logo path is
// resolved relative to the file and decoded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, dir := range c.FontDirs {
		if !filepath.IsAbs(dir) {
			c.FontDirs[i] = filepath.Join(base, dir)
		}
	}
	if p := c.Watermark.Logo.Path; p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		if err := c.LoadLogo(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Parse decodes YAML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Adjust = c.Adjust.Clamp()
	return c, nil
}

// LoadLogo decodes the logo at path into the watermark.
func (c *Config) LoadLogo(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := watermark.LoadLogo(f)
	if err != nil {
		return fmt.Errorf("logo %s: %w", path, err)
	}
	c.Watermark.Logo.Path = path
	c.Watermark.Logo.Image = img
	return nil
}

// Validate reports settings that cannot be used as given. Out-of-range
// adjustments are clamped instead.
func (c *Config) Validate() error {
	var errs []error
	switch c.Watermark.Kind {
	case watermark.KindText, watermark.KindImage:
	default:
		errs = append(errs, fmt.Errorf("unknown watermark kind %q", c.Watermark.Kind))
	}
	if q := c.Export.Quality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("export quality %d out of range 1-100", q))
	}
	if _, err := watermark.ParseColor(c.Export.Background); err != nil {
		errs = append(errs, fmt.Errorf("export background: %w", err))
	}
	if c.Export.Stagger < 0 {
		errs = append(errs, errors.New("export stagger is negative"))
	}
	if c.Preset != "" {
		if _, ok := watermark.LookupPreset(c.Preset); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", workspace.ErrUnknownPreset, c.Preset))
		}
	}
	return errors.Join(errs...)
}

// ExportOptions returns the encoder settings.
func (c *Config) ExportOptions() imageio.ExportOptions {
	bg, err := watermark.ParseColor(c.Export.Background)
	if err != nil {
		bg = imageio.DefaultExportOptions().Background
	}
	return imageio.ExportOptions{Quality: c.Export.Quality, Background: bg}
}

// Fonts returns a font book searching the configured directories.
func (c *Config) Fonts() *watermark.FontBook {
	return watermark.NewFontBook(c.FontDirs...)
}

// Options returns workspace options for the configuration.
func (c *Config) Options() workspace.Options {
	return workspace.Options{
		ThumbnailSize: c.Export.Thumbnail,
		PreviewSize:   c.Export.PreviewSize,
		Stagger:       c.Export.Stagger,
		Export:        c.ExportOptions(),
		Fonts:         c.Fonts(),
	}
}

// Apply seeds the selected image of ws with the configured settings. In sync
// mode the watermark and adjustments reach every image; strokes and the
// repair target only ever go to the selected one.
func (c *Config) Apply(ws *workspace.Workspace) error {
	if err := ws.UpdateWatermark(func(w *watermark.Config) { *w = c.Watermark }); err != nil {
		return err
	}
	if c.Preset != "" {
		if err := ws.ApplyPreset(c.Preset); err != nil {
			return err
		}
	}
	if err := ws.UpdateAdjustments(func(a *adjust.Config) { *a = c.Adjust }); err != nil {
		return err
	}
	if c.Target != "" {
		if err := ws.SetTarget(c.Target); err != nil {
			return err
		}
	}
	for _, p := range c.Masks {
		if len(p.Points) == 0 {
			continue
		}
		ws.SetBrush(p.Size)
		if err := ws.BeginStroke(p.Points[0]); err != nil {
			return err
		}
		for _, pt := range p.Points[1:] {
			ws.ExtendStroke(pt)
		}
		ws.EndStroke()
	}
	return nil
}
