package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"cleanlens/pkg/config"
	"cleanlens/pkg/imageio"
	"cleanlens/pkg/mask"
	"cleanlens/pkg/watermark"
	"cleanlens/pkg/workspace"
)

func main() {
	input := flag.String("in", "", "input image or directory of images (required)")
	output := flag.String("out", "", "output image, or directory when -in is a directory (required)")
	cfgPath := flag.String("config", "", "YAML configuration file")
	mode := flag.String("mode", "designed", "output: designed|clean|burn|preview")

	text := flag.String("text", "", "watermark text")
	logo := flag.String("logo", "", "logo image; switches the watermark to IMAGE")
	preset := flag.String("preset", "", "text style preset: "+presetNames())
	fontDir := flag.String("font-dir", "", "extra directory of .ttf/.otf fonts")
	opacity := flag.Float64("opacity", 90, "watermark opacity 0..100")
	size := flag.Float64("size", 32, "watermark size")
	rotation := flag.Float64("rotation", 0, "watermark rotation in degrees")
	tiled := flag.Bool("tiled", false, "repeat the watermark over the image")
	density := flag.Int("density", 3, "tile grid dimension")
	quality := flag.Int("quality", imageio.ExportQuality, "jpeg quality 1..100")

	flag.Parse()

	if err := validateRequired(*input, *output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -config:", err)
			os.Exit(2)
		}
		cfg = c
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["text"] {
		cfg.Watermark.Kind = watermark.KindText
		cfg.Watermark.Text.Text = *text
	}
	if set["logo"] {
		if err := cfg.LoadLogo(*logo); err != nil {
			fmt.Fprintln(os.Stderr, "invalid -logo:", err)
			os.Exit(2)
		}
		cfg.Watermark.Kind = watermark.KindImage
	}
	if set["preset"] {
		cfg.Preset = *preset
	}
	if set["font-dir"] {
		cfg.FontDirs = append(cfg.FontDirs, *fontDir)
	}
	if set["opacity"] {
		cfg.Watermark.Opacity = *opacity
	}
	if set["size"] {
		cfg.Watermark.Size = *size
	}
	if set["rotation"] {
		cfg.Watermark.Rotation = *rotation
	}
	if set["tiled"] {
		cfg.Watermark.Tiled = *tiled
	}
	if set["density"] {
		cfg.Watermark.TileDensity = *density
	}
	if set["quality"] {
		cfg.Export.Quality = *quality
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	m := strings.ToLower(*mode)
	switch m {
	case "designed", "clean", "burn", "preview":
	default:
		fmt.Fprintln(os.Stderr, "unsupported mode:", *mode)
		os.Exit(2)
	}

	info, err := os.Stat(*input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if info.IsDir() {
		err = runBatch(cfg, m, *input, *output)
	} else {
		err = runSingle(cfg, m, *input, *output)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSingle(cfg *config.Config, mode, input, output string) error {
	ws := workspace.New(cfg.Options())
	if err := importFiles(ws, input); err != nil {
		return err
	}
	if err := cfg.Apply(ws); err != nil {
		return err
	}
	sel, err := ws.Selected()
	if err != nil {
		return err
	}

	var out image.Image
	switch mode {
	case "burn":
		out = mask.Burn(sel.Working(), sel.Masks)
	case "preview":
		out, err = ws.Preview(true)
	default:
		wm, _ := workspace.ParseMode(mode)
		out, err = ws.Composite(sel.ID, wm)
	}
	if err != nil {
		return err
	}
	return imageio.Save(out, output, cfg.ExportOptions())
}

func runBatch(cfg *config.Config, mode, dir, outDir string) error {
	wm, err := workspace.ParseMode(mode)
	if err != nil {
		return fmt.Errorf("mode %s is not available for directories", mode)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return errors.New("no images in " + dir)
	}

	ws := workspace.New(cfg.Options())
	if err := importFiles(ws, paths...); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := cfg.Apply(ws); err != nil {
		return err
	}
	// masks and targets are per image; only settings are shared
	if err := ws.ApplyToAll(workspace.SettingWatermark); err != nil {
		return err
	}
	if err := ws.ApplyToAll(workspace.SettingAdjustments); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return ws.ExportAll(context.Background(), wm, func(e workspace.Export) error {
		path := filepath.Join(outDir, e.Name)
		fmt.Println(path)
		return os.WriteFile(path, e.Data, 0o644)
	})
}

func importFiles(ws *workspace.Workspace, paths ...string) error {
	srcs := make([]workspace.Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		srcs = append(srcs, workspace.Source{Name: filepath.Base(p), Data: data})
	}
	ids, err := ws.Import(srcs...)
	if len(ids) == 0 {
		if err == nil {
			err = errors.New("nothing to import")
		}
		return err
	}
	return err
}

func validateRequired(input, output string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("missing -in")
	}
	if strings.TrimSpace(output) == "" {
		return errors.New("missing -out")
	}
	return nil
}

func presetNames() string {
	var names []string
	for _, p := range watermark.Presets() {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
