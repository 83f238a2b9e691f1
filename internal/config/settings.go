package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/generator"
	"github.com/xob0t/photocanvas/pkg/imageio"
	"github.com/xob0t/photocanvas/pkg/session"
)

// Settings holds all configuration options.
type Settings struct {
	AppID           string `json:"app_id"`
	DefaultTemplate string `json:"default_template"`

	// Canvas settings
	Width      int     `json:"width"`
	Background string  `json:"background"`
	Margin     float64 `json:"margin"`
	Radius     float64 `json:"radius"`

	// Export settings
	OutputDir   string `json:"output_dir"`
	Format      string `json:"format"` // png, jpg, bmp, tiff
	JPEGQuality int    `json:"jpeg_quality"`

	// Rendering
	Interpolator string `json:"interpolator"` // nearest, approx-bilinear, bilinear, catmull-rom
	MaxSourceDim int    `json:"max_source_dimension"`
	MaxSourcePix int64  `json:"max_source_pixels"` // header check before decoding

	// Extra resources
	CatalogPath string `json:"catalog_path"`
	FontPath    string `json:"font_path"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	cfg := compose.DefaultConfig()
	return &Settings{
		AppID:        session.DefaultAppID,
		Width:        cfg.Width,
		Background:   compose.FormatHex(cfg.Background),
		Margin:       cfg.Margin,
		Radius:       cfg.CornerRadius,
		OutputDir:    ".",
		Format:       "png",
		JPEGQuality:  generator.DefaultJPEGQuality,
		Interpolator: "bilinear",
		MaxSourceDim: 4000,
		MaxSourcePix: 50_000_000,
	}
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "photocanvas.json"
	}
	return filepath.Join(dir, "photocanvas", "settings.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate returns a warning for every setting that will be replaced by a
// fallback value.
func (s *Settings) Validate() []string {
	var warnings []string
	if _, err := compose.ParseHexColor(s.Background); err != nil {
		warnings = append(warnings, fmt.Sprintf("background: %v, using white", err))
	}
	if _, err := compose.ParseInterpolator(s.Interpolator); err != nil {
		warnings = append(warnings, fmt.Sprintf("interpolator: %v, using bilinear", err))
	}
	if generator.ContentType(s.Format) == "" {
		warnings = append(warnings, fmt.Sprintf("format %q is not supported, using png", s.Format))
	}
	if s.Width != 0 && (s.Width < compose.MinWidth || s.Width > compose.MaxWidth) {
		warnings = append(warnings, fmt.Sprintf("width %d clamped to [%d, %d]", s.Width, compose.MinWidth, compose.MaxWidth))
	}
	return warnings
}

// ToCanvasConfig converts settings to the compositor's canvas config.
func (s *Settings) ToCanvasConfig() compose.Config {
	return compose.Config{
		Width:        s.Width,
		Background:   compose.ParseHexRGBA(s.Background),
		Margin:       s.Margin,
		CornerRadius: s.Radius,
	}.Normalize()
}

// ToInterpolator returns the configured resampling kernel, or bilinear.
func (s *Settings) ToInterpolator() draw.Interpolator {
	interp, err := compose.ParseInterpolator(s.Interpolator)
	if err != nil {
		return draw.BiLinear
	}
	return interp
}

// ExportFormat returns the configured export extension, or "png".
func (s *Settings) ExportFormat() string {
	if generator.ContentType(s.Format) == "" {
		return "png"
	}
	return s.Format
}

// ToDecodeOptions converts settings to image decoding options.
func (s *Settings) ToDecodeOptions() imageio.Options {
	return imageio.Options{
		MaxDimension: max(s.MaxSourceDim, 0),
		MaxPixels:    max(s.MaxSourcePix, 0),
	}
}

// SessionOptions returns the session options these settings imply.
func (s *Settings) SessionOptions() []session.Option {
	return []session.Option{
		session.WithAppID(s.AppID),
		session.WithConfig(s.ToCanvasConfig()),
		session.WithCompositor(compose.New(compose.WithInterpolator(s.ToInterpolator()))),
		session.WithDecodeOptions(s.ToDecodeOptions()),
		session.WithJPEGQuality(s.JPEGQuality),
	}
}
