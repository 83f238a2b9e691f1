package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/draw"

	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/session"
	"github.com/xob0t/photocanvas/pkg/template"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if got := s.ToCanvasConfig(); got != compose.DefaultConfig() {
		t.Errorf("ToCanvasConfig() = %+v, want %+v", got, compose.DefaultConfig())
	}
	if s.ToInterpolator() != draw.BiLinear {
		t.Error("default interpolator is not bilinear")
	}
	if w := s.Validate(); len(w) != 0 {
		t.Errorf("Validate() = %q, want no warnings", w)
	}
	if s.ExportFormat() != "png" {
		t.Errorf("ExportFormat() = %q", s.ExportFormat())
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *s != *DefaultSettings() {
		t.Errorf("Load(missing) = %+v, want defaults", s)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := DefaultSettings()
	s.Width = 900
	s.Background = "#1e1e2e"
	s.Interpolator = "catmull-rom"
	s.Format = "jpg"
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *s {
		t.Errorf("Load() = %+v, want %+v", got, s)
	}
	if got.ToCanvasConfig().Background != (color.RGBA{0x1e, 0x1e, 0x2e, 0xff}) {
		t.Error("background not converted")
	}
	if got.ToInterpolator() != draw.CatmullRom {
		t.Error("interpolator not converted")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"margin": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Margin != 0 || s.Width != 1200 || s.Radius != 16 {
		t.Errorf("settings = %+v", s)
	}

	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(malformed) should fail")
	}
}

func TestValidate(t *testing.T) {
	s := DefaultSettings()
	s.Background = "blue"
	s.Interpolator = "lanczos"
	s.Format = "gif"
	s.Width = 100

	if w := s.Validate(); len(w) != 4 {
		t.Errorf("Validate() = %q, want 4 warnings", w)
	}
	if s.ExportFormat() != "png" || s.ToInterpolator() != draw.BiLinear {
		t.Error("invalid settings did not fall back")
	}
	if cfg := s.ToCanvasConfig(); cfg.Width != compose.MinWidth || cfg.Background != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("ToCanvasConfig() = %+v", cfg)
	}
}

func TestSessionOptions(t *testing.T) {
	s := DefaultSettings()
	s.AppID = "board"
	s.Width = 600
	sess := session.New(template.Builtin(), s.SessionOptions()...)

	if sess.Config().Width != 600 {
		t.Errorf("session width = %d", sess.Config().Width)
	}
	if sess.ExportName("png") != "board-grid-4.png" {
		t.Errorf("ExportName() = %q", sess.ExportName("png"))
	}
}

func TestToDecodeOptions(t *testing.T) {
	s := DefaultSettings()
	if opts := s.ToDecodeOptions(); opts.MaxDimension != 4000 || opts.MaxPixels != 50_000_000 {
		t.Errorf("ToDecodeOptions() = %+v", opts)
	}

	s.MaxSourceDim, s.MaxSourcePix = -1, -1
	if opts := s.ToDecodeOptions(); opts.MaxDimension != 0 || opts.MaxPixels != 0 {
		t.Errorf("negative limits = %+v, want no limit", opts)
	}
}
