package generator

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func canvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 10), uint8(y * 15), 200, 255})
		}
	}
	return img
}

func TestGenerateToWriter_Formats(t *testing.T) {
	src := canvas()
	tests := []struct {
		ext    string
		format string
		exact  bool
	}{
		{".png", "png", true},
		{"png", "png", true},
		{".jpg", "jpeg", false},
		{".JPEG", "jpeg", false},
		{".bmp", "bmp", true},
		{".tiff", "tiff", true},
		{".tif", "tiff", true},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			var buf bytes.Buffer
			if err := GenerateToWriter(&buf, tt.ext, Config{Image: src}); err != nil {
				t.Fatalf("GenerateToWriter(%q) error = %v", tt.ext, err)
			}
			img, format, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("decode output: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if img.Bounds() != src.Bounds() {
				t.Errorf("bounds = %v, want %v", img.Bounds(), src.Bounds())
			}
			if !tt.exact {
				return
			}
			for y := 0; y < 16; y++ {
				for x := 0; x < 24; x++ {
					r1, g1, b1, a1 := img.At(x, y).RGBA()
					r2, g2, b2, a2 := src.At(x, y).RGBA()
					if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
						t.Fatalf("pixel (%d, %d) changed by encoding", x, y)
					}
				}
			}
		})
	}
}

func TestGenerateToWriter_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateToWriter(&buf, ".gif", Config{Image: canvas()}); err == nil {
		t.Error("GenerateToWriter(.gif) should fail")
	}
	if err := GenerateToWriter(&buf, ".png", Config{}); !errors.Is(err, ErrNoImage) {
		t.Errorf("GenerateToWriter(nil image) error = %v, want ErrNoImage", err)
	}
}

func TestJPEGQuality(t *testing.T) {
	src := canvas()
	var low, high bytes.Buffer
	if err := GenerateToWriter(&low, "jpg", Config{Image: src, Quality: 5}); err != nil {
		t.Fatal(err)
	}
	if err := GenerateToWriter(&high, "jpg", Config{Image: src, Quality: 100}); err != nil {
		t.Fatal(err)
	}
	if low.Len() >= high.Len() {
		t.Errorf("quality 5 size %d not below quality 100 size %d", low.Len(), high.Len())
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "collage.png")

	if err := Generate(out, Config{Image: canvas()}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, format, err := image.Decode(f); err != nil || format != "png" {
		t.Errorf("output decode = %q, %v; want png", format, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the output file", len(entries))
	}

	if err := Generate(filepath.Join(dir, "x.webp"), Config{Image: canvas()}); err == nil {
		t.Error("Generate(.webp) should fail")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		app, tpl, ext, want string
	}{
		{"photo-canvas", "grid-4", "png", "photo-canvas-grid-4.png"},
		{"photo-canvas", "wide-film", ".JPG", "photo-canvas-wide-film.jpg"},
	}
	for _, tt := range tests {
		if got := FileName(tt.app, tt.tpl, tt.ext); got != tt.want {
			t.Errorf("FileName(%q, %q, %q) = %q, want %q", tt.app, tt.tpl, tt.ext, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType(".jpeg"); got != "image/jpeg" {
		t.Errorf("ContentType(.jpeg) = %q", got)
	}
	if got := ContentType("gif"); got != "" {
		t.Errorf("ContentType(gif) = %q, want empty", got)
	}
}
