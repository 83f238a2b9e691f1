package imageio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	return img
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func encoded(t *testing.T, format string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	}
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode_Formats(t *testing.T) {
	src := testImage(40, 30)
	for _, format := range []string{"png", "jpeg", "bmp"} {
		t.Run(format, func(t *testing.T) {
			img, got, err := Decode(bytes.NewReader(encoded(t, format, src)), Options{})
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != format {
				t.Errorf("format = %q, want %q", got, format)
			}
			if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
				t.Errorf("bounds = %v, want 40x30", img.Bounds())
			}
		})
	}
}

func TestDecode_Unsupported(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not an image")), Options{})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Decode(garbage) error = %v, want ErrUnsupported", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	data := encoded(t, "png", testImage(20, 20))
	if _, err := DecodeBytes(data[:len(data)/2], Options{}); err == nil {
		t.Error("DecodeBytes(truncated png) should fail")
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"no limit", 600, 400, 0, 600, 400},
		{"within limit", 600, 400, 600, 600, 400},
		{"landscape", 600, 400, 300, 300, 200},
		{"portrait", 400, 800, 200, 100, 200},
		{"extreme strip", 1000, 2, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testImage(tt.w, tt.h)
			got := Downscale(src, tt.max)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("Downscale() = %v, want %dx%d", got.Bounds(), tt.wantW, tt.wantH)
			}
			if tt.wantW == tt.w && got != image.Image(src) {
				t.Error("image within the limit should be returned unchanged")
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.png", encoded(t, "png", testImage(200, 100)))

	img, err := DecodeFile(context.Background(), path, Options{MaxDimension: 50})
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 50, 25) {
		t.Errorf("bounds = %v, want 50x25", img.Bounds())
	}

	missing := filepath.Join(dir, "missing.png")
	_, err = DecodeFile(context.Background(), missing, Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("DecodeFile(missing) error = %v, want not-exist", err)
	}
	if err != nil && strings.Count(err.Error(), missing) != 1 {
		t.Errorf("DecodeFile(missing) error %q should name the path once", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DecodeFile(ctx, path, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("DecodeFile(canceled) error = %v, want context.Canceled", err)
	}
}

func TestDecodeAll(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.png", encoded(t, "png", testImage(10, 10)))
	b := writeFile(t, dir, "b.jpg", encoded(t, "jpeg", testImage(20, 10)))
	bad := writeFile(t, dir, "bad.png", []byte("nope"))

	paths := []string{a, "", bad, b}
	results := DecodeAll(context.Background(), paths, Options{}, 2)

	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q, want %q", i, r.Path, paths[i])
		}
	}
	if results[0].Err != nil || results[0].Image.Bounds().Dx() != 10 {
		t.Errorf("result 0 = %+v, want a 10px image", results[0])
	}
	if results[1].Image != nil || results[1].Err != nil {
		t.Errorf("empty path result = %+v, want zero", results[1])
	}
	if !errors.Is(results[2].Err, ErrUnsupported) {
		t.Errorf("bad file error = %v, want ErrUnsupported", results[2].Err)
	}
	if results[3].Err != nil || results[3].Image.Bounds().Dx() != 20 {
		t.Errorf("result 3 = %+v, want a 20px image", results[3])
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, format, err := DecodeConfig(bytes.NewReader(encoded(t, "png", testImage(33, 7))))
	if err != nil || format != "png" || cfg.Width != 33 || cfg.Height != 7 {
		t.Errorf("DecodeConfig() = %+v, %q, %v", cfg, format, err)
	}
	if _, _, err := DecodeConfig(bytes.NewReader([]byte("text"))); !errors.Is(err, ErrUnsupported) {
		t.Errorf("DecodeConfig(text) error = %v, want ErrUnsupported", err)
	}
}

// pngHeader returns a PNG signature and IHDR chunk declaring w x h RGBA
// pixels, with no image data.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 6 // 8-bit RGBA

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecode_MaxPixels(t *testing.T) {
	huge := pngHeader(60000, 60000)
	if cfg, _, err := DecodeConfig(bytes.NewReader(huge)); err != nil || cfg.Width != 60000 {
		t.Fatalf("DecodeConfig(header) = %+v, %v", cfg, err)
	}

	_, _, err := Decode(bytes.NewReader(huge), Options{MaxPixels: 1_000_000})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Decode(60000x60000) error = %v, want ErrTooLarge", err)
	}

	// Images within the limit still decode from the replayed header.
	img, format, err := Decode(bytes.NewReader(encoded(t, "png", testImage(40, 30))), Options{MaxPixels: 1200})
	if err != nil || format != "png" || img.Bounds().Dx() != 40 {
		t.Errorf("Decode(40x30, limit 1200) = %v, %q, %v", img.Bounds(), format, err)
	}
	if _, _, err := Decode(bytes.NewReader(encoded(t, "png", testImage(40, 30))), Options{MaxPixels: 1199}); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Decode(40x30, limit 1199) error = %v, want ErrTooLarge", err)
	}
}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		cfg     image.Config
		limit   int64
		wantErr bool
	}{
		{image.Config{Width: 100, Height: 100}, 0, false},
		{image.Config{Width: 100, Height: 100}, 10000, false},
		{image.Config{Width: 100, Height: 101}, 10000, true},
		{image.Config{Width: 1 << 30, Height: 1 << 30}, 1 << 40, true},
	}
	for _, tt := range tests {
		err := CheckSize(tt.cfg, Options{MaxPixels: tt.limit})
		if got := errors.Is(err, ErrTooLarge); got != tt.wantErr {
			t.Errorf("CheckSize(%dx%d, %d) = %v, want too large %v", tt.cfg.Width, tt.cfg.Height, tt.limit, err, tt.wantErr)
		}
	}
}
