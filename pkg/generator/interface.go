package generator

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder writes an image in one raster format.
type Encoder interface {
	Encode(w io.Writer, cfg Config) error
	ContentType() string
}

type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, cfg Config) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, cfg.Image); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

func (pngEncoder) ContentType() string { return "image/png" }

type jpegEncoder struct{}

func (jpegEncoder) Encode(w io.Writer, cfg Config) error {
	q := cfg.Quality
	if q == 0 {
		q = DefaultJPEGQuality
	}
	q = min(max(q, 1), 100)
	if err := jpeg.Encode(w, cfg.Image, &jpeg.Options{Quality: q}); err != nil {
		return fmt.Errorf("encode JPEG: %w", err)
	}
	return nil
}

func (jpegEncoder) ContentType() string { return "image/jpeg" }

type bmpEncoder struct{}

func (bmpEncoder) Encode(w io.Writer, cfg Config) error {
	if err := bmp.Encode(w, cfg.Image); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}

func (bmpEncoder) ContentType() string { return "image/bmp" }

type tiffEncoder struct{}

func (tiffEncoder) Encode(w io.Writer, cfg Config) error {
	if err := tiff.Encode(w, cfg.Image, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return fmt.Errorf("encode TIFF: %w", err)
	}
	return nil
}

func (tiffEncoder) ContentType() string { return "image/tiff" }

// encoders maps lowercase extensions (no dot) to their encoder.
var encoders = map[string]Encoder{
	"png":  pngEncoder{},
	"jpg":  jpegEncoder{},
	"jpeg": jpegEncoder{},
	"bmp":  bmpEncoder{},
	"tif":  tiffEncoder{},
	"tiff": tiffEncoder{},
}

// Formats lists the supported extensions without the dot, sorted.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for ext := range encoders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func encoderFor(ext string) (Encoder, error) {
	key := strings.TrimPrefix(strings.ToLower(ext), ".")
	enc, ok := encoders[key]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q: use %s", ext, strings.Join(Formats(), ", "))
	}
	return enc, nil
}
