package imageio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnsupported is returned for data that is not a known image format.
	ErrUnsupported = errors.New("unsupported image format")
	// ErrTooLarge is returned when an image header declares more pixels
	// than Options.MaxPixels allows.
	ErrTooLarge = errors.New("image too large")
)

// Options controls decoding.
type Options struct {
	// MaxDimension bounds the longer side of decoded images. Larger images
	// are downscaled with Catmull-Rom, preserving aspect ratio. Zero means
	// no limit.
	MaxDimension int

	// MaxPixels rejects images whose header declares more than this many
	// pixels, before any pixel data is decoded. Zero means no limit.
	MaxPixels int64
}

// CheckSize reports ErrTooLarge when cfg exceeds opts.MaxPixels.
func CheckSize(cfg image.Config, opts Options) error {
	if opts.MaxPixels <= 0 {
		return nil
	}
	if n := int64(cfg.Width) * int64(cfg.Height); n > opts.MaxPixels {
		return fmt.Errorf("%dx%d exceeds %d pixels: %w", cfg.Width, cfg.Height, opts.MaxPixels, ErrTooLarge)
	}
	return nil
}

// Decode decodes an image from r and returns it with its format name.
func Decode(r io.Reader, opts Options) (image.Image, string, error) {
	if opts.MaxPixels > 0 {
		var head bytes.Buffer
		cfg, _, err := DecodeConfig(io.TeeReader(r, &head))
		if err != nil {
			return nil, "", err
		}
		if err := CheckSize(cfg, opts); err != nil {
			return nil, "", err
		}
		r = io.MultiReader(&head, r)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupported
		}
		return nil, "", fmt.Errorf("decode %s image: %w", format, err)
	}
	if img.Bounds().Empty() {
		return nil, format, fmt.Errorf("decode %s image: empty bounds", format)
	}
	return Downscale(img, opts.MaxDimension), format, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte, opts Options) (image.Image, error) {
	img, _, err := Decode(bytes.NewReader(data), opts)
	return img, err
}

// DecodeFile opens and decodes the image at path. It returns early if ctx
// is already done; decoding itself is not interruptible.
func DecodeFile(ctx context.Context, path string, opts Options) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Downscale shrinks img so neither side exceeds maxDim. Images already
// within the limit, or a non-positive limit, return img unchanged.
//
// Example:
//
//	// A 6000x4000 photo becomes 3000x2000
//	small := Downscale(photo, 3000)
func Downscale(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}

	ratio := float64(width) / float64(height)
	if width >= height {
		width = maxDim
		height = max(int(float64(maxDim)/ratio), 1)
	} else {
		height = maxDim
		width = max(int(float64(maxDim)*ratio), 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// Result is the outcome of decoding one path.
type Result struct {
	Path  string
	Image image.Image
	Err   error
}

// DecodeAll decodes paths concurrently, at most limit at a time (limit <= 0
// means no bound). Results are in input order. An empty path yields an
// empty Result. A failing file never stops the others.
func DecodeAll(ctx context.Context, paths []string, opts Options, limit int) []Result {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, p := range paths {
		results[i].Path = p
		if p == "" {
			continue
		}
		g.Go(func() error {
			img, err := DecodeFile(gctx, p, opts)
			results[i].Image = img
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// DecodeConfig reads only the header of an image and returns its size and
// format name.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return image.Config{}, "", ErrUnsupported
		}
		return image.Config{}, "", fmt.Errorf("read %s header: %w", format, err)
	}
	return cfg, format, nil
}
