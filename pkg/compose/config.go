package compose

import (
	"image/color"
	"math"

	"github.com/xob0t/photocanvas/pkg/template"
)

// Canvas width limits in pixels.
const (
	MinWidth     = 400
	MaxWidth     = 3000
	DefaultWidth = 1200
)

// Config holds the global render settings applied uniformly to every slot.
// It is supplied fresh for each render and never stored by the compositor.
type Config struct {
	Width        int
	Background   color.RGBA
	Margin       float64 // pixels between slots, split half per side
	CornerRadius float64 // pixels
}

// DefaultConfig returns a 1200px wide white canvas with a small gutter.
func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Background:   color.RGBA{255, 255, 255, 255},
		Margin:       12,
		CornerRadius: 16,
	}
}

// Normalize returns a copy with every field forced into its valid domain:
// width 0 means the default width, other widths clamp to [MinWidth,
// MaxWidth]; negative or non-finite margin and radius become 0.
func (c Config) Normalize() Config {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	c.Width = min(max(c.Width, MinWidth), MaxWidth)
	c.Margin = nonNegative(c.Margin)
	c.CornerRadius = nonNegative(c.CornerRadius)
	return c
}

// CanvasSize returns the pixel dimensions of a canvas for t. The height is
// the rounded product of the normalized width and the template's aspect
// ratio, and never less than one pixel.
func (c Config) CanvasSize(t template.Template) (width, height int) {
	width = c.Normalize().Width
	aspect := t.AspectRatio
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		aspect = 1
	}
	height = max(int(math.Round(float64(width)*aspect)), 1)
	return width, height
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
