// geometry.go: Normalized slot rects to pixel space, and display-to-canvas
// scaling for pan gestures.
package compose

import (
	"image"
	"math"

	"github.com/xob0t/photocanvas/pkg/template"
)

// Bounds is a slot rectangle in canvas pixel space.
type Bounds struct {
	X, Y          float64
	Width, Height float64
}

// ResolveSlotBounds converts a normalized slot rect to pixel space. Half the
// margin is taken from each side of the slot.
func ResolveSlotBounds(r template.Rect, canvasW, canvasH, margin float64) Bounds {
	return Bounds{
		X:      r.X*canvasW + margin/2,
		Y:      r.Y*canvasH + margin/2,
		Width:  r.W*canvasW - margin,
		Height: r.H*canvasH - margin,
	}
}

// Degenerate reports whether the bounds have no drawable area. Degenerate
// slots are skipped during composition.
func (b Bounds) Degenerate() bool {
	return !(b.Width > 0) || !(b.Height > 0)
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() (x, y float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Rect returns the smallest integer rectangle containing b.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X)), int(math.Floor(b.Y)),
		int(math.Ceil(b.X+b.Width)), int(math.Ceil(b.Y+b.Height)),
	)
}

// DisplayToCanvas converts a pointer delta measured on a scaled preview of
// the canvas into canvas pixels. The preview may be shown at any size; each
// axis is scaled by canvas/display. A non-positive display size is treated
// as an unscaled preview.
func DisplayToCanvas(dx, dy float64, canvasW, canvasH int, displayW, displayH float64) (float64, float64) {
	sx, sy := 1.0, 1.0
	if displayW > 0 {
		sx = float64(canvasW) / displayW
	}
	if displayH > 0 {
		sy = float64(canvasH) / displayH
	}
	return dx * sx, dy * sy
}
