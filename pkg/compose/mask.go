// mask.go: Rounded-rectangle clip masks.
package compose

import (
	"image"

	"golang.org/x/image/vector"
)

// RoundedRectMask rasterizes the rounded rectangle b with corner radius r
// into an anti-aliased alpha mask. The mask's Bounds cover b in canvas
// coordinates, so it can be used directly as a DstMask with a zero DstMaskP;
// pixels outside the mask read as fully transparent.
//
// The outline starts at the top-left point past the radius and runs
// clockwise: top edge, top-right corner, right edge, and so on. Corners are
// quadratic curves whose control point is the box corner.
func RoundedRectMask(b Bounds, r float64) *image.Alpha {
	rect := b.Rect()
	mask := image.NewAlpha(rect)
	if rect.Empty() {
		return mask
	}

	z := vector.NewRasterizer(rect.Dx(), rect.Dy())

	// Path coordinates are relative to the mask origin.
	x0 := float32(b.X - float64(rect.Min.X))
	y0 := float32(b.Y - float64(rect.Min.Y))
	x1 := x0 + float32(b.Width)
	y1 := y0 + float32(b.Height)
	rr := float32(CornerRadius(r, b))

	if rr <= 0 {
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
	} else {
		z.MoveTo(x0+rr, y0)
		z.LineTo(x1-rr, y0)
		z.QuadTo(x1, y0, x1, y0+rr)
		z.LineTo(x1, y1-rr)
		z.QuadTo(x1, y1, x1-rr, y1)
		z.LineTo(x0+rr, y1)
		z.QuadTo(x0, y1, x0, y1-rr)
		z.LineTo(x0, y0+rr)
		z.QuadTo(x0, y0, x0+rr, y0)
	}
	z.ClosePath()

	z.Draw(mask, rect, image.Opaque, image.Point{})
	return mask
}
