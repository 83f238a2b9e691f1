// placement.go: Cover-fit scaling and the rotate-about-center transform.
// Everything here is pure arithmetic so it can be checked without pixels.
package compose

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// CoverScale returns the smallest scale at which an imgW×imgH image fully
// covers b on both axes. The longer axis is cropped.
func CoverScale(b Bounds, imgW, imgH int) float64 {
	if imgW <= 0 || imgH <= 0 {
		return 0
	}
	return math.Max(b.Width/float64(imgW), b.Height/float64(imgH))
}

// CornerRadius clamps r so the rounded corners fit inside b.
func CornerRadius(r float64, b Bounds) float64 {
	r = math.Min(r, math.Min(b.Width/2, b.Height/2))
	if !(r > 0) {
		return 0
	}
	return r
}

// Placement describes where one slot's image lands on the canvas.
type Placement struct {
	CoverScale float64
	Scale      float64 // CoverScale × zoom
	CenterX    float64 // slot center plus pan offset
	CenterY    float64
	Radians    float64
	ImageW     float64 // source size in pixels
	ImageH     float64
}

// Place computes the placement of an imgW×imgH image in slot b. A zoom
// below 1 (or NaN) is treated as 1 so the image never shrinks below
// cover-fit.
func Place(b Bounds, imgW, imgH int, zoom, rotationDeg, offsetX, offsetY float64) Placement {
	if !(zoom >= 1) {
		zoom = 1
	}
	if math.IsNaN(rotationDeg) || math.IsInf(rotationDeg, 0) {
		rotationDeg = 0
	}
	cx, cy := b.Center()
	cover := CoverScale(b, imgW, imgH)
	return Placement{
		CoverScale: cover,
		Scale:      cover * zoom,
		CenterX:    cx + offsetX,
		CenterY:    cy + offsetY,
		Radians:    rotationDeg * math.Pi / 180,
		ImageW:     float64(imgW),
		ImageH:     float64(imgH),
	}
}

// ScaledSize returns the drawn image size before rotation.
func (p Placement) ScaledSize() (w, h float64) {
	return p.ImageW * p.Scale, p.ImageH * p.Scale
}

// Matrix returns the source-to-canvas affine transform: translate to the
// center, rotate, then draw the scaled image centered on the origin. origin
// is the source image's Bounds().Min.
func (p Placement) Matrix(origin image.Point) f64.Aff3 {
	sin, cos := math.Sincos(p.Radians)
	sw, sh := p.ScaledSize()

	a, b := cos*p.Scale, -sin*p.Scale
	d, e := sin*p.Scale, cos*p.Scale
	tx := p.CenterX - cos*sw/2 + sin*sh/2
	ty := p.CenterY - sin*sw/2 - cos*sh/2

	ox, oy := float64(origin.X), float64(origin.Y)
	return f64.Aff3{
		a, b, tx - a*ox - b*oy,
		d, e, ty - d*ox - e*oy,
	}
}

// Apply maps a point in source image space (relative to the image's top
// left) to canvas space.
func (p Placement) Apply(x, y float64) (float64, float64) {
	m := p.Matrix(image.Point{})
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Contains reports whether the canvas point (x, y) is covered by the drawn
// image.
func (p Placement) Contains(x, y float64) bool {
	if !(p.Scale > 0) {
		return false
	}
	sin, cos := math.Sincos(p.Radians)
	dx, dy := x-p.CenterX, y-p.CenterY
	// Undo the rotation, then compare against the scaled half extents.
	ux := cos*dx + sin*dy
	uy := -sin*dx + cos*dy
	sw, sh := p.ScaledSize()
	const eps = 1e-9
	return math.Abs(ux) <= sw/2+eps && math.Abs(uy) <= sh/2+eps
}

// Covers reports whether the drawn image covers every corner of b, and so
// (being convex) all of b.
func (p Placement) Covers(b Bounds) bool {
	return p.Contains(b.X, b.Y) &&
		p.Contains(b.X+b.Width, b.Y) &&
		p.Contains(b.X, b.Y+b.Height) &&
		p.Contains(b.X+b.Width, b.Y+b.Height)
}
