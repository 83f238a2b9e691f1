package compose

import (
	"image"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCoverScale(t *testing.T) {
	tests := []struct {
		name       string
		b          Bounds
		imgW, imgH int
		want       float64
	}{
		{"square into square", Bounds{Width: 600, Height: 600}, 100, 100, 6},
		{"landscape into square", Bounds{Width: 600, Height: 600}, 200, 100, 6},
		{"portrait into wide", Bounds{Width: 400, Height: 100}, 100, 200, 4},
		{"empty image", Bounds{Width: 10, Height: 10}, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverScale(tt.b, tt.imgW, tt.imgH)
			if got != tt.want {
				t.Errorf("CoverScale() = %v, want %v", got, tt.want)
			}
			if tt.imgW > 0 && (got*float64(tt.imgW) < tt.b.Width || got*float64(tt.imgH) < tt.b.Height) {
				t.Errorf("scale %v does not cover %vx%v", got, tt.b.Width, tt.b.Height)
			}
		})
	}
}

func TestCornerRadius(t *testing.T) {
	b := Bounds{Width: 100, Height: 40}
	tests := []struct {
		r, want float64
	}{
		{10, 10},
		{50, 20},
		{-3, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := CornerRadius(tt.r, b); got != tt.want {
			t.Errorf("CornerRadius(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestPlace_CoverFitCoversSlot(t *testing.T) {
	sizes := [][2]int{{100, 100}, {400, 100}, {100, 400}, {37, 91}, {3000, 7}}
	slotsToTry := []Bounds{
		{X: 0, Y: 0, Width: 600, Height: 600},
		{X: 250, Y: 0, Width: 250, Height: 400},
		{X: 13.5, Y: 7.25, Width: 311, Height: 97},
	}

	for _, b := range slotsToTry {
		for _, sz := range sizes {
			p := Place(b, sz[0], sz[1], 1, 0, 0, 0)
			if p.Scale < b.Width/float64(sz[0]) || p.Scale < b.Height/float64(sz[1]) {
				t.Errorf("Place(%+v, %v).Scale = %v below a cover ratio", b, sz, p.Scale)
			}
			if !p.Covers(b) {
				t.Errorf("Place(%+v, %v) leaves part of the slot uncovered", b, sz)
			}
		}
	}
}

func TestPlace_ZoomMonotonic(t *testing.T) {
	b := Bounds{X: 100, Y: 50, Width: 300, Height: 200}

	for _, rot := range []float64{0, 15, 45, 90, -120} {
		for _, off := range []float64{0, 40, -150} {
			prevScale := 0.0
			prevCovers := false
			for zoom := 1.0; zoom <= 3.0; zoom += 0.25 {
				p := Place(b, 640, 480, zoom, rot, off, off/2)
				if p.Scale <= prevScale {
					t.Errorf("rot %v off %v zoom %v: scale %v not above %v", rot, off, zoom, p.Scale, prevScale)
				}
				covers := p.Covers(b)
				if prevCovers && !covers {
					t.Errorf("rot %v off %v zoom %v: coverage lost while zooming in", rot, off, zoom)
				}
				prevScale, prevCovers = p.Scale, covers
			}
		}
	}
}

func TestPlace_ZoomBelowOneClamped(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	for _, z := range []float64{0, 0.5, math.NaN()} {
		if p := Place(b, 50, 50, z, 0, 0, 0); p.Scale != 2 {
			t.Errorf("Place(zoom=%v).Scale = %v, want 2", z, p.Scale)
		}
	}
}

func TestPlacement_IdentityMatrix(t *testing.T) {
	// Zoom 1, no rotation: the image is centered in the slot.
	b := Bounds{X: 600, Y: 0, Width: 600, Height: 600}
	p := Place(b, 100, 100, 1, 0, 0, 0)

	x, y := p.Apply(0, 0)
	if !near(x, 600) || !near(y, 0) {
		t.Errorf("top-left maps to (%v, %v), want (600, 0)", x, y)
	}
	x, y = p.Apply(100, 100)
	if !near(x, 1200) || !near(y, 600) {
		t.Errorf("bottom-right maps to (%v, %v), want (1200, 600)", x, y)
	}
}

func TestPlacement_MatrixHonorsOrigin(t *testing.T) {
	b := Bounds{Width: 200, Height: 200}
	p := Place(b, 100, 100, 1, 0, 0, 0)
	m := p.Matrix(image.Pt(50, 20))

	// Source pixel (50, 20) is the image's top-left corner.
	x := m[0]*50 + m[1]*20 + m[2]
	y := m[3]*50 + m[4]*20 + m[5]
	if !near(x, 0) || !near(y, 0) {
		t.Errorf("origin maps to (%v, %v), want (0, 0)", x, y)
	}
}

// Scenario D: zoom 2, rotation 90°, offset (50, 0) on a square image.
func TestPlace_ScenarioD(t *testing.T) {
	b := Bounds{X: 0, Y: 0, Width: 600, Height: 600}
	p := Place(b, 100, 100, 2, 90, 50, 0)

	if p.CoverScale != 6 || p.Scale != 12 {
		t.Fatalf("scales = %v/%v, want 6/12", p.CoverScale, p.Scale)
	}
	if p.CenterX != 350 || p.CenterY != 300 {
		t.Fatalf("center = (%v, %v), want (350, 300)", p.CenterX, p.CenterY)
	}

	// The image center sits on the shifted slot center.
	cx, cy := p.Apply(50, 50)
	if !near(cx, 350) || !near(cy, 300) {
		t.Errorf("image center maps to (%v, %v), want (350, 300)", cx, cy)
	}

	// A quarter turn clockwise in canvas space sends the top-left corner to
	// the top-right of the 1200px square around the center.
	x, y := p.Apply(0, 0)
	if !near(x, 350+600) || !near(y, 300-600) {
		t.Errorf("top-left maps to (%v, %v), want (950, -300)", x, y)
	}
	x, y = p.Apply(100, 0)
	if !near(x, 350+600) || !near(y, 300+600) {
		t.Errorf("top-right maps to (%v, %v), want (950, 900)", x, y)
	}

	if !p.Covers(b) {
		t.Error("scenario D placement should still cover the slot")
	}
}

func TestPlacement_ContainsFarPan(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	p := Place(b, 10, 10, 1, 0, 10000, 0)
	if p.Covers(b) || p.Contains(50, 50) {
		t.Error("image panned far away should not cover the slot")
	}
}
