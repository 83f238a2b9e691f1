// compositor.go - Slot-layout compositing engine.
// Fills the background, then draws each occupied slot's image through a
// rounded-rectangle clip with cover-fit scaling plus the slot's zoom,
// rotation and pan.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/photocanvas/pkg/slots"
	"github.com/xob0t/photocanvas/pkg/template"
)

// Compositor renders templates and slot states into a raster buffer.
// Rendering is a pure function of its inputs: the same template, config and
// states always produce the same pixels.
type Compositor struct {
	interp draw.Interpolator
	labels *FontManager // nil disables placeholder labels
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithInterpolator sets the resampling kernel used to draw slot images.
func WithInterpolator(interp draw.Interpolator) Option {
	return func(c *Compositor) {
		if interp != nil {
			c.interp = interp
		}
	}
}

// WithPlaceholders labels empty slots "Slot N" using fm. Intended for
// previews; exports should render without it.
func WithPlaceholders(fm *FontManager) Option {
	return func(c *Compositor) {
		c.labels = fm
	}
}

// New creates a compositor. The default interpolator is bilinear.
func New(opts ...Option) *Compositor {
	c := &Compositor{interp: draw.BiLinear}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interpolators maps config names to resampling kernels.
var Interpolators = map[string]draw.Interpolator{
	"nearest":         draw.NearestNeighbor,
	"approx-bilinear": draw.ApproxBiLinear,
	"bilinear":        draw.BiLinear,
	"catmull-rom":     draw.CatmullRom,
}

// ParseInterpolator looks up an interpolator by name. An empty name yields
// bilinear.
func ParseInterpolator(name string) (draw.Interpolator, error) {
	if name == "" {
		return draw.BiLinear, nil
	}
	interp, ok := Interpolators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown interpolator %q: use nearest, approx-bilinear, bilinear or catmull-rom", name)
	}
	return interp, nil
}

// Render allocates a canvas sized for t and cfg and renders into it.
func (c *Compositor) Render(t template.Template, cfg Config, states []slots.State) *image.RGBA {
	w, h := cfg.CanvasSize(t)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	c.RenderAll(dst, t, cfg, states)
	return dst
}

// RenderInto renders into buf, reallocating it only when its size does not
// match the canvas for t and cfg. It returns the buffer that was drawn.
func (c *Compositor) RenderInto(buf *image.RGBA, t template.Template, cfg Config, states []slots.State) *image.RGBA {
	w, h := cfg.CanvasSize(t)
	if buf == nil || buf.Bounds() != image.Rect(0, 0, w, h) {
		buf = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	c.RenderAll(buf, t, cfg, states)
	return buf
}

// RenderAll composes the slots of t onto dst. Slot geometry is resolved
// against dst's size; states is indexed by slot, and missing entries are
// treated as empty slots. It works in layers:
// 1. Fills the whole buffer with the background color
// 2. Resolves each slot's pixel bounds, skipping empty or degenerate slots
// 3. Draws each image through its own rounded-rectangle clip.
func (c *Compositor) RenderAll(dst *image.RGBA, t template.Template, cfg Config, states []slots.State) {
	cfg = cfg.Normalize()
	db := dst.Bounds()

	draw.Draw(dst, db, image.NewUniform(cfg.Background), image.Point{}, draw.Src)

	canvasW, canvasH := float64(db.Dx()), float64(db.Dy())
	for i, rect := range t.Slots {
		b := ResolveSlotBounds(rect, canvasW, canvasH, cfg.Margin)
		if b.Degenerate() {
			continue
		}
		b.X += float64(db.Min.X)
		b.Y += float64(db.Min.Y)

		var st slots.State
		if i < len(states) {
			st = states[i]
		}
		if st.Image == nil || st.Image.Bounds().Empty() {
			if c.labels != nil {
				c.drawLabel(dst, b, i, cfg.Background)
			}
			continue
		}

		c.drawSlot(dst, b, cfg.CornerRadius, st)
	}
}

// drawSlot draws one image clipped to the rounded slot rectangle. The mask
// is built per slot so clips never leak between slots.
func (c *Compositor) drawSlot(dst *image.RGBA, b Bounds, radius float64, st slots.State) {
	mask := RoundedRectMask(b, CornerRadius(radius, b))

	// Drawing into the slot's sub-image keeps the transform from touching
	// pixels the mask would reject anyway. Coordinates stay absolute.
	clip, ok := dst.SubImage(mask.Bounds()).(*image.RGBA)
	if !ok || clip.Bounds().Empty() {
		return
	}

	sr := st.Image.Bounds()
	p := Place(b, sr.Dx(), sr.Dy(), st.Zoom, st.Rotation, st.OffsetX, st.OffsetY)

	c.interp.Transform(clip, p.Matrix(sr.Min), st.Image, sr, draw.Over, &draw.Options{
		DstMask: mask,
	})
}

// drawLabel writes a centered "Slot N" into an empty slot.
func (c *Compositor) drawLabel(dst *image.RGBA, b Bounds, index int, bg color.RGBA) {
	size := min(b.Width, b.Height) / 6
	size = min(max(size, 8), 48)

	face, err := c.labels.Face(size)
	if err != nil {
		return
	}

	text := fmt.Sprintf("Slot %d", index+1)
	advance := font.MeasureString(face, text)
	m := face.Metrics()

	cx, cy := b.Center()
	x := fixed.Int26_6(cx*64) - advance/2
	y := fixed.Int26_6(cy*64) + (m.Ascent-m.Descent)/2

	clip, ok := dst.SubImage(b.Rect()).(*image.RGBA)
	if !ok {
		return
	}
	d := &font.Drawer{
		Dst:  clip,
		Src:  image.NewUniform(labelColor(bg)),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(text)
}

// labelColor picks a half-transparent black or white that contrasts with bg.
func labelColor(bg color.RGBA) color.Color {
	lum := 299*uint32(bg.R) + 587*uint32(bg.G) + 114*uint32(bg.B)
	if lum > 128*1000 {
		return color.NRGBA{0, 0, 0, 0x80}
	}
	return color.NRGBA{255, 255, 255, 0x80}
}
