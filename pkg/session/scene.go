// scene.go - Headless scene files: a template id, canvas settings and one
// image path plus transform per slot.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/imageio"
	"github.com/xob0t/photocanvas/pkg/slots"
)

// Scene describes a complete collage.
type Scene struct {
	Template string      `json:"template"`
	Canvas   SceneCanvas `json:"canvas"`
	Slots    []SceneSlot `json:"slots"`
}

// SceneCanvas holds canvas overrides. Absent fields keep the session's
// current settings.
type SceneCanvas struct {
	Width      int      `json:"width,omitempty"`
	Background string   `json:"background,omitempty"`
	Margin     *float64 `json:"margin,omitempty"`
	Radius     *float64 `json:"radius,omitempty"`
}

// SceneSlot is one slot's image and transform. An empty Image leaves the
// slot empty.
type SceneSlot struct {
	Image    string  `json:"image,omitempty"`
	Zoom     float64 `json:"zoom,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	OffsetX  float64 `json:"offsetX,omitempty"`
	OffsetY  float64 `json:"offsetY,omitempty"`
}

// ParseScene decodes a scene from JSON.
func ParseScene(data []byte) (*Scene, error) {
	var sc Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &sc, nil
}

// LoadScene reads a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

// ApplyConfig returns base with the scene's canvas overrides applied.
func (c SceneCanvas) ApplyConfig(base compose.Config, warn func(string)) compose.Config {
	if c.Width != 0 {
		base.Width = c.Width
	}
	if c.Background != "" {
		bg, err := compose.ParseHexColor(c.Background)
		if err != nil {
			warn(fmt.Sprintf("canvas background: %v", err))
		} else {
			base.Background = bg
		}
	}
	if c.Margin != nil {
		base.Margin = *c.Margin
	}
	if c.Radius != nil {
		base.CornerRadius = *c.Radius
	}
	return base.Normalize()
}

// ApplyScene replaces the session state with sc. Image paths are resolved
// against baseDir. All images are decoded concurrently, then applied in
// slot order. Problems that leave part of the scene unapplied (unknown
// template, extra slots, unreadable images) are returned as warnings; the
// error is only set when ctx is done.
func (s *Session) ApplyScene(ctx context.Context, sc *Scene, baseDir string) ([]string, error) {
	var warnings []string
	warn := func(msg string) {
		warnings = append(warnings, msg)
		s.log.Printf("session: %s", msg)
	}

	if sc.Template == "" || !s.SelectTemplate(sc.Template) {
		if sc.Template != "" {
			warn(fmt.Sprintf("unknown template %q, keeping %q", sc.Template, s.active.ID))
		}
		s.activate(s.active)
	}
	s.cfg = sc.Canvas.ApplyConfig(s.cfg, warn)

	n := min(len(sc.Slots), s.store.Len())
	if len(sc.Slots) > n {
		warn(fmt.Sprintf("template %s has %d slots, ignoring %d extra", s.active.ID, n, len(sc.Slots)-n))
	}

	paths := make([]string, n)
	tickets := make([]slots.Ticket, n)
	for i := 0; i < n; i++ {
		p := sc.Slots[i].Image
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		paths[i] = p
		tickets[i], _ = s.store.Begin(i)
	}

	results := imageio.DecodeAll(ctx, paths, s.decode, runtime.NumCPU())
	if err := ctx.Err(); err != nil {
		return warnings, err
	}

	for i, r := range results {
		if r.Path == "" {
			continue
		}
		if err := s.Apply(LoadResult{Ticket: tickets[i], Image: r.Image, Err: r.Err}); err != nil {
			warn(err.Error())
			continue
		}
		slot := sc.Slots[i]
		s.store.SetZoom(i, max(slot.Zoom, slots.MinZoom))
		s.store.SetRotation(i, slot.Rotation)
		s.store.ApplyPanDelta(i, slot.OffsetX, slot.OffsetY)
	}
	return warnings, nil
}

// Scene captures the session's current template, canvas and transforms.
// Image paths cannot be recovered from decoded images, so the caller
// supplies them by slot index; missing entries are left empty.
func (s *Session) Scene(imagePaths []string) *Scene {
	margin, radius := s.cfg.Margin, s.cfg.CornerRadius
	sc := &Scene{
		Template: s.active.ID,
		Canvas: SceneCanvas{
			Width:      s.cfg.Width,
			Background: compose.FormatHex(s.cfg.Background),
			Margin:     &margin,
			Radius:     &radius,
		},
	}
	for i, st := range s.store.States() {
		slot := SceneSlot{}
		if st.Filled() {
			if i < len(imagePaths) {
				slot.Image = imagePaths[i]
			}
			slot.Zoom, slot.Rotation = st.Zoom, st.Rotation
			slot.OffsetX, slot.OffsetY = st.OffsetX, st.OffsetY
		}
		sc.Slots = append(sc.Slots, slot)
	}
	return sc
}
