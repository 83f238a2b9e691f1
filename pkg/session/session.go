// Package session is the top-level controller of one collage: it owns the
// active template, the slot store, the canvas settings and the canvas
// buffer, and turns user intents into store mutations and renders.
//
// A Session is not safe for concurrent use. All calls except Load must come
// from one goroutine (the event loop); Load only decodes and may run
// anywhere, its result is handed back through Apply.
package session

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/imageio"
	"github.com/xob0t/photocanvas/pkg/slots"
	"github.com/xob0t/photocanvas/pkg/template"
)

// DefaultAppID prefixes exported file names.
const DefaultAppID = "photo-canvas"

var (
	// ErrNothingToExport is returned by Export when no slot has an image.
	ErrNothingToExport = errors.New("nothing to export: no slot has an image")
	// ErrStaleLoad is returned by Apply for a load whose slot was cleared,
	// reassigned or reset after the load began.
	ErrStaleLoad = errors.New("stale image load discarded")
	// ErrSlotRange is returned for slot indexes outside the active template.
	ErrSlotRange = errors.New("slot index out of range")
)

// Observer is notified of slot changes that the UI must reflect, such as
// enabling or disabling a slot's controls.
type Observer interface {
	SlotChanged(slot int, filled bool)
	LoadFailed(slot int, err error)
}

// Session holds the state of one collage being edited.
type Session struct {
	catalog *template.Catalog
	active  template.Template
	store   *slots.Store
	cfg     compose.Config

	comp    *compose.Compositor
	preview *compose.Compositor // nil: previews match exports
	canvas  *image.RGBA
	scratch *image.RGBA

	observers []Observer
	log       *log.Logger
	appID     string
	decode    imageio.Options
	quality   int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes diagnostic messages (stale loads, scene warnings) to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver registers o for slot notifications.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithCompositor replaces the default bilinear compositor used for renders
// and exports.
func WithCompositor(c *compose.Compositor) Option {
	return func(s *Session) {
		if c != nil {
			s.comp = c
		}
	}
}

// WithPreviewCompositor sets the compositor used by Preview, typically one
// that labels empty slots.
func WithPreviewCompositor(c *compose.Compositor) Option {
	return func(s *Session) {
		s.preview = c
	}
}

// WithConfig sets the initial canvas settings.
func WithConfig(cfg compose.Config) Option {
	return func(s *Session) {
		s.cfg = cfg.Normalize()
	}
}

// WithAppID sets the export file name prefix.
func WithAppID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.appID = id
		}
	}
}

// WithDecodeOptions sets the options used when decoding images.
func WithDecodeOptions(opts imageio.Options) Option {
	return func(s *Session) {
		s.decode = opts
	}
}

// WithJPEGQuality sets the quality of JPEG exports.
func WithJPEGQuality(q int) Option {
	return func(s *Session) {
		s.quality = q
	}
}

// New creates a session over catalog and activates its default template.
// A nil or empty catalog falls back to the built-in templates.
func New(catalog *template.Catalog, opts ...Option) *Session {
	if catalog == nil || catalog.Len() == 0 {
		catalog = template.Builtin()
	}
	s := &Session{
		catalog: catalog,
		store:   slots.NewStore(0),
		cfg:     compose.DefaultConfig(),
		comp:    compose.New(),
		log:     log.New(io.Discard, "", 0),
		appID:   DefaultAppID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.activate(catalog.Default())
	return s
}

// Templates returns the selectable templates in catalog order.
func (s *Session) Templates() []template.Template {
	return s.catalog.List()
}

// Catalog returns the session's template catalog.
func (s *Session) Catalog() *template.Catalog {
	return s.catalog
}

// Active returns the active template.
func (s *Session) Active() template.Template {
	return s.active
}

// AppID returns the export file name prefix.
func (s *Session) AppID() string {
	return s.appID
}

// SelectTemplate activates the template with the given id and discards all
// slot state. Unknown ids leave the session untouched and return false.
func (s *Session) SelectTemplate(id string) bool {
	t, ok := s.catalog.Find(id)
	if !ok {
		s.log.Printf("session: unknown template %q ignored", id)
		return false
	}
	s.activate(t)
	return true
}

func (s *Session) activate(t template.Template) {
	s.active = t
	s.store.Reset(t.SlotCount())
	for i := range t.Slots {
		s.notifySlot(i, false)
	}
}

// SetConfig replaces the canvas settings. Values are normalized.
func (s *Session) SetConfig(cfg compose.Config) {
	s.cfg = cfg.Normalize()
}

// Config returns the normalized canvas settings.
func (s *Session) Config() compose.Config {
	return s.cfg
}

// CanvasSize returns the pixel size of the canvas for the active template.
func (s *Session) CanvasSize() (width, height int) {
	return s.cfg.CanvasSize(s.active)
}

// SlotCount returns the number of slots of the active template.
func (s *Session) SlotCount() int {
	return s.store.Len()
}

// Slot returns the state of slot i.
func (s *Session) Slot(i int) (slots.State, bool) {
	return s.store.State(i)
}

// States returns a snapshot of every slot in index order.
func (s *Session) States() []slots.State {
	return s.store.States()
}

// FilledSlots returns how many slots have an image.
func (s *Session) FilledSlots() int {
	return s.store.CountFilled()
}

// CanExport reports whether at least one slot has an image.
func (s *Session) CanExport() bool {
	return s.store.CountFilled() > 0
}

// AssignImage puts an already decoded image into slot i, resetting its
// transform.
func (s *Session) AssignImage(i int, img image.Image) error {
	if img == nil {
		return fmt.Errorf("assign slot %d: nil image", i+1)
	}
	if !s.store.AssignImage(i, img) {
		return s.rangeErr(i)
	}
	s.notifySlot(i, true)
	return nil
}

// ClearSlot removes slot i's image and resets its transform. Any load in
// flight for the slot is invalidated.
func (s *Session) ClearSlot(i int) error {
	if i < 0 || i >= s.store.Len() {
		return s.rangeErr(i)
	}
	s.store.ClearImage(i)
	s.notifySlot(i, false)
	return nil
}

// SetZoom sets slot i's zoom, clamped to [1, 3]. Empty slots ignore it.
func (s *Session) SetZoom(i int, v float64) error {
	if i < 0 || i >= s.store.Len() {
		return s.rangeErr(i)
	}
	s.store.SetZoom(i, v)
	return nil
}

// SetRotation sets slot i's rotation in degrees, clamped to [-180, 180].
// Empty slots ignore it.
func (s *Session) SetRotation(i int, deg float64) error {
	if i < 0 || i >= s.store.Len() {
		return s.rangeErr(i)
	}
	s.store.SetRotation(i, deg)
	return nil
}

// Pan moves slot i's image by (dx, dy) canvas pixels.
func (s *Session) Pan(i int, dx, dy float64) error {
	if i < 0 || i >= s.store.Len() {
		return s.rangeErr(i)
	}
	s.store.ApplyPanDelta(i, dx, dy)
	return nil
}

// Drag pans slot i by a pointer movement measured on a preview displayed at
// displayW x displayH. The movement is scaled to canvas pixels per axis.
func (s *Session) Drag(i int, dxDisplay, dyDisplay, displayW, displayH float64) error {
	w, h := s.CanvasSize()
	dx, dy := compose.DisplayToCanvas(dxDisplay, dyDisplay, w, h, displayW, displayH)
	return s.Pan(i, dx, dy)
}

// Render draws the current state into the session's canvas buffer and
// returns it. The buffer is reused across calls and only reallocated when
// the canvas size changes; callers must not keep it across mutations.
func (s *Session) Render() *image.RGBA {
	s.canvas = s.comp.RenderInto(s.canvas, s.active, s.cfg, s.store.States())
	return s.canvas
}

// Preview renders like Render but through the preview compositor, if one
// was configured. It uses a separate buffer, so a preview never leaks into
// an export.
func (s *Session) Preview() *image.RGBA {
	if s.preview == nil {
		return s.Render()
	}
	s.scratch = s.preview.RenderInto(s.scratch, s.active, s.cfg, s.store.States())
	return s.scratch
}

func (s *Session) rangeErr(i int) error {
	return fmt.Errorf("slot %d of %d: %w", i+1, s.store.Len(), ErrSlotRange)
}

func (s *Session) notifySlot(i int, filled bool) {
	for _, o := range s.observers {
		o.SlotChanged(i, filled)
	}
}

func (s *Session) notifyFailed(i int, err error) {
	for _, o := range s.observers {
		o.LoadFailed(i, err)
	}
}
