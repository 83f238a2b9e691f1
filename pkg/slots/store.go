// Package slots holds the per-slot transform state of the active template.
//
// A Store is owned by a single goroutine (the session's event loop) and is
// not safe for concurrent use. Image decoding happens elsewhere; the store
// only guards against stale completions through Tickets.
package slots

import (
	"image"
	"math"
)

// Control ranges. Values outside them are clamped.
const (
	MinZoom     = 1.0
	MaxZoom     = 3.0
	MinRotation = -180.0
	MaxRotation = 180.0
)

// State is the transform state of one slot.
type State struct {
	Image    image.Image
	Zoom     float64
	Rotation float64 // degrees
	OffsetX  float64 // canvas pixels, relative to the slot center
	OffsetY  float64
}

// Filled reports whether the slot has an image assigned.
func (s State) Filled() bool {
	return s.Image != nil
}

// DefaultState returns the state of an empty slot.
func DefaultState() State {
	return State{Zoom: 1}
}

type entry struct {
	State
	generation uint64
}

// Store keeps one State per slot index of the active template.
type Store struct {
	entries []entry
	epoch   uint64
}

// NewStore returns a store with n default slots.
func NewStore(n int) *Store {
	s := &Store{}
	s.Reset(n)
	return s
}

// Reset discards all per-slot state and creates n default slots.
// Tickets issued before the reset become stale.
func (s *Store) Reset(n int) {
	n = max(n, 0)
	s.epoch++
	s.entries = make([]entry, n)
	for i := range s.entries {
		s.entries[i].State = DefaultState()
	}
}

// Len returns the number of slots.
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) inRange(i int) bool {
	return i >= 0 && i < len(s.entries)
}

// AssignImage sets the slot image and resets its transform. It returns
// false and changes nothing when i is out of range or img is nil.
func (s *Store) AssignImage(i int, img image.Image) bool {
	if !s.inRange(i) || img == nil {
		return false
	}
	e := &s.entries[i]
	e.State = DefaultState()
	e.Image = img
	e.generation++
	return true
}

// ClearImage empties the slot and resets its transform. Clearing an empty
// slot is a no-op apart from invalidating outstanding tickets.
func (s *Store) ClearImage(i int) {
	if !s.inRange(i) {
		return
	}
	e := &s.entries[i]
	e.State = DefaultState()
	e.generation++
}

// SetZoom updates the zoom of a filled slot, clamped to [MinZoom, MaxZoom].
func (s *Store) SetZoom(i int, v float64) {
	e, ok := s.filled(i)
	if !ok || math.IsNaN(v) {
		return
	}
	e.Zoom = clamp(v, MinZoom, MaxZoom)
}

// SetRotation updates the rotation of a filled slot, clamped to
// [MinRotation, MaxRotation] degrees.
func (s *Store) SetRotation(i int, deg float64) {
	e, ok := s.filled(i)
	if !ok || math.IsNaN(deg) {
		return
	}
	e.Rotation = clamp(deg, MinRotation, MaxRotation)
}

// ApplyPanDelta accumulates a pan offset in canvas pixels. The offset is
// unbounded; non-finite deltas are ignored.
func (s *Store) ApplyPanDelta(i int, dx, dy float64) {
	e, ok := s.filled(i)
	if !ok || !finite(dx) || !finite(dy) {
		return
	}
	e.OffsetX += dx
	e.OffsetY += dy
}

// CountFilled returns the number of slots with an image.
func (s *Store) CountFilled() int {
	n := 0
	for _, e := range s.entries {
		if e.Image != nil {
			n++
		}
	}
	return n
}

// State returns the state of slot i.
func (s *Store) State(i int) (State, bool) {
	if !s.inRange(i) {
		return State{}, false
	}
	return s.entries[i].State, true
}

// States returns a snapshot of all slot states in index order.
func (s *Store) States() []State {
	out := make([]State, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.State
	}
	return out
}

func (s *Store) filled(i int) (*entry, bool) {
	if !s.inRange(i) || s.entries[i].Image == nil {
		return nil, false
	}
	return &s.entries[i], true
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
