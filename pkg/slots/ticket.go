// ticket.go: Generation tokens that keep slow decodes from overwriting
// newer slot state.
package slots

import "image"

// Ticket identifies one pending image load for a slot. It stays current
// until the slot is cleared, assigned, re-targeted by a newer Begin, or the
// whole store is reset.
type Ticket struct {
	Slot       int
	generation uint64
	epoch      uint64
}

// Begin starts a load for slot i and returns its ticket. Any earlier
// ticket for the same slot becomes stale.
func (s *Store) Begin(i int) (Ticket, bool) {
	if !s.inRange(i) {
		return Ticket{}, false
	}
	e := &s.entries[i]
	e.generation++
	return Ticket{Slot: i, generation: e.generation, epoch: s.epoch}, true
}

// Current reports whether t is still the latest ticket for its slot.
func (s *Store) Current(t Ticket) bool {
	return t.epoch == s.epoch && s.inRange(t.Slot) && s.entries[t.Slot].generation == t.generation
}

// Complete assigns img to the ticket's slot if the ticket is still current.
func (s *Store) Complete(t Ticket, img image.Image) bool {
	if !s.Current(t) {
		return false
	}
	return s.AssignImage(t.Slot, img)
}

// Fail clears the ticket's slot if the ticket is still current.
func (s *Store) Fail(t Ticket) bool {
	if !s.Current(t) {
		return false
	}
	s.ClearImage(t.Slot)
	return true
}
