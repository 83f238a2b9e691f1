package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/xob0t/photocanvas/pkg/imageio"
	"github.com/xob0t/photocanvas/pkg/slots"
)

// LoadResult is the outcome of decoding an image for a slot.
type LoadResult struct {
	Ticket slots.Ticket
	Image  image.Image
	Err    error
}

// BeginLoad starts a load for slot i. Loads begun earlier for the same slot
// become stale.
func (s *Session) BeginLoad(i int) (slots.Ticket, bool) {
	return s.store.Begin(i)
}

// Load decodes src for ticket t. It blocks for the duration of the decode
// and touches no session state, so it may run on any goroutine. Pass the
// result to Apply on the event loop.
func (s *Session) Load(ctx context.Context, t slots.Ticket, src io.Reader) LoadResult {
	if err := ctx.Err(); err != nil {
		return LoadResult{Ticket: t, Err: err}
	}
	img, _, err := imageio.Decode(src, s.decode)
	return LoadResult{Ticket: t, Image: img, Err: err}
}

// LoadPath is Load for a file on disk.
func (s *Session) LoadPath(ctx context.Context, t slots.Ticket, path string) LoadResult {
	img, err := imageio.DecodeFile(ctx, path, s.decode)
	return LoadResult{Ticket: t, Image: img, Err: err}
}

// Apply completes a load. Stale results are dropped with ErrStaleLoad. A
// failed decode clears the slot, notifies observers and returns the decode
// error. Otherwise the image is assigned with a fresh transform.
func (s *Session) Apply(r LoadResult) error {
	i := r.Ticket.Slot
	if !s.store.Current(r.Ticket) {
		s.log.Printf("session: slot %d: discarding stale image load", i+1)
		return ErrStaleLoad
	}

	err := r.Err
	if err == nil && r.Image == nil {
		err = errors.New("decoder returned no image")
	}
	if err != nil {
		s.store.Fail(r.Ticket)
		err = fmt.Errorf("load slot %d: %w", i+1, err)
		s.notifyFailed(i, err)
		s.notifySlot(i, false)
		return err
	}

	s.store.Complete(r.Ticket, r.Image)
	s.notifySlot(i, true)
	return nil
}

// LoadFile decodes path into slot i synchronously.
func (s *Session) LoadFile(ctx context.Context, i int, path string) error {
	t, ok := s.BeginLoad(i)
	if !ok {
		return s.rangeErr(i)
	}
	return s.Apply(s.LoadPath(ctx, t, path))
}
