// Package watch re-renders a scene whenever the scene file or one of the
// images it references changes on disk.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xob0t/photocanvas/pkg/session"
)

// DefaultDebounce coalesces bursts of events from editors that write a
// file in several steps.
const DefaultDebounce = 300 * time.Millisecond

// RenderFunc renders the scene. Errors are logged and watching continues.
type RenderFunc func(ctx context.Context) error

// Watcher watches a scene file and its images.
type Watcher struct {
	scene    string
	render   RenderFunc
	debounce time.Duration
	log      *log.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event before a render.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch events and render errors.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a watcher for scenePath that calls render on changes.
func New(scenePath string, render RenderFunc, opts ...Option) *Watcher {
	w := &Watcher{
		scene:    scenePath,
		render:   render,
		debounce: DefaultDebounce,
		log:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run renders once, then re-renders after every change until ctx is done.
// Renders happen on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.scene)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.scene, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	targets, err := w.rewatch(fw, nil)
	if err != nil {
		return err
	}
	w.renderOnce(ctx)

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			if !targets[abs] {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Printf("watch: %v", err)

		case <-fire:
			w.log.Printf("watch: change detected, rendering %s", w.scene)
			w.renderOnce(ctx)
			if targets, err = w.rewatch(fw, targets); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) renderOnce(ctx context.Context) {
	start := time.Now()
	if err := w.render(ctx); err != nil {
		w.log.Printf("watch: render failed: %v", err)
		return
	}
	w.log.Printf("watch: rendered in %v", time.Since(start).Round(time.Millisecond))
}

// rewatch recomputes the watched files and adds their directories to fw.
// Directories already watched stay watched.
func (w *Watcher) rewatch(fw *fsnotify.Watcher, old map[string]bool) (map[string]bool, error) {
	targets, err := Targets(w.scene)
	if err != nil && old == nil {
		return nil, err
	}
	if err != nil {
		// Keep watching the old set while the scene file is mid-edit.
		w.log.Printf("watch: %v", err)
		return old, nil
	}

	dirs := make(map[string]bool)
	for _, d := range fw.WatchList() {
		dirs[d] = true
	}
	for path := range targets {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.log.Printf("watch: failed to watch dir %q: %v", dir, err)
			continue
		}
		dirs[dir] = true
	}
	return targets, nil
}

// Targets returns the absolute paths of the scene file and every image it
// references. The scene file is always included, even when it cannot be
// parsed.
func Targets(scenePath string) (map[string]bool, error) {
	abs, err := filepath.Abs(scenePath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", scenePath, err)
	}
	targets := map[string]bool{abs: true}

	sc, err := session.LoadScene(abs)
	if err != nil {
		return targets, nil
	}
	base := filepath.Dir(abs)
	for _, slot := range sc.Slots {
		if slot.Image == "" {
			continue
		}
		p := slot.Image
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		targets[filepath.Clean(p)] = true
	}
	return targets, nil
}
