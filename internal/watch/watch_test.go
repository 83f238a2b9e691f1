package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTargets(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.json")
	abs := filepath.Join(t.TempDir(), "abs.png")
	data := `{"template":"grid-4","slots":[{"image":"photos/a.jpg"},{},{"image":"` + filepath.ToSlash(abs) + `"}]}`
	if err := os.WriteFile(scene, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Targets(scene)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{scene, filepath.Join(dir, "photos", "a.jpg"), abs} {
		if !got[want] {
			t.Errorf("Targets() missing %s; got %v", want, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("Targets() = %v, want 3 entries", got)
	}
}

func TestTargets_UnparsableScene(t *testing.T) {
	scene := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(scene, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Targets(scene)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[scene] {
		t.Errorf("Targets() = %v, want only the scene file", got)
	}
}

func TestRun_RerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(scene, []byte(`{"template":"grid-4"}`), 0644); err != nil {
		t.Fatal(err)
	}

	renders := make(chan struct{}, 16)
	w := New(scene, func(ctx context.Context) error {
		renders <- struct{}{}
		return nil
	}, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	wait := func(what string) {
		t.Helper()
		select {
		case <-renders:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", what)
		}
	}
	wait("initial render")

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(scene, []byte(`{"template":"wide-film"}`), 0644); err != nil {
		t.Fatal(err)
	}
	wait("render after scene change")

	select {
	case <-renders:
		t.Error("unexpected extra render")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_MissingScene(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	w := New(filepath.Join(dir, "scene.json"), func(context.Context) error { return nil })
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() on a missing directory should fail")
	}
}
