package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xob0t/photocanvas/pkg/generator"
)

// ExportName returns the file name an export in format ext would get.
func (s *Session) ExportName(ext string) string {
	return generator.FileName(s.appID, s.active.ID, ext)
}

// Export renders the current state and writes it to w in format ext. It
// returns the file name the export should be saved under.
func (s *Session) Export(w io.Writer, ext string) (string, error) {
	if !s.CanExport() {
		return "", ErrNothingToExport
	}
	img := s.Render()
	if err := generator.GenerateToWriter(w, ext, generator.Config{Image: img, Quality: s.quality}); err != nil {
		return "", err
	}
	return s.ExportName(ext), nil
}

// ExportFile exports into dir, creating it if needed, and returns the path
// written.
func (s *Session) ExportFile(dir, ext string) (string, error) {
	if !s.CanExport() {
		return "", ErrNothingToExport
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, s.ExportName(ext))
	if err := s.ExportTo(path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportTo writes the export to an explicit path; the format comes from its
// extension.
func (s *Session) ExportTo(path string) error {
	if !s.CanExport() {
		return ErrNothingToExport
	}
	return generator.Generate(path, generator.Config{Image: s.Render(), Quality: s.quality})
}
