// file.go - File writer shared by all encoders.
package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeFile encodes into a temporary file next to output and renames it into
// place, so a failed encode never leaves a truncated image behind.
func writeFile(output string, encode func(io.Writer) error) error {
	dir := filepath.Dir(output)
	f, err := os.CreateTemp(dir, ".photocanvas-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	tmp := f.Name()

	if err := encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := os.Rename(tmp, output); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
