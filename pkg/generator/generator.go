// Package generator serializes composed canvases to raster image files.
//
// All output follows one pipeline: the caller supplies a finished
// image.Image and the encoder is chosen from the file extension. Pixels are
// written as-is; no resampling or color conversion happens here.
package generator

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// DefaultJPEGQuality is used when Config.Quality is zero.
const DefaultJPEGQuality = 92

// ErrNoImage is returned when Config.Image is nil.
var ErrNoImage = errors.New("no image to encode")

// Config holds parameters for encoding.
type Config struct {
	Image   image.Image // Composed canvas to write
	Quality int         // JPEG quality 1-100 (default: 92)
}

// Generate creates an output file. The format is inferred from the file extension:
//   - ".png" → PNG image
//   - ".jpg", ".jpeg" → JPEG image
//   - ".bmp" → 24/32-bit BMP image
//   - ".tif", ".tiff" → TIFF image
func Generate(output string, cfg Config) error {
	enc, err := encoderFor(filepath.Ext(output))
	if err != nil {
		return err
	}
	if cfg.Image == nil {
		return ErrNoImage
	}
	return writeFile(output, func(w io.Writer) error {
		return enc.Encode(w, cfg)
	})
}

// GenerateToWriter writes the image to an io.Writer. The format is specified
// by ext, with or without the leading dot. This is useful for in-memory
// generation (HTTP responses, WASM).
func GenerateToWriter(w io.Writer, ext string, cfg Config) error {
	enc, err := encoderFor(ext)
	if err != nil {
		return err
	}
	if cfg.Image == nil {
		return ErrNoImage
	}
	return enc.Encode(w, cfg)
}

// FileName builds the export file name "<app-id>-<template-id>.<ext>".
//
// Example:
//
//	FileName("photo-canvas", "grid-4", "png") // "photo-canvas-grid-4.png"
func FileName(appID, templateID, ext string) string {
	return fmt.Sprintf("%s-%s.%s", appID, templateID, strings.TrimPrefix(strings.ToLower(ext), "."))
}

// ContentType returns the MIME type for ext, or "" if ext is not supported.
func ContentType(ext string) string {
	enc, err := encoderFor(ext)
	if err != nil {
		return ""
	}
	return enc.ContentType()
}
