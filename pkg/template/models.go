// Package template defines the slot layouts photos are arranged into.
package template

// ── Template types ──

// Rect is a slot region in normalized 0.0–1.0 coordinates relative to the
// template's bounding box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Template is a named, fixed arrangement of slots plus a canvas aspect ratio.
// AspectRatio is canvasHeight / canvasWidth.
type Template struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	AspectRatio float64 `json:"aspectRatio"`
	Slots       []Rect  `json:"slots"`
}

// SlotCount returns the number of slots in the template.
func (t Template) SlotCount() int {
	return len(t.Slots)
}

// clone returns a deep copy so catalog entries never share slot storage
// with callers.
func (t Template) clone() Template {
	c := t
	c.Slots = append([]Rect(nil), t.Slots...)
	return c
}

// ── Catalog file types ──

// CatalogFile is the top-level structure of a templates.json file.
type CatalogFile struct {
	Meta      Meta       `json:"meta"`
	Templates []Template `json:"templates"`
}

// Meta holds catalog file metadata.
type Meta struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
}
