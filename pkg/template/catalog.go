// catalog.go: Immutable template registry and the built-in layouts.
package template

// Catalog is an ordered, read-only set of templates looked up by id.
// A Catalog is safe to share between sessions.
type Catalog struct {
	templates []Template
	index     map[string]int
}

// NewCatalog builds a catalog from the given templates, copying them.
// When an id repeats, the later definition replaces the earlier one in place.
func NewCatalog(templates ...Template) *Catalog {
	c := &Catalog{index: make(map[string]int, len(templates))}
	for _, t := range templates {
		t = t.clone()
		if i, ok := c.index[t.ID]; ok {
			c.templates[i] = t
			continue
		}
		c.index[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c
}

// List returns all templates in catalog order.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.clone()
	}
	return out
}

// Find looks up a template by id.
func (c *Catalog) Find(id string) (Template, bool) {
	i, ok := c.index[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[i].clone(), true
}

// Default returns the first template of the catalog, or the zero Template
// when the catalog is empty.
func (c *Catalog) Default() Template {
	if len(c.templates) == 0 {
		return Template{}
	}
	return c.templates[0].clone()
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// IDs returns template ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.templates))
	for i, t := range c.templates {
		ids[i] = t.ID
	}
	return ids
}

// Builtin returns the catalog of layouts shipped with the application.
func Builtin() *Catalog {
	return NewCatalog(builtinTemplates()...)
}

func builtinTemplates() []Template {
	return []Template{
		{
			ID:          "grid-4",
			Name:        "2 × 2 Grid",
			Description: "Square layout, perfect for even story grids.",
			AspectRatio: 1,
			Slots: []Rect{
				{X: 0, Y: 0, W: 0.5, H: 0.5},
				{X: 0.5, Y: 0, W: 0.5, H: 0.5},
				{X: 0, Y: 0.5, W: 0.5, H: 0.5},
				{X: 0.5, Y: 0.5, W: 0.5, H: 0.5},
			},
		},
		{
			ID:          "wide-film",
			Name:        "Film Strip",
			Description: "Panoramic strip with four equal frames.",
			AspectRatio: 0.4,
			Slots: []Rect{
				{X: 0, Y: 0, W: 0.25, H: 1},
				{X: 0.25, Y: 0, W: 0.25, H: 1},
				{X: 0.5, Y: 0, W: 0.25, H: 1},
				{X: 0.75, Y: 0, W: 0.25, H: 1},
			},
		},
		{
			ID:          "one-plus-three",
			Name:        "Hero + Stack",
			Description: "Large hero panel with a supporting column of three.",
			AspectRatio: 0.8,
			Slots: []Rect{
				{X: 0, Y: 0, W: 0.65, H: 1},
				{X: 0.65, Y: 0, W: 0.35, H: 1.0 / 3},
				{X: 0.65, Y: 1.0 / 3, W: 0.35, H: 1.0 / 3},
				{X: 0.65, Y: 2.0 / 3, W: 0.35, H: 1.0 / 3},
			},
		},
	}
}
