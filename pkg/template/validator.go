// validator.go: Sanity checks for catalog entries.
package template

import (
	"fmt"
	"math"
	"strings"
)

// Validate reports problems that make a template unusable. An empty result
// means the template is valid. Overlapping slots are allowed.
func Validate(t Template) []string {
	var issues []string

	if strings.TrimSpace(t.ID) == "" {
		issues = append(issues, "missing id")
	}
	if !(t.AspectRatio > 0) || math.IsInf(t.AspectRatio, 0) {
		issues = append(issues, fmt.Sprintf("aspectRatio %v must be a positive number", t.AspectRatio))
	}
	if len(t.Slots) == 0 {
		issues = append(issues, "no slots")
	}

	for i, r := range t.Slots {
		if !(r.W > 0) || !(r.H > 0) {
			issues = append(issues, fmt.Sprintf("slot %d has non-positive size %vx%v", i, r.W, r.H))
			continue
		}
		if !inUnit(r.X) || !inUnit(r.Y) || !inUnit(r.X+r.W) || !inUnit(r.Y+r.H) {
			issues = append(issues, fmt.Sprintf("slot %d extends outside the 0–1 box", i))
		}
	}

	return issues
}

// inUnit allows a small tolerance so thirds like 2/3 + 1/3 still pass.
func inUnit(v float64) bool {
	const eps = 1e-9
	return v >= -eps && v <= 1+eps
}

// Format returns a human-readable listing of the catalog.
func Format(c *Catalog) string {
	var b strings.Builder
	for _, t := range c.List() {
		fmt.Fprintf(&b, "\n  [%s] %s\n", t.ID, t.Name)
		if t.Description != "" {
			fmt.Fprintf(&b, "    %s\n", t.Description)
		}
		fmt.Fprintf(&b, "    %-12s %d\n", "slots:", len(t.Slots))
		fmt.Fprintf(&b, "    %-12s %g (height = width × %g)\n", "aspect:", t.AspectRatio, t.AspectRatio)
	}
	if c.Len() == 0 {
		return "No templates available.\n"
	}
	return "Templates:\n" + b.String()
}
