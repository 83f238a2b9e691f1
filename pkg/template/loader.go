// loader.go: Load templates.json catalog files.
package template

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseCatalog parses a templates.json document. Templates that fail
// validation are dropped and reported as warnings, never as errors.
func ParseCatalog(data []byte) ([]Template, []string, error) {
	var file CatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse catalog JSON: %w", err)
	}

	var (
		valid    []Template
		warnings []string
	)
	for i, t := range file.Templates {
		issues := Validate(t)
		if len(issues) == 0 {
			valid = append(valid, t)
			continue
		}
		name := t.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		for _, issue := range issues {
			warnings = append(warnings, fmt.Sprintf("template %s: %s, skipped", name, issue))
		}
	}
	return valid, warnings, nil
}

// ParseCatalogFile reads and parses a templates.json file.
func ParseCatalogFile(path string) ([]Template, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// LoadCatalog returns the built-in catalog extended with the templates in
// path. An empty path yields the built-in catalog unchanged.
func LoadCatalog(path string) (*Catalog, []string, error) {
	if path == "" {
		return Builtin(), nil, nil
	}

	extra, warnings, err := ParseCatalogFile(path)
	if err != nil {
		return nil, warnings, err
	}
	return Merge(Builtin(), extra), warnings, nil
}
