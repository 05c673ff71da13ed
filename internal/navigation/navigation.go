// Package navigation loads the category list shown in the navigation
// dropdown. The list is content, not code: a default ships embedded in the
// binary and can be replaced with a YAML file at startup.
package navigation

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DukeRupert/skybooker/internal/domain"
)

//go:embed categories.yaml
var defaultCategories []byte

type file struct {
	Categories []domain.Category `yaml:"categories"`
}

// Default returns the embedded category list.
func Default() ([]domain.Category, error) {
	return Parse(defaultCategories)
}

// Load reads categories from path, or returns the embedded default when
// path is empty.
func Load(path string) ([]domain.Category, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read navigation config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML category list.
// Order is preserved; ids must be unique.
func Parse(data []byte) ([]domain.Category, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse navigation config: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("navigation config has no categories")
	}

	seen := make(map[string]bool, len(f.Categories))
	for i, c := range f.Categories {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return f.Categories, nil
}
