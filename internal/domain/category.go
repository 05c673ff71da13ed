package domain

import "regexp"

// PostsPathPrefix is the route prefix every navigation category links under.
const PostsPathPrefix = "/posts/"

var categoryIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Category is one entry of the navigation dropdown.
// The order of a []Category is its display order.
type Category struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
}

// Route returns the navigation target for this category.
func (c Category) Route() string {
	return PostsPathPrefix + c.ID
}

// Validate checks the category can be used as a route segment.
func (c Category) Validate() error {
	if !categoryIDPattern.MatchString(c.ID) {
		return Invalid("Category.Validate", "category id must be lowercase letters, digits or dashes")
	}
	if c.Label == "" {
		return Invalid("Category.Validate", "category label is required")
	}
	return nil
}

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
