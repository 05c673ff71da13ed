// Package theme holds the Tailwind theme the components are styled with:
// the content globs Tailwind scans for class names, the dark mode
// strategy, and the custom font token. Components compose classes through
// Merge so caller-supplied classes override defaults instead of stacking.
package theme

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// DarkModeClass activates dark variants when the root element carries
// the "dark" class, rather than following prefers-color-scheme.
const DarkModeClass = "class"

// Theme is the Tailwind configuration for the site.
type Theme struct {
	Content    []string            // Globs Tailwind scans for class names
	DarkMode   string              // "class" or "media"
	FontFamily map[string][]string // extend.fontFamily
}

// Default returns the site theme.
func Default() Theme {
	return Theme{
		Content: []string{
			"./internal/templ/**/*.templ",
			"./internal/templ/**/*.go",
			"./web/static/**/*.js",
		},
		DarkMode: DarkModeClass,
		FontFamily: map[string][]string{
			"nunito": {"Nunito", "sans-serif"},
		},
	}
}

// FontClass is the utility class for the custom font token.
func (t Theme) FontClass() string {
	return "font-nunito"
}

// RootClass returns the classes for the <html> element.
func (t Theme) RootClass(dark bool) string {
	classes := []string{t.FontClass(), "antialiased"}
	if dark && t.DarkMode == DarkModeClass {
		classes = append(classes, "dark")
	}
	return strings.Join(classes, " ")
}

// Merge resolves conflicting Tailwind utilities; later classes win.
func Merge(classes ...string) string {
	return twmerge.Merge(classes...)
}

// WriteTailwindConfig writes a tailwind.config.js equivalent to t.
func (t Theme) WriteTailwindConfig(w io.Writer) error {
	content, err := json.Marshal(t.Content)
	if err != nil {
		return err
	}
	fonts, err := json.MarshalIndent(t.FontFamily, "      ", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `/** @type {import('tailwindcss').Config} */
module.exports = {
  content: %s,
  darkMode: %q,
  theme: {
    extend: {
      fontFamily: %s,
    },
  },
  plugins: [],
};
`, content, t.DarkMode, fonts)
	return err
}
