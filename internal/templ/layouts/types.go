// Package layouts provides the page shell shared by every public page.
package layouts

import (
	"github.com/a-h/templ"

	"github.com/DukeRupert/skybooker/internal/templ/components"
	"github.com/DukeRupert/skybooker/internal/templ/shared"
	"github.com/DukeRupert/skybooker/internal/theme"
)

const siteName = "SkyBooker"

// BaseData holds everything the page shell needs.
type BaseData struct {
	Title   string
	Dark    bool
	Theme   theme.Theme
	Nav     components.NavDropdownProps
	Flash   *shared.Flash
	Content templ.Component
}

// PageTitle is the document title: the page title suffixed with the site
// name, or the site name alone.
func (d BaseData) PageTitle() string {
	if d.Title == "" {
		return siteName
	}
	return d.Title + " · " + siteName
}
