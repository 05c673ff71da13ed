package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/templ/components"
	"github.com/DukeRupert/skybooker/internal/templ/layouts"
	"github.com/DukeRupert/skybooker/internal/templ/shared"
	"github.com/DukeRupert/skybooker/internal/theme"
)

const (
	// ThemeCookieName holds "dark" when the visitor chose the dark theme.
	ThemeCookieName = "theme"

	// NavAction is the endpoint NavDropdown posts its events to.
	NavAction = "/ui/nav"
)

// Page describes a full-document response.
type Page struct {
	Title   string
	Status  int // Defaults to 200
	Flash   *shared.Flash
	Content templ.Component
}

// Renderer writes templ components as HTTP responses. Full pages are
// wrapped in the base layout; fragments are written as-is for htmx swaps.
type Renderer struct {
	theme      theme.Theme
	categories []domain.Category
	logger     *slog.Logger
}

// NewRenderer creates a Renderer for the given theme and navigation
// categories.
func NewRenderer(t theme.Theme, categories []domain.Category, logger *slog.Logger) *Renderer {
	return &Renderer{
		theme:      t,
		categories: categories,
		logger:     logger,
	}
}

// Nav returns the dropdown props in the given state.
func (rr *Renderer) Nav(state domain.Visibility) components.NavDropdownProps {
	return components.NavDropdownProps{
		State:      state,
		Categories: rr.categories,
		Action:     NavAction,
	}
}

// Categories returns the navigation categories.
func (rr *Renderer) Categories() []domain.Category {
	return rr.categories
}

// RenderPage renders p inside the base layout. The dropdown always starts
// closed on a full page load.
func (rr *Renderer) RenderPage(w http.ResponseWriter, r *http.Request, p Page) {
	rr.write(w, r, p.Status, layouts.Base(layouts.BaseData{
		Title:   p.Title,
		Dark:    prefersDark(r),
		Theme:   rr.theme,
		Nav:     rr.Nav(domain.VisibilityClosed),
		Flash:   p.Flash,
		Content: p.Content,
	}))
}

// RenderFragment renders c without the layout.
func (rr *Renderer) RenderFragment(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	rr.write(w, r, status, c)
}

// write buffers the output so a failed render never leaves a half-written
// 200 response.
func (rr *Renderer) write(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	if status == 0 {
		status = http.StatusOK
	}

	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		rr.logger.Error("failed to render component", "error", err, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func prefersDark(r *http.Request) bool {
	c, err := r.Cookie(ThemeCookieName)
	return err == nil && c.Value == "dark"
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
