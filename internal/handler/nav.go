package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/metrics"
	"github.com/DukeRupert/skybooker/internal/templ/components"
)

// NavHandler owns the NavDropdown state. The dropdown posts its current
// state with each event and this handler answers with the next rendering.
type NavHandler struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewNavHandler creates a new NavHandler.
func NewNavHandler(renderer *Renderer, logger *slog.Logger) *NavHandler {
	return &NavHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// RegisterRoutes registers the navigation routes with the provided mux.
//
// Routes:
// - POST /ui/nav -> Event (toggle, select, dismiss)
func (h *NavHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST "+NavAction, h.Event)
}

// Event applies one dropdown event. A select also tells htmx to navigate
// to the chosen category.
func (h *NavHandler) Event(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("NavHandler.Event", "Dữ liệu biểu mẫu không hợp lệ"))
		return
	}

	event, err := domain.ParseNavEvent(r.PostForm.Get("event"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	current := h.renderer.Nav(domain.ParseVisibility(r.PostForm.Get("state")))
	next, route := current.Handle(event, r.PostForm.Get("category"))
	metrics.NavEvent(string(event))

	if route != "" {
		w.Header().Set("HX-Redirect", route)
	}

	h.renderer.RenderFragment(w, r, http.StatusOK, components.NavDropdown(next))
}
