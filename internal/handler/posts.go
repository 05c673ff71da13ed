package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/service"
	"github.com/DukeRupert/skybooker/internal/templ/components/pagination"
	"github.com/DukeRupert/skybooker/internal/templ/pages/posts"
	"github.com/DukeRupert/skybooker/internal/templ/shared"
)

// PostHandler lists the articles behind each navigation category.
type PostHandler struct {
	posts    service.PostService
	renderer *Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService service.PostService, renderer *Renderer, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:    postService,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes registers the post routes with the provided mux.
//
// Routes:
// - GET /posts/{category}?page={n} -> List
func (h *PostHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /posts/{category}", h.List)
}

// List renders one page of a category. Only configured categories exist.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	category, ok := domain.FindCategory(h.renderer.Categories(), r.PathValue("category"))
	if !ok {
		NotFoundResponse(w, r, h.logger)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	list, err := h.posts.ListByCategory(r.Context(), category.ID, page, service.DefaultPostsPerPage)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	now := h.now()
	views := make([]posts.PostView, len(list.Posts))
	for i, p := range list.Posts {
		views[i] = posts.PostView{
			Title:     p.Title,
			Published: shared.FormatDate(p.PublishedAt),
			Ago:       shared.TimeAgo(p.PublishedAt, now),
			BodyHTML:  p.BodyHTML,
		}
	}

	h.renderer.RenderPage(w, r, Page{
		Title: category.Label,
		Content: posts.CategoryPage(posts.CategoryPageData{
			CategoryID:    category.ID,
			CategoryLabel: category.Label,
			Posts:         views,
			Pagination:    pagination.NewData(list.Page, list.PerPage, list.Total),
		}),
	})
}
