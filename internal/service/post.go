package service

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/repository"
)

const (
	DefaultPostsPerPage = 10
	maxPostsPerPage     = 50
)

// PostService defines the article listing behind the navigation categories.
type PostService interface {
	// ListByCategory returns one page of a category's posts, newest first,
	// with BodyHTML rendered and sanitized.
	ListByCategory(ctx context.Context, categoryID string, page, perPage int) (*domain.PostList, error)
}

type postService struct {
	queries   repository.Querier
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

// NewPostService creates a PostService. Markdown is rendered with GFM and
// the output passes through a UGC sanitizer, so raw HTML in posts is inert.
func NewPostService(queries repository.Querier, logger *slog.Logger) PostService {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("code")

	return &postService{
		queries: queries,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		sanitizer: policy,
		logger:    logger,
	}
}

func (s *postService) ListByCategory(ctx context.Context, categoryID string, page, perPage int) (*domain.PostList, error) {
	const op = "PostService.ListByCategory"

	if perPage <= 0 {
		perPage = DefaultPostsPerPage
	}
	if perPage > maxPostsPerPage {
		perPage = maxPostsPerPage
	}
	if page < 1 {
		page = 1
	}

	total, err := s.queries.CountPostsByCategory(ctx, categoryID)
	if err != nil {
		s.logger.Error("failed to count posts", "error", err, "op", op, "category", categoryID)
		return nil, domain.Internal(err, op, "Failed to load posts")
	}

	// Clamp to the last page so a stale link still shows something.
	if last := int((total + int64(perPage) - 1) / int64(perPage)); last > 0 && page > last {
		page = last
	}

	rows, err := s.queries.ListPostsByCategory(ctx, repository.ListPostsByCategoryParams{
		Category: categoryID,
		Limit:    int32(perPage),
		Offset:   int32((page - 1) * perPage),
	})
	if err != nil {
		s.logger.Error("failed to list posts", "error", err, "op", op, "category", categoryID)
		return nil, domain.Internal(err, op, "Failed to load posts")
	}

	posts := make([]domain.Post, len(rows))
	for i, row := range rows {
		body, err := s.render(row.BodyMarkdown)
		if err != nil {
			s.logger.Error("failed to render post", "error", err, "op", op, "post_id", row.ID)
			return nil, domain.Internal(err, op, "Failed to render post")
		}
		posts[i] = domain.Post{
			ID:           row.ID,
			Category:     row.Category,
			Slug:         row.Slug,
			Title:        row.Title,
			BodyMarkdown: row.BodyMarkdown,
			PublishedAt:  row.PublishedAt.In(domain.Timezone),
			BodyHTML:     body,
		}
	}

	return &domain.PostList{
		Posts:   posts,
		Total:   int(total),
		Page:    page,
		PerPage: perPage,
	}, nil
}

// render converts markdown to sanitized HTML.
func (s *postService) render(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(s.sanitizer.SanitizeBytes(buf.Bytes())), nil
}
