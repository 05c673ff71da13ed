// Package posts renders the article list behind each navigation category.
package posts

import (
	"html/template"

	"github.com/DukeRupert/skybooker/internal/templ/components/pagination"
)

// CategoryPageData contains data for a category's post list.
type CategoryPageData struct {
	CategoryID    string
	CategoryLabel string
	Posts         []PostView
	Pagination    pagination.Data
}

// PostView is a post formatted for display.
type PostView struct {
	Title     string
	Published string // Absolute date, shown on hover
	Ago       string // Relative publish time
	BodyHTML  template.HTML // Already sanitized
}
