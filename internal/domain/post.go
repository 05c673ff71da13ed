package domain

import (
	"html/template"
	"time"
)

// Post is an article listed under a navigation category.
type Post struct {
	ID           int64
	Category     string // Category.ID
	Slug         string
	Title        string
	BodyMarkdown string
	PublishedAt  time.Time

	// BodyHTML is the sanitized rendering of BodyMarkdown, filled by the service.
	BodyHTML template.HTML
}

// PostList is one page of a category's posts.
type PostList struct {
	Posts   []Post
	Total   int
	Page    int
	PerPage int
}
