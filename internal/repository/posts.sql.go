package repository

import (
	"context"
)

const countPostsByCategory = `-- name: CountPostsByCategory :one
SELECT count(*) FROM posts WHERE category = $1
`

func (q *Queries) CountPostsByCategory(ctx context.Context, category string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPostsByCategory, category)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listPostsByCategory = `-- name: ListPostsByCategory :many
SELECT id, category, slug, title, body_markdown, published_at
FROM posts
WHERE category = $1
ORDER BY published_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListPostsByCategoryParams struct {
	Category string `json:"category"`
	Limit    int32  `json:"limit"`
	Offset   int32  `json:"offset"`
}

func (q *Queries) ListPostsByCategory(ctx context.Context, arg ListPostsByCategoryParams) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listPostsByCategory, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Post
	for rows.Next() {
		var i Post
		if err := rows.Scan(
			&i.ID,
			&i.Category,
			&i.Slug,
			&i.Title,
			&i.BodyMarkdown,
			&i.PublishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
