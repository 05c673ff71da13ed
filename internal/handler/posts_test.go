package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/domain"
)

func TestPostHandler_List(t *testing.T) {
	ps := &fakePostService{list: &domain.PostList{
		Posts: []domain.Post{{
			Title:       "Mở đường bay Hà Nội - Phú Quốc",
			PublishedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, domain.Timezone),
			BodyHTML:    "<p><strong>Giá chỉ từ 499.000 ₫</strong></p>",
		}},
		Total:   11,
		Page:    2,
		PerPage: 10,
	}}
	mux := http.NewServeMux()
	h := NewPostHandler(ps, testRenderer(t), testLogger())
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, domain.Timezone) }
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/news?page=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-category="news"`)
	assert.Contains(t, body, "<strong>Giá chỉ từ 499.000 ₫</strong>")
	assert.Contains(t, body, "Tin tức")
	assert.Contains(t, body, "3 giờ trước")
	assert.Contains(t, body, `title="01/05/2024"`)
	assert.Equal(t, []string{"news"}, ps.requested)
}

func TestPostHandler_UnknownCategory(t *testing.T) {
	ps := &fakePostService{}
	mux := http.NewServeMux()
	NewPostHandler(ps, testRenderer(t), testLogger()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/careers", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, ps.requested)
}
