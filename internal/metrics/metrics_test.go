package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(mux)

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /bookings/{id}", "418"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /bookings/{id}", "418"))
	assert.Equal(t, 2.0, after-before)
}

func TestRouteLabel_FallsBackToNormalizedPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x/123e4567-e89b-12d3-a456-426614174000", nil)
	assert.Equal(t, "/x/{id}", routeLabel(r))
}

func TestEventHelpers(t *testing.T) {
	before := testutil.ToFloat64(NavEvents.WithLabelValues("toggle"))
	NavEvent("toggle")
	assert.Equal(t, 1.0, testutil.ToFloat64(NavEvents.WithLabelValues("toggle"))-before)

	hits := testutil.ToFloat64(CacheLookups.WithLabelValues("deals", "hit"))
	misses := testutil.ToFloat64(CacheLookups.WithLabelValues("deals", "miss"))
	CacheHit("deals")
	CacheMiss("deals")
	CacheMiss("deals")
	assert.Equal(t, 1.0, testutil.ToFloat64(CacheLookups.WithLabelValues("deals", "hit"))-hits)
	assert.Equal(t, 2.0, testutil.ToFloat64(CacheLookups.WithLabelValues("deals", "miss"))-misses)
}

func TestJobHelpers(t *testing.T) {
	done := testutil.ToFloat64(JobsTotal.WithLabelValues("render_thumbnails", "completed"))
	retry := testutil.ToFloat64(JobsTotal.WithLabelValues("render_thumbnails", "retry"))
	failed := testutil.ToFloat64(JobsTotal.WithLabelValues("render_thumbnails", "failed"))

	JobCompleted("render_thumbnails", 2*time.Second)
	JobFailed("render_thumbnails", false)
	JobFailed("render_thumbnails", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(JobsTotal.WithLabelValues("render_thumbnails", "completed"))-done)
	assert.Equal(t, 1.0, testutil.ToFloat64(JobsTotal.WithLabelValues("render_thumbnails", "retry"))-retry)
	assert.Equal(t, 1.0, testutil.ToFloat64(JobsTotal.WithLabelValues("render_thumbnails", "failed"))-failed)
}
