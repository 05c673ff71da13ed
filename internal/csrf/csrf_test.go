package csrf

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateToken_Unique(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}

func TestValidateToken(t *testing.T) {
	assert.True(t, ValidateToken("abc", "abc"))
	assert.False(t, ValidateToken("abc", "abd"))
	assert.False(t, ValidateToken("", ""))
	assert.False(t, ValidateToken("abc", ""))
}

func TestEnsureToken_ReusesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bookings/new", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "existing"})
	rec := httptest.NewRecorder()

	token, err := EnsureToken(rec, req, false)
	require.NoError(t, err)

	assert.Equal(t, "existing", token)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestEnsureToken_IssuesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bookings/new", nil)
	rec := httptest.NewRecorder()

	token, err := EnsureToken(rec, req, true)
	require.NoError(t, err)

	setCookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, CookieName+"="+token)
	assert.Contains(t, setCookie, "Secure")
}

func TestProtect(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Protect(discardLogger())(ok)

	tests := []struct {
		name   string
		method string
		cookie string
		form   string
		header string
		want   int
	}{
		{"get passes", http.MethodGet, "", "", "", http.StatusNoContent},
		{"post without token", http.MethodPost, "", "", "", http.StatusForbidden},
		{"post mismatched", http.MethodPost, "a", "b", "", http.StatusForbidden},
		{"post form token", http.MethodPost, "a", "a", "", http.StatusNoContent},
		{"post header token", http.MethodPost, "a", "", "a", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := url.Values{}
			if tt.form != "" {
				body.Set(FormFieldName, tt.form)
			}
			req := httptest.NewRequest(tt.method, "/bookings", strings.NewReader(body.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(HeaderName, tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
