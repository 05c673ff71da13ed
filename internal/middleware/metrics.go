package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MetricsAuthMiddleware puts HTTP basic auth in front of the Prometheus
// scrape endpoint.
type MetricsAuthMiddleware struct {
	userHash [sha256.Size]byte
	passHash [sha256.Size]byte
	bcrypt   []byte
	enabled  bool
}

// NewMetricsAuthMiddleware creates the middleware. With both credentials
// empty the endpoint is left open. A password starting with "$2" is taken
// as a bcrypt hash.
func NewMetricsAuthMiddleware(username, password string) *MetricsAuthMiddleware {
	m := &MetricsAuthMiddleware{
		userHash: sha256.Sum256([]byte(username)),
		passHash: sha256.Sum256([]byte(password)),
		enabled:  username != "" || password != "",
	}
	if isBcryptHash(password) {
		m.bcrypt = []byte(password)
	}
	return m
}

// Enabled reports whether credentials are configured.
func (m *MetricsAuthMiddleware) Enabled() bool {
	return m.enabled
}

func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	if !m.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.authorized(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="metrics", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorized compares digests so the check takes the same time whatever
// the credential lengths.
func (m *MetricsAuthMiddleware) authorized(r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userHash := sha256.Sum256([]byte(user))
	passHash := sha256.Sum256([]byte(pass))

	userOK := subtle.ConstantTimeCompare(userHash[:], m.userHash[:])
	if m.bcrypt != nil {
		passOK := bcrypt.CompareHashAndPassword(m.bcrypt, []byte(pass)) == nil
		return userOK == 1 && passOK
	}
	passOK := subtle.ConstantTimeCompare(passHash[:], m.passHash[:])
	return userOK&passOK == 1
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return strings.HasPrefix(s, "$2") && err == nil
}
