// Package middleware holds the HTTP middleware wrapped around the router:
// client IP resolution, request logging, security headers, rate limiting
// and metrics auth.
package middleware

import "net/http"

// Stack composes middlewares so the first argument runs outermost.
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// getClientIP returns the host part of RemoteAddr. Proxy headers are
// resolved earlier by RealIPMiddleware, and only for trusted peers.
func getClientIP(r *http.Request) string {
	return remoteHost(r)
}
