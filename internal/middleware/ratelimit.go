package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DukeRupert/skybooker/internal/domain"
)

// RateLimiter allows maxAttempts per key in fixed windows that open on the
// key's first request.
type RateLimiter struct {
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	closeOnce sync.Once
	done      chan struct{}
}

type bucket struct {
	used    int
	resetAt time.Time
}

// NewRateLimiter starts a sweeper that drops expired buckets until Close.
func NewRateLimiter(maxAttempts int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
		now:         time.Now,
		buckets:     make(map[string]*bucket),
		done:        make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Allow counts an attempt for key and reports whether it is within budget.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b := rl.buckets[key]
	if b == nil || !now.Before(b.resetAt) {
		rl.buckets[key] = &bucket{used: 1, resetAt: now.Add(rl.window)}
		return true
	}
	if b.used >= rl.maxAttempts {
		return false
	}
	b.used++
	return true
}

// TimeUntilReset is zero for keys without an open window.
func (rl *RateLimiter) TimeUntilReset(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b := rl.buckets[key]
	if b == nil {
		return 0
	}
	return max(b.resetAt.Sub(rl.now()), 0)
}

func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := rl.now()
		for key, b := range rl.buckets {
			if !now.Before(b.resetAt) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// ErrorResponder writes err as the response. The handler package's
// ErrorResponder satisfies it.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// RateLimitMiddleware applies a RateLimiter per client IP.
type RateLimitMiddleware struct {
	limiter *RateLimiter
	logger  *slog.Logger
	respond ErrorResponder
}

func NewRateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger, respond ErrorResponder) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger, respond: respond}
}

// Limit answers 429 with a Retry-After header once the client is over budget.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		if m.limiter.Allow(ip) {
			next.ServeHTTP(w, r)
			return
		}

		m.logger.Warn("rate limit exceeded", "ip", ip, "method", r.Method, "path", r.URL.Path)

		wait := max(int(m.limiter.TimeUntilReset(ip).Seconds()), 1)
		w.Header().Set("Retry-After", strconv.Itoa(wait))
		m.respond(w, r, domain.RateLimited("RateLimitMiddleware.Limit"))
	})
}
