package http

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiters keeps one token bucket per client IP. Entries are never
// evicted; the relay fronts a small, known set of donor clients and the map
// stays tiny in practice.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newClientLimiters(perSecond float64) *clientLimiters {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	return &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (c *clientLimiters) get(clientIP string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[clientIP]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[clientIP] = limiter
	}
	return limiter
}

// withRateLimit throttles requests per client IP using a token bucket.
// Disabled when the configured rate is zero.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	if h.cfg.RateLimitPerSecond <= 0 {
		return next
	}

	limiters := newClientLimiters(h.cfg.RateLimitPerSecond)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			clientIP = r.RemoteAddr
		}

		if !limiters.get(clientIP).Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
