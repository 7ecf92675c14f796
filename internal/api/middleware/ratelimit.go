package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
	"github.com/kiranshivaraju/weddingdesk/internal/cache"
)

const (
	defaultRequestsPerMinute = 60
	window                   = time.Minute
)

// RateLimit is a fixed one-minute window limiter backed by the cache. Cache
// failures let the request through.
type RateLimit struct {
	cache          cache.Cache
	requestsPerMin int
}

func NewRateLimit(c cache.Cache, requestsPerMin int) *RateLimit {
	if requestsPerMin <= 0 {
		requestsPerMin = defaultRequestsPerMinute
	}
	return &RateLimit{cache: c, requestsPerMin: requestsPerMin}
}

// Limit counts requests per API key prefix set by Auth.Authenticate.
// Requests without a prefix pass through.
func (rl *RateLimit) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix, ok := getKeyPrefix(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		rl.serve(w, r, next, "key:"+prefix)
	})
}

// LimitByClient counts requests per remote address. It guards the public
// vendor login against password guessing.
func (rl *RateLimit) LimitByClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		rl.serve(w, r, next, "ip:"+host)
	})
}

func (rl *RateLimit) serve(w http.ResponseWriter, r *http.Request, next http.Handler, id string) {
	count, err := rl.cache.IncrWithExpiry(r.Context(), cache.RateLimitKey(id), window)
	if err != nil {
		slog.Warn("rate limit check failed, allowing request", "client", id, "error", err)
		next.ServeHTTP(w, r)
		return
	}

	remaining := max(rl.requestsPerMin-int(count), 0)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.requestsPerMin))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))

	if count > int64(rl.requestsPerMin) {
		w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
		response.Error(w, http.StatusTooManyRequests,
			"RATE_LIMIT_EXCEEDED", "Too many requests", nil)
		return
	}

	next.ServeHTTP(w, r)
}
