// internal/middleware/ratelimit.go
package middleware

import (
	"context"
	"net"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// IdleTTL is how long an unseen client keeps its bucket. Zero means 10m.
	IdleTTL time.Duration
	// ExemptPaths bypass limiting entirely.
	ExemptPaths []string
}

type clientBucket struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// RateLimiter enforces a token bucket per client IP and answers 429 with
// Retry-After when it is empty. Stale buckets are swept until ctx is done.
// A non-positive rate disables limiting.
func RateLimiter(ctx context.Context, cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	var clients sync.Map // ip -> *clientBucket

	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				clients.Range(func(key, value any) bool {
					b := value.(*clientBucket)
					b.mu.Lock()
					stale := time.Since(b.lastSeen) > ttl
					b.mu.Unlock()
					if stale {
						clients.Delete(key)
					}
					return true
				})
			}
		}
	}()

	bucket := func(ip string) *clientBucket {
		v, _ := clients.LoadOrStore(ip, &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		})
		b := v.(*clientBucket)
		b.mu.Lock()
		b.lastSeen = time.Now()
		b.mu.Unlock()
		return b
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(cfg.ExemptPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			b := bucket(clientIP(r))

			res := b.limiter.Reserve()
			if !res.OK() {
				tooManyRequests(w, 0)
				return
			}
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				tooManyRequests(w, int(delay.Seconds())+1)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(b.limiter.Tokens())))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP uses RemoteAddr only; forwarded headers are caller-controlled.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func tooManyRequests(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	httpserver.Error(w, http.StatusTooManyRequests, "Too many requests")
}
