package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per authenticated user.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
	limiters sync.Map // user ID -> *cachedLimiter

	lastSweep atomic.Int64 // unix nanos
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithTTL sets how long a user's limiter is kept after its last request.
func WithTTL(ttl time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) { rl.ttl = ttl }
}

// WithLimit sets the allowed requests per second and burst. A zero limit
// disables limiting.
func WithLimit(perSecond float64, burst int) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.limit = rate.Limit(perSecond)
		rl.burst = burst
	}
}

// NewRateLimiter creates a limiter allowing 10 req/s with a burst of 20
// unless configured otherwise.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		limit: 10,
		burst: 20,
		ttl:   5 * time.Minute,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Middleware must run after AuthMiddleware.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			if rl.limit > 0 && !rl.limiterFor(user.ID).Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type cachedLimiter struct {
	limiter   *rate.Limiter
	expiresAt atomic.Int64 // unix nanos
}

// limiterFor returns the user's limiter and extends its lifetime. An idle
// limiter expires after ttl; expired entries are swept at most once per ttl.
func (rl *RateLimiter) limiterFor(userID int64) *rate.Limiter {
	now := rl.now()
	rl.sweep(now)

	if v, ok := rl.limiters.Load(userID); ok {
		cached := v.(*cachedLimiter)
		if now.UnixNano() < cached.expiresAt.Load() {
			cached.expiresAt.Store(now.Add(rl.ttl).UnixNano())
			return cached.limiter
		}
	}

	cached := &cachedLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	cached.expiresAt.Store(now.Add(rl.ttl).UnixNano())
	rl.limiters.Store(userID, cached)
	return cached.limiter
}

func (rl *RateLimiter) sweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(rl.ttl) || !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	rl.limiters.Range(func(key, value any) bool {
		if value.(*cachedLimiter).expiresAt.Load() <= now.UnixNano() {
			rl.limiters.CompareAndDelete(key, value)
		}
		return true
	})
}
