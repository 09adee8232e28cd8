package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// sweepInterval bounds how long an idle client entry survives before the
// limiter forgets it.
const sweepInterval = 5 * time.Minute

// RateLimiter throttles requests per client IP with a token bucket. A nil
// limiter disables throttling entirely.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

type visitor struct {
	bucket *rate.Limiter
	seen   time.Time
}

// NewRateLimiter builds a limiter from a requests-per-minute budget. The
// bucket allows short bursts worth roughly ten seconds of the budget. A
// non-positive budget returns nil, which disables throttling.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	burst := requestsPerMinute / 6
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		perSecond: rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:     burst,
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

// Middleware returns the gin handler enforcing the budget. Rejected requests
// get a 429 with the service error body and a Retry-After hint.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	if r == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if !r.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":             "rate_limited",
				"error_description": "Request rate exceeded. Retry shortly.",
			})
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) allow(clientIP string) bool {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) > sweepInterval {
		r.sweepLocked(now)
		r.lastSweep = now
	}

	v, ok := r.visitors[clientIP]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(r.perSecond, r.burst)}
		r.visitors[clientIP] = v
	}
	v.seen = now
	return v.bucket.Allow()
}

func (r *RateLimiter) sweepLocked(now time.Time) {
	for ip, v := range r.visitors {
		if now.Sub(v.seen) > sweepInterval {
			delete(r.visitors, ip)
		}
	}
}
