package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"portfolio-cms/internal/auth"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"
	msgRateLimited           = "rate limit exceeded"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements token bucket rate limiting per session or client IP
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter creates a limiter refilling at r tokens per second up to
// burst.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Sweep drops limiters not used within idle and returns how many were
// removed.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// keyFor limits signed-in admins by email and everyone else by address.
func keyFor(c echo.Context) string {
	if s, ok := auth.GetSession(c); ok && s.Email != "" {
		return "session:" + s.Email
	}
	return "ip:" + c.RealIP()
}

// Middleware returns an Echo middleware function for rate limiting
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(keyFor(c))
			header := c.Response().Header()
			header.Set(headerRateLimitLimit, strconv.Itoa(rl.burst))

			if !limiter.Allow() {
				header.Set(headerRateLimitRemaining, "0")
				header.Set(headerRetryAfter, strconv.Itoa(retryAfterSeconds(rl.rate)))

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": msgRateLimited,
				})
			}

			header.Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))
			return next(c)
		}
	}
}

func retryAfterSeconds(r rate.Limit) int {
	if r <= 0 {
		return 60
	}
	seconds := int(1 / float64(r))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// NewStrictRateLimiter is used on the OAuth endpoints: 5 req/sec, burst of 10.
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// NewGlobalRateLimiter applies to every request: 100 req/sec, burst of 200.
func NewGlobalRateLimiter() *RateLimiter {
	return NewRateLimiter(100, 200)
}

// NewContactRateLimiter allows a burst of 3 contact messages, then one per
// minute.
func NewContactRateLimiter() *RateLimiter {
	return NewRateLimiter(rate.Every(time.Minute), 3)
}
