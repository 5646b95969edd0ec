// middleware/rate_limit.go
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/constants"
	"github.com/llamacto/llama-gin/pkg/logger"
	"go.uber.org/zap"
)

// RateLimiter is a sliding-window limiter keyed by client IP.
type RateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	now        func() time.Time
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
		now:        time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit,
// along with the remaining hits in the window.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	hits := rl.tokens[key]
	if len(hits) >= rl.maxRequest {
		return false, 0
	}
	rl.tokens[key] = append(hits, now)
	return true, rl.maxRequest - len(hits) - 1
}

// must hold lock
func (rl *RateLimiter) cleanup(now time.Time) {
	for key, hits := range rl.tokens {
		valid := hits[:0]
		for _, t := range hits {
			if now.Sub(t) < rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[key] = valid
		} else {
			delete(rl.tokens, key)
		}
	}
}

// RateLimit rejects clients exceeding limiter's budget with a 429 envelope.
// A nil limiter or non-positive budget disables limiting.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.maxRequest <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		ok, remaining := limiter.Allow(ip)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", limiter.maxRequest),
				zap.Duration("duration", limiter.duration),
			)

			c.Header("Retry-After", strconv.Itoa(int(limiter.duration.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse(http.StatusTooManyRequests, constants.MsgTooManyRequest, nil))
			return
		}

		c.Next()
	}
}
