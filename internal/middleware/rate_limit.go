package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Payphone-Digital/userhub/internal/constants"
	"github.com/Payphone-Digital/userhub/pkg/logger"
	"github.com/Payphone-Digital/userhub/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter tracks request counts per client IP in memory. Used when
// Redis is not available; counters then live per process.
type RateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// Allow records a request for ip and reports whether it stays within the
// window limit.
func (rl *RateLimiter) Allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[ip]
	if len(tokens) >= rl.maxRequest {
		return false, len(tokens)
	}

	rl.tokens[ip] = append(tokens, now)
	return true, len(tokens) + 1
}

// RateLimit limits requests per client IP over a fixed window. Counters
// live in Redis when the client is enabled so limits hold across
// replicas; otherwise the in-memory limiter takes over. Redis errors
// fail open.
func RateLimit(redisClient *redis.Client, maxRequest int, duration time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		allowed := true
		current := 0

		if redisClient.IsEnabled() {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 250*time.Millisecond)
			count, _, err := redisClient.IncrWindow(ctx, constants.RateLimitKeyPrefix+ip, duration)
			cancel()
			if err != nil {
				logger.GetLogger().Warn("Rate limit store unavailable, allowing request",
					zap.String("client_ip", ip),
					zap.Error(err),
				)
			} else {
				allowed = count <= int64(maxRequest)
				current = int(count)
			}
		} else {
			allowed, current = limiter.Allow(ip, now)
		}

		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("user_agent", c.GetHeader(constants.HeaderUserAgent)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("current_requests", current),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": duration.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
