package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/titik444/express-blog/pkg/logger"
	pkgredis "github.com/titik444/express-blog/pkg/redis"
)

// Fixed-window counter per client IP. INCR and EXPIRE run in one Lua
// script so the window TTL is set exactly once per window.
const rateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

local count = redis.call("INCR", key)
if count == 1 then
    redis.call("EXPIRE", key, window)
end

local ttl = redis.call("TTL", key)
return {count, ttl}
`

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Requests allowed per window per IP
	Limit int
	// Window length
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
}

// DefaultAuthRateLimit suits credential endpoints: tight enough to slow
// down brute forcing, loose enough for normal retries.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Limit:     10,
		Window:    time.Minute,
		KeyPrefix: "ratelimit:auth:",
	}
}

// RateLimiter limits requests per client IP using Redis. A nil client
// disables limiting; Redis errors fail open so an outage never locks
// users out.
func RateLimiter(client *pkgredis.Client, config RateLimitConfig) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := config.KeyPrefix + c.ClientIP()
		windowSeconds := int(config.Window.Seconds())

		result := client.EvalWithFallback(c.Request.Context(), "rate_limit", rateLimitScript,
			[]string{key},
			config.Limit,
			windowSeconds,
		)
		values, err := result.Slice()
		if err != nil || len(values) < 2 {
			logger.Get().Warn("rate limiter unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}

		count, _ := values[0].(int64)
		ttl, _ := values[1].(int64)
		if ttl < 0 {
			ttl = int64(windowSeconds)
		}

		remaining := int64(config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Unix()+ttl, 10))

		if count > int64(config.Limit) {
			c.Header("Retry-After", strconv.FormatInt(ttl, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TOO_MANY_REQUESTS",
					"message": "Rate limit exceeded. Please retry after " + strconv.FormatInt(ttl, 10) + " second(s).",
				},
			})
			return
		}

		c.Next()
	}
}
