package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"donate/internal/ratelimit"
)

// RateLimitMiddleware rejects requests over the per-client-IP budget with
// 429. A limiter backend error fails open: an unreachable shared store must
// not block donations.
func RateLimitMiddleware(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limiter unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"message": "Please wait a moment before trying again.",
			})
			return
		}

		c.Next()
	}
}
