package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"doc-check.backend/internal/infrastructure/ratelimit"
	"doc-check.backend/pkg/logger"
	"doc-check.backend/pkg/metrics"
)

// RateLimitMiddleware gates the route group behind the fixed-window limiter,
// keyed by client IP and the given action. Limiter backend failures let the
// request through: availability over strictness for a paid consumer flow.
func RateLimitMiddleware(limiter *ratelimit.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Check(c.Request.Context(), c.ClientIP(), action)
		if err != nil {
			logger.Warn(c.Request.Context(), "Rate limiter unavailable, allowing request",
				zap.String("action", action), zap.Error(err))
			c.Next()
			return
		}

		if !res.Allowed {
			metrics.RateLimitDenied.WithLabelValues(action).Inc()
			c.Header("Retry-After", strconv.FormatInt(res.ResetAt.Unix(), 10))
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate limit exceeded",
				"resetAt": res.ResetAt.Unix(),
			})
			return
		}

		if res.Remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}
		c.Next()
	}
}
