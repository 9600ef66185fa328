package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/darsh196/learnzone/internal/config"
	"github.com/darsh196/learnzone/internal/observability/logger"
	"github.com/darsh196/learnzone/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderLimiter throttles order placement per client address. Redis errors
// fail open so a limiter outage never blocks purchases.
func OrderLimiter(bucket *TokenBucket, cfg config.Config, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		res, err := bucket.Allow(ctx, "ratelimit:orders:"+c.ClientIP(), cfg.OrderRate, cfg.OrderBurst)
		if err != nil {
			logger.FromContext(ctx).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			m.RecordRateLimitDenied(ctx, "orders")
			if seconds := int(res.RetryAfter.Seconds()) + 1; seconds > 0 {
				c.Header("Retry-After", strconv.Itoa(seconds))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many orders, slow down",
			})
			return
		}

		c.Next()
	}
}
