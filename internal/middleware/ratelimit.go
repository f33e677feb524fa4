package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"mailapi/backend/internal/monitoring"
)

// RateLimit 全局令牌桶限流，limiter 为 nil 时不限流
func RateLimit(limiter *rate.Limiter, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			if metrics != nil {
				metrics.RecordRateLimitBlock("global")
			}
			retryAfter := 1
			if l := limiter.Limit(); l > 0 && l < 1 {
				retryAfter = int(math.Ceil(float64(1 / l)))
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abortWithError(c, http.StatusTooManyRequests, "too many requests")
			return
		}

		c.Next()
	}
}

// NewLimiter 按每秒请求数和突发容量创建限流器，rps <= 0 返回 nil
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(rps)))
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
