package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/monitoring"
)

// 未匹配路由统一记为一个端点，避免标签基数膨胀
const unmatchedEndpoint = "unmatched"

// 预置邮箱以外的目标邮箱统一记为 other
const otherMailbox = "other"

// StatsFunc 返回当前邮箱数与邮件数
type StatsFunc func() (mailboxes, messages int)

// MonitoringMiddleware 监控中间件
type MonitoringMiddleware struct {
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewMonitoringMiddleware 创建监控中间件
func NewMonitoringMiddleware(metrics *monitoring.Metrics, logger *zap.Logger) *MonitoringMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitoringMiddleware{
		metrics: metrics,
		logger:  logger,
	}
}

// HTTPMetrics HTTP 指标中间件
func (mm *MonitoringMiddleware) HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestSize := c.Request.ContentLength
		if requestSize < 0 {
			requestSize = 0
		}

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedEndpoint
		}
		status := c.Writer.Status()

		mm.metrics.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
			time.Since(start),
			requestSize,
			int64(c.Writer.Size()),
		)

		if status >= http.StatusBadRequest {
			mm.metrics.RecordError(errorType(status), "http")
		}
	}
}

// errorType 把状态码归类为错误类型标签
func errorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	}
	if status >= http.StatusInternalServerError {
		return "internal"
	}
	return "client"
}

// PanicRecovery Panic 恢复中间件
func (mm *MonitoringMiddleware) PanicRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				mm.metrics.RecordPanic()

				mm.logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("ip", c.ClientIP()),
					zap.Stack("stack"),
				)

				abortWithError(c, http.StatusInternalServerError, "internal server error")
			}
		}()

		c.Next()
	}
}

// BusinessMetrics 业务指标中间件
//
// 撰写与移动成功后计数，并用 stats 刷新邮箱数与邮件数。
func (mm *MonitoringMiddleware) BusinessMetrics(stats StatsFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		changed := false

		switch c.FullPath() {
		case "/v0/mail":
			if c.Request.Method == http.MethodPost && status == http.StatusCreated {
				mm.metrics.RecordMailComposed()
				changed = true
			}
		case "/v0/mail/:id":
			if c.Request.Method == http.MethodPut && status == http.StatusNoContent {
				mm.metrics.RecordMailMoved(mailboxLabel(c.Query("mailbox")))
				changed = true
			}
		}

		if changed && stats != nil {
			mm.metrics.UpdateMailStats(stats())
		}
	}
}

// mailboxLabel 把目标邮箱名收敛为有限的标签值
func mailboxLabel(name string) string {
	switch name {
	case domain.MailboxInbox, domain.MailboxSent, domain.MailboxTrash:
		return name
	}
	return otherMailbox
}
