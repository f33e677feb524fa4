package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	registry *prometheus.Registry
	started  time.Time

	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// 邮件指标
	MailComposed   prometheus.Counter
	MailMoved      *prometheus.CounterVec
	MailboxesTotal prometheus.Gauge
	MessagesTotal  prometheus.Gauge

	// 系统指标
	SystemUptime prometheus.Gauge

	// 错误指标
	ErrorsTotal        *prometheus.CounterVec
	PanicsTotal        prometheus.Counter
	ValidationFailures *prometheus.CounterVec

	// 限流指标
	RateLimitBlocks *prometheus.CounterVec
}

// NewMetrics 在独立的注册表上创建监控指标，同时注册 Go 运行时与进程指标
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		started:  time.Now(),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailapi_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailapi_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailapi_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailapi_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "endpoint"},
		),

		MailComposed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mailapi_mail_composed_total",
				Help: "Total number of composed messages",
			},
		),

		MailMoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailapi_mail_moved_total",
				Help: "Total number of moved messages by destination mailbox (inbox, sent, trash or other)",
			},
			[]string{"mailbox"},
		),

		MailboxesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailapi_mailboxes",
				Help: "Number of mailboxes",
			},
		),

		MessagesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailapi_messages",
				Help: "Number of stored messages",
			},
		),

		SystemUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailapi_system_uptime_seconds",
				Help: "System uptime in seconds",
			},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailapi_errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "component"},
		),

		PanicsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mailapi_panics_total",
				Help: "Total number of panics",
			},
		),

		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailapi_openapi_validation_failures_total",
				Help: "Total number of OpenAPI validation failures",
			},
			[]string{"direction"},
		),

		RateLimitBlocks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailapi_rate_limit_blocks_total",
				Help: "Total number of rate limit blocks",
			},
			[]string{"type"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration, requestSize, responseSize int64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.HTTPRequestSize.WithLabelValues(method, endpoint).Observe(float64(requestSize))
	m.HTTPResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordMailComposed 记录邮件撰写
func (m *Metrics) RecordMailComposed() {
	m.MailComposed.Inc()
}

// RecordMailMoved 记录邮件移动，mailbox 应为有限取值
func (m *Metrics) RecordMailMoved(mailbox string) {
	m.MailMoved.WithLabelValues(mailbox).Inc()
}

// RecordError 记录错误
func (m *Metrics) RecordError(errorType, component string) {
	m.ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordPanic 记录 panic
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}

// RecordValidationFailure 记录 OpenAPI 校验失败，direction 为 request 或 response
func (m *Metrics) RecordValidationFailure(direction string) {
	m.ValidationFailures.WithLabelValues(direction).Inc()
}

// RecordRateLimitBlock 记录限流阻止
func (m *Metrics) RecordRateLimitBlock(limitType string) {
	m.RateLimitBlocks.WithLabelValues(limitType).Inc()
}

// UpdateMailStats 更新邮箱数与邮件数
func (m *Metrics) UpdateMailStats(mailboxes, messages int) {
	m.MailboxesTotal.Set(float64(mailboxes))
	m.MessagesTotal.Set(float64(messages))
}

// Registry 返回指标注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler 返回 Prometheus HTTP 处理器
func (m *Metrics) HTTPHandler() http.Handler {
	inner := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.SystemUptime.Set(time.Since(m.started).Seconds())
		inner.ServeHTTP(w, r)
	})
}
