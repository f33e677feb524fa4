package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("多次创建不会重复注册", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewMetrics()
			NewMetrics()
		})
	})

	t.Run("记录业务指标", func(t *testing.T) {
		m := NewMetrics()

		m.RecordMailComposed()
		m.RecordMailComposed()
		m.RecordMailMoved("trash")
		m.RecordError("not_found", "http")
		m.RecordValidationFailure("request")
		m.RecordRateLimitBlock("global")
		m.UpdateMailStats(4, 7)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.MailComposed))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.MailMoved.WithLabelValues("trash")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("not_found", "http")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("request")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitBlocks.WithLabelValues("global")))
		assert.Equal(t, 4.0, testutil.ToFloat64(m.MailboxesTotal))
		assert.Equal(t, 7.0, testutil.ToFloat64(m.MessagesTotal))
	})

	t.Run("暴露指标端点", func(t *testing.T) {
		m := NewMetrics()
		m.RecordHTTPRequest("GET", "/v0/mail", "200", 10*time.Millisecond, 0, 128)

		rec := httptest.NewRecorder()
		m.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `mailapi_http_requests_total{endpoint="/v0/mail",method="GET",status_code="200"} 1`)
		assert.Contains(t, body, "mailapi_system_uptime_seconds")
		assert.Contains(t, body, "go_goroutines")
	})
}
