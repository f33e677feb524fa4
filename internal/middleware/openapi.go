package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailapi/backend/internal/monitoring"
)

var defineFormats sync.Once

// uuidPattern 接受任意版本的 UUID（包括全零 UUID）
const uuidPattern = `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`

// ValidatorOptions OpenAPI 校验选项
type ValidatorOptions struct {
	Requests  bool // 校验请求，失败返回 400
	Responses bool // 校验响应，失败替换为 500
}

// OpenAPIValidator 按 OpenAPI 文档校验请求与响应
type OpenAPIValidator struct {
	doc     *openapi3.T
	router  routers.Router
	opts    ValidatorOptions
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewOpenAPIValidator 解析 OpenAPI 文档并创建校验器
func NewOpenAPIValidator(spec []byte, opts ValidatorOptions, metrics *monitoring.Metrics, logger *zap.Logger) (*OpenAPIValidator, error) {
	defineFormats.Do(func() {
		openapi3.DefineStringFormatValidator("uuid", openapi3.NewRegexpFormatValidator(uuidPattern))
	})

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAPIValidator{
		doc:     doc,
		router:  router,
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Document 返回解析后的文档
func (v *OpenAPIValidator) Document() *openapi3.T {
	return v.doc
}

// Middleware 返回 gin 中间件；文档未描述的路由直接放行
func (v *OpenAPIValidator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !v.opts.Requests && !v.opts.Responses {
			c.Next()
			return
		}

		route, pathParams, err := v.router.FindRoute(c.Request)
		if err != nil {
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if v.opts.Requests {
			if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
				v.record("request")
				v.logger.Debug("request rejected by openapi validator",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				abortWithError(c, http.StatusBadRequest, "request validation failed", describe(err))
				return
			}
		}

		if !v.opts.Responses {
			c.Next()
			return
		}

		buffered := newBufferedWriter(c.Writer)
		c.Writer = buffered
		// panic 时也要换回原始 writer，外层恢复中间件的 500 才能写出
		defer func() { c.Writer = buffered.ResponseWriter }()
		c.Next()
		c.Writer = buffered.ResponseWriter

		if err := v.validateResponse(c.Request.Context(), input, buffered); err != nil {
			v.record("response")
			v.logger.Error("response rejected by openapi validator",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", buffered.Status()),
				zap.Error(err),
			)
			abortWithError(c, http.StatusInternalServerError, "response validation failed", describe(err))
			return
		}

		buffered.flush()
	}
}

func (v *OpenAPIValidator) validateResponse(ctx context.Context, input *openapi3filter.RequestValidationInput, w *bufferedWriter) error {
	return openapi3filter.ValidateResponse(ctx, &openapi3filter.ResponseValidationInput{
		RequestValidationInput: input,
		Status:                 w.Status(),
		Header:                 w.Header(),
		Body:                   io.NopCloser(bytes.NewReader(w.body.Bytes())),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	})
}

func (v *OpenAPIValidator) record(direction string) {
	if v.metrics != nil {
		v.metrics.RecordValidationFailure(direction)
	}
}

// describe 把校验错误转成面向客户端的简短描述
func describe(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		detail := reqErr.Reason
		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			detail = schemaDetail(schemaErr)
		} else if detail == "" && reqErr.Err != nil {
			detail = reqErr.Err.Error()
		}

		switch {
		case reqErr.Parameter != nil:
			return fmt.Sprintf("%s parameter %q: %s", reqErr.Parameter.In, reqErr.Parameter.Name, detail)
		case reqErr.RequestBody != nil:
			return "request body: " + detail
		}
		return detail
	}

	var respErr *openapi3filter.ResponseError
	if errors.As(err, &respErr) {
		var schemaErr *openapi3.SchemaError
		if errors.As(respErr.Err, &schemaErr) {
			return "response body: " + schemaDetail(schemaErr)
		}
		if respErr.Reason != "" {
			return "response: " + respErr.Reason
		}
	}

	return err.Error()
}

func schemaDetail(err *openapi3.SchemaError) string {
	pointer := err.JSONPointer()
	if len(pointer) == 0 {
		return err.Reason
	}
	return "/" + strings.Join(pointer, "/") + ": " + err.Reason
}

// bufferedWriter 缓存响应，校验通过后再写出
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func newBufferedWriter(w gin.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *bufferedWriter) WriteHeader(code int) {
	if code > 0 {
		w.status = code
	}
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	if w.body.Len() == 0 {
		return -1
	}
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.body.Len() > 0
}

func (w *bufferedWriter) flush() {
	w.ResponseWriter.WriteHeader(w.status)
	if w.body.Len() > 0 {
		_, _ = w.ResponseWriter.Write(w.body.Bytes())
	} else {
		w.ResponseWriter.WriteHeaderNow()
	}
}
