package httptransport

import (
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailapi/backend/api"
	"mailapi/backend/internal/config"
	"mailapi/backend/internal/health"
	"mailapi/backend/internal/middleware"
	"mailapi/backend/internal/monitoring"
	"mailapi/backend/internal/service"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config      *config.Config
	MailService *service.MailService
	Metrics     *monitoring.Metrics
	Logger      *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}

	validator, err := middleware.NewOpenAPIValidator(api.Spec, middleware.ValidatorOptions{
		Requests:  deps.Config.Validation.Requests,
		Responses: deps.Config.Validation.Responses,
	}, metrics, logger)
	if err != nil {
		return nil, err
	}
	if info := validator.Document().Info; info != nil {
		logger.Info("openapi document loaded",
			zap.String("title", info.Title),
			zap.String("version", info.Version),
			zap.Bool("validate_requests", deps.Config.Validation.Requests),
			zap.Bool("validate_responses", deps.Config.Validation.Responses),
		)
	}

	router := gin.New()
	monitor := middleware.NewMonitoringMiddleware(metrics, logger)

	// 恢复中间件放在日志与指标之内，panic 也能记为 500
	router.Use(middleware.RequestLogger(logger))
	router.Use(monitor.HTTPMetrics())
	router.Use(monitor.PanicRecovery())
	router.Use(middleware.SecurityHeaders(docsPrefix))
	router.Use(middleware.RateLimit(
		middleware.NewLimiter(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.Burst),
		metrics,
	))
	router.Use(middleware.BodySizeLimit(middleware.DefaultBodyLimit))

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-Max-Body-Size", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	router.NoRoute(func(c *gin.Context) {
		NotFound(c, MsgRouteNotFound, c.Request.Method+" "+c.Request.URL.Path)
	})

	// 在线文档
	registerDocs(router, api.Spec)

	// 健康检查与指标
	checker := health.NewHealthChecker(deps.MailService, logger)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health/live", gin.WrapF(checker.LiveEndpoint))
	router.GET("/health/ready", gin.WrapF(checker.ReadyEndpoint))
	router.GET("/metrics", gin.WrapH(metrics.HTTPHandler()))

	// 初始化邮箱数与邮件数
	metrics.UpdateMailStats(deps.MailService.Stats())

	handler := NewMailHandler(deps.MailService)

	v0 := router.Group("/v0")
	v0.Use(monitor.BusinessMetrics(deps.MailService.Stats))
	v0.Use(validator.Middleware())
	{
		v0.GET("/mail", handler.listMail)
		v0.POST("/mail", handler.composeMail)
		v0.GET("/mail/:id", handler.getMail)
		v0.PUT("/mail/:id", handler.moveMail)
	}

	return router, nil
}
