package health

import (
	"fmt"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"
)

// Checker 可被健康检查的组件
type Checker interface {
	Health() error
}

// 检查参数
const (
	storageTimeout    = 3 * time.Second
	maxGoroutineCount = 10000
)

// HealthChecker 健康检查器
type HealthChecker struct {
	health healthcheck.Handler
	store  Checker
	logger *zap.Logger
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(store Checker, logger *zap.Logger) *HealthChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := &HealthChecker{
		health: healthcheck.NewHandler(),
		store:  store,
		logger: logger,
	}

	hc.addChecks()

	return hc
}

// addChecks 添加健康检查
func (hc *HealthChecker) addChecks() {
	// 协程泄漏视为进程不健康
	hc.health.AddLivenessCheck("goroutines", healthcheck.GoroutineCountCheck(maxGoroutineCount))

	// 快照存储不可用时停止接收流量
	hc.health.AddReadinessCheck("storage", healthcheck.Timeout(hc.checkStorage, storageTimeout))
}

func (hc *HealthChecker) checkStorage() error {
	if err := hc.store.Health(); err != nil {
		hc.logger.Warn("storage health check failed", zap.Error(err))
		return err
	}
	return nil
}

// Handler 返回健康检查处理器，提供 /live 与 /ready
func (hc *HealthChecker) Handler() http.Handler {
	return hc.health
}

// LiveEndpoint 存活检查
func (hc *HealthChecker) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.LiveEndpoint(w, r)
}

// ReadyEndpoint 就绪检查
func (hc *HealthChecker) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.ReadyEndpoint(w, r)
}

// CheckHealth 执行健康检查并返回各组件状态
func (hc *HealthChecker) CheckHealth() map[string]string {
	results := make(map[string]string)

	if err := hc.store.Health(); err != nil {
		results["storage"] = fmt.Sprintf("ERROR: %v", err)
	} else {
		results["storage"] = "OK"
	}

	results["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	return results
}
