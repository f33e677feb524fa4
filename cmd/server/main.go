package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mailapi/backend/internal/config"
	"mailapi/backend/internal/logger"
	"mailapi/backend/internal/monitoring"
	"mailapi/backend/internal/service"
	"mailapi/backend/internal/storage"
	"mailapi/backend/internal/storage/filesystem"
	"mailapi/backend/internal/storage/memory"
	redisstore "mailapi/backend/internal/storage/redis"
	sqlstore "mailapi/backend/internal/storage/sql"
	httptransport "mailapi/backend/internal/transport/http"
)

// 邮箱统计指标刷新间隔
const statsInterval = 30 * time.Second

// main 启动邮件 HTTP API 服务。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     cfg.Log.File,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting mailapi server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("validate_requests", cfg.Validation.Requests),
		zap.Bool("validate_responses", cfg.Validation.Responses),
	)

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshot, err := initializeStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	store, err := memory.Open(ctx, snapshot)
	if err != nil {
		log.Fatal("failed to open mailbox store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("storage close warning", zap.Error(err))
		}
	}()

	mailboxes, messages := store.Count()
	log.Info("mailbox store ready", zap.Int("mailboxes", mailboxes), zap.Int("messages", messages))

	metrics := monitoring.NewMetrics()
	mailService := service.NewMailService(store, log)

	router, err := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:      cfg,
		MailService: mailService,
		Metrics:     metrics,
		Logger:      log,
	})
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// 定时刷新邮箱统计指标 goroutine
	group.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				metrics.UpdateMailStats(mailService.Stats())
			}
		}
	})

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		log.Info("server stopped")
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", zap.Error(err))
		return
	}

	log.Info("server exited cleanly")
}

// initializeStorage 按配置创建快照存储，memory 后端返回 nil（不持久化）
func initializeStorage(cfg *config.Config, log *zap.Logger) (storage.SnapshotRepository, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Info("using memory storage, mailbox changes are not persisted")
		return nil, nil

	case config.BackendFile:
		store, err := filesystem.NewStore(cfg.Storage.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create snapshot file store: %w", err)
		}
		log.Info("using file snapshot storage", zap.String("path", store.Path()))
		return store, nil

	case config.BackendRedis:
		store, err := redisstore.New(&cfg.Redis, cfg.Storage.SnapshotKey, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis snapshot store: %w", err)
		}
		log.Info("using redis snapshot storage",
			zap.String("address", cfg.Redis.Address),
			zap.String("key", cfg.Storage.SnapshotKey),
		)
		return store, nil

	case config.BackendMySQL, config.BackendPostgres, config.BackendSQLite:
		store, err := sqlstore.NewStore(
			cfg.Storage.Backend,
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s snapshot store: %w", cfg.Storage.Backend, err)
		}
		log.Info("using database snapshot storage", zap.String("database_type", cfg.Storage.Backend))
		return store, nil
	}

	return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
}
