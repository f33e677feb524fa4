package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("加载默认配置成功", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 3010, cfg.Server.Port)
		assert.Equal(t, BackendMemory, cfg.Storage.Backend)
		assert.Equal(t, "./data/mailboxes.json", cfg.Storage.SnapshotPath)
		assert.Equal(t, "mailapi:mailboxes", cfg.Storage.SnapshotKey)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Development)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, 2, cfg.Database.MaxIdleConns)
		assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, "localhost:6379", cfg.Redis.Address)
		assert.True(t, cfg.Validation.Requests)
		assert.False(t, cfg.Validation.Responses)
		assert.Zero(t, cfg.RateLimit.RequestsPerSecond)
	})

	t.Run("加载自定义配置成功", func(t *testing.T) {
		t.Setenv("MAILAPI_SERVER_HOST", "127.0.0.1")
		t.Setenv("MAILAPI_SERVER_PORT", "9090")
		t.Setenv("MAILAPI_STORAGE_BACKEND", "File")
		t.Setenv("MAILAPI_STORAGE_SNAPSHOT_PATH", "/tmp/mail.json")
		t.Setenv("MAILAPI_CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
		t.Setenv("MAILAPI_LOG_LEVEL", "debug")
		t.Setenv("MAILAPI_DATABASE_CONN_MAX_LIFETIME", "30s")
		t.Setenv("MAILAPI_RATELIMIT_REQUESTS_PER_SECOND", "50")
		t.Setenv("MAILAPI_RATELIMIT_BURST", "100")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, BackendFile, cfg.Storage.Backend)
		assert.Equal(t, "/tmp/mail.json", cfg.Storage.SnapshotPath)
		assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 30*time.Second, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 50.0, cfg.RateLimit.RequestsPerSecond)
		assert.Equal(t, 100, cfg.RateLimit.Burst)
	})

	t.Run("开发模式默认开启响应校验", func(t *testing.T) {
		t.Setenv("MAILAPI_LOG_DEVELOPMENT", "true")

		cfg, err := Load()

		require.NoError(t, err)
		assert.True(t, cfg.Log.Development)
		assert.True(t, cfg.Validation.Responses)
	})

	t.Run("显式关闭响应校验", func(t *testing.T) {
		t.Setenv("MAILAPI_LOG_DEVELOPMENT", "true")
		t.Setenv("MAILAPI_VALIDATION_RESPONSES", "false")

		cfg, err := Load()

		require.NoError(t, err)
		assert.False(t, cfg.Validation.Responses)
	})

	t.Run("端口越界失败", func(t *testing.T) {
		t.Setenv("MAILAPI_SERVER_PORT", "70000")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid server.port")
	})

	t.Run("未知存储后端失败", func(t *testing.T) {
		t.Setenv("MAILAPI_STORAGE_BACKEND", "mongodb")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "unsupported storage.backend")
	})

	t.Run("数据库后端缺少DSN失败", func(t *testing.T) {
		for _, backend := range []string{BackendMySQL, BackendPostgres, BackendSQLite} {
			t.Setenv("MAILAPI_STORAGE_BACKEND", backend)

			cfg, err := Load()

			assert.Error(t, err, backend)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "database.dsn is required")
		}
	})

	t.Run("数据库后端配置DSN成功", func(t *testing.T) {
		t.Setenv("MAILAPI_STORAGE_BACKEND", BackendSQLite)
		t.Setenv("MAILAPI_DATABASE_DSN", "./data/mailapi.db")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
		assert.Equal(t, "./data/mailapi.db", cfg.Database.DSN)
	})
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"单个元素", "item1", []string{"item1"}},
		{"多个元素", "item1,item2,item3", []string{"item1", "item2", "item3"}},
		{"带空格", " item1 , item2 , item3 ", []string{"item1", "item2", "item3"}},
		{"空字符串", "", []string{}},
		{"只有逗号", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseList(tt.input))
		})
	}
}
