package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mailapi/backend/internal/config"
	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/storage"
)

// Store 把邮箱快照以 JSON 形式保存在单个 Redis 键中
type Store struct {
	rdb *goredis.Client
	key string
	log *zap.Logger
}

// New 创建新的 Redis 快照存储
func New(cfg *config.RedisConfig, key string, log *zap.Logger) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 测试连接
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	log.Info("connected to Redis",
		zap.String("address", cfg.Address),
		zap.Int("db", cfg.DB),
		zap.String("key", key),
	)

	return &Store{
		rdb: rdb,
		key: key,
		log: log,
	}, nil
}

// Load 读取快照
func (s *Store) Load(ctx context.Context) (*domain.Mailboxes, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot from Redis: %w", err)
	}

	boxes := domain.NewMailboxes()
	if err := json.Unmarshal(data, boxes); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot from Redis: %w", err)
	}
	return boxes, nil
}

// Save 覆盖写入快照（不过期）
func (s *Store) Save(ctx context.Context, boxes *domain.Mailboxes) error {
	data, err := json.Marshal(boxes)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot to Redis: %w", err)
	}
	return nil
}

// Health 测试 Redis 连接
func (s *Store) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (s *Store) Close() error {
	err := s.rdb.Close()
	if err != nil {
		s.log.Error("failed to close Redis connection", zap.Error(err))
		return err
	}
	s.log.Info("Redis connection closed")
	return nil
}
