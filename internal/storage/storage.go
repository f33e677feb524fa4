package storage

import (
	"context"
	"errors"

	"mailapi/backend/internal/domain"
)

var (
	// ErrSnapshotNotFound 表示持久化介质中尚无快照
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// MailboxRepository 定义邮箱集合的读写操作。
//
// View 在读锁内调用 fn；Update 在写锁内对状态副本调用 fn，
// fn 返回错误或持久化失败时原状态保持不变。
type MailboxRepository interface {
	View(fn func(boxes *domain.Mailboxes) error) error
	Update(ctx context.Context, fn func(boxes *domain.Mailboxes) error) error
	Health() error
}

// SnapshotRepository 定义邮箱快照的持久化操作。
type SnapshotRepository interface {
	// Load 读取快照，不存在时返回 ErrSnapshotNotFound
	Load(ctx context.Context) (*domain.Mailboxes, error)
	// Save 整体覆盖快照
	Save(ctx context.Context, boxes *domain.Mailboxes) error

	Health() error
	Close() error
}
