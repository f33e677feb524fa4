package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/storage"
)

// Store 在内存中保存邮箱集合，可选地在每次变更后写入快照。
type Store struct {
	mu       sync.RWMutex
	boxes    *domain.Mailboxes
	snapshot storage.SnapshotRepository // 为 nil 时不持久化
}

// NewStore 用给定的邮箱集合创建内存存储。
func NewStore(boxes *domain.Mailboxes, snapshot storage.SnapshotRepository) *Store {
	if boxes == nil {
		boxes = domain.SeedMailboxes()
	}
	return &Store{
		boxes:    boxes,
		snapshot: snapshot,
	}
}

// Open 从快照恢复内存存储，没有快照时使用初始邮箱。
func Open(ctx context.Context, snapshot storage.SnapshotRepository) (*Store, error) {
	if snapshot == nil {
		return NewStore(nil, nil), nil
	}

	boxes, err := snapshot.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrSnapshotNotFound):
		return NewStore(nil, snapshot), nil
	case err != nil:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return NewStore(boxes, snapshot), nil
}

// View 在读锁内访问邮箱集合，fn 不得修改 boxes。
func (s *Store) View(fn func(boxes *domain.Mailboxes) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.boxes)
}

// Update 在写锁内对副本执行 fn，持久化成功后才替换当前状态。
func (s *Store) Update(ctx context.Context, fn func(boxes *domain.Mailboxes) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.boxes.Clone()
	if err := fn(next); err != nil {
		return err
	}

	if s.snapshot != nil {
		if err := s.snapshot.Save(ctx, next); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	s.boxes = next
	return nil
}

// Count 返回邮箱数与邮件总数。
func (s *Store) Count() (mailboxes, messages int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.boxes.Count()
}

// Health 检查快照介质是否可用。
func (s *Store) Health() error {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Health()
}

// Close 关闭快照介质。
func (s *Store) Close() error {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Close()
}
