package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/storage"
)

// Store 把邮箱快照保存为单个 JSON 文件
//
// 文件内容为 {"<邮箱名>": [邮件...]}，写入时先写临时文件再重命名，
// 读取方不会看到写了一半的快照。
type Store struct {
	path string
}

// NewStore 创建文件快照存储，并确保所在目录存在。
func NewStore(path string) (*Store, error) {
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid snapshot path: %w", err)
	}

	normalized := normalizePath(path)
	if err := os.MkdirAll(filepath.Dir(normalized), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	return &Store{path: normalized}, nil
}

// Path 返回快照文件的绝对路径。
func (s *Store) Path() string {
	return s.path
}

// Load 读取快照文件。
func (s *Store) Load(ctx context.Context) (*domain.Mailboxes, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	boxes := domain.NewMailboxes()
	if err := json.Unmarshal(data, boxes); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}
	return boxes, nil
}

// Save 覆盖写入快照文件。
func (s *Store) Save(ctx context.Context, boxes *domain.Mailboxes) error {
	data, err := json.MarshalIndent(boxes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".mailboxes-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Health 检查快照目录是否可访问
func (s *Store) Health() error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("snapshot directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot directory %s is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// Close 文件存储无需释放资源
func (s *Store) Close() error {
	return nil
}
