package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/storage"
)

func TestNewStore(t *testing.T) {
	t.Run("自动创建目录", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "data", "mailboxes.json")

		store, err := NewStore(path)
		require.NoError(t, err)
		assert.Equal(t, path, store.Path())
		assert.DirExists(t, filepath.Dir(path))
		assert.NoError(t, store.Health())
	})

	t.Run("拒绝路径遍历", func(t *testing.T) {
		_, err := NewStore("../outside/mailboxes.json")
		assert.Error(t, err)
	})

	t.Run("拒绝空路径", func(t *testing.T) {
		_, err := NewStore("  ")
		assert.Error(t, err)
	})
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "mailboxes.json"))
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(filepath.Join(t.TempDir(), "mailboxes.json"))
	require.NoError(t, err)

	boxes := domain.SeedMailboxes()
	boxes.Append("archive", domain.Message{
		ID:        "3c1fd0a6-8f0e-4c55-9b54-3f3f7f1a0c11",
		ToName:    "Persistent User",
		ToEmail:   "persistent.user@example.com",
		FromName:  domain.DefaultSenderName,
		FromEmail: domain.DefaultSenderEmail,
		Subject:   "Persistent Subject",
		Received:  time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Content:   "Persistent Content",
	})

	require.NoError(t, store.Save(ctx, boxes))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, boxes.Names(), loaded.Names())

	name, _, ok := loaded.Find("3c1fd0a6-8f0e-4c55-9b54-3f3f7f1a0c11")
	require.True(t, ok)
	assert.Equal(t, "archive", name)

	// 覆盖写入不残留临时文件
	require.NoError(t, store.Save(ctx, loaded))
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailboxes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"inbox": [`), 0644))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrSnapshotNotFound)
}
