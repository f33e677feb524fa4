package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailapi/backend/internal/config"
	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := New(&config.RedisConfig{Address: mr.Addr()}, "mailapi:test", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	boxes := domain.SeedMailboxes()
	boxes.Append("archive", boxes.Remove(domain.MailboxInbox, 0))
	require.NoError(t, store.Save(ctx, boxes))

	assert.True(t, mr.Exists("mailapi:test"))
	assert.Equal(t, 0, int(mr.TTL("mailapi:test")))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.MailboxInbox, domain.MailboxSent, domain.MailboxTrash, "archive"}, loaded.Names())

	name, _, ok := loaded.Find(domain.SeedMessageID)
	require.True(t, ok)
	assert.Equal(t, "archive", name)
}

func TestStore_LoadCorrupt(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("mailapi:test", "not json"))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestStore_Health(t *testing.T) {
	store, mr := newTestStore(t)
	assert.NoError(t, store.Health())

	mr.Close()
	assert.Error(t, store.Health())
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(&config.RedisConfig{Address: addr}, "mailapi:test", nil)
	assert.Error(t, err)
}
