package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
)

func exerciseStore(t *testing.T, store interfaces.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	require.NoError(t, store.Set(ctx, "saveplan:draft", `{"form":{}}`))
	got, err := store.Get(ctx, "saveplan:draft")
	require.NoError(t, err)
	assert.Equal(t, `{"form":{}}`, got)

	require.NoError(t, store.Set(ctx, "saveplan:draft", "v2"))
	got, err = store.Get(ctx, "saveplan:draft")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, store.Delete(ctx, "saveplan:draft"))
	_, err = store.Get(ctx, "saveplan:draft")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	// Deleting an absent key is not an error
	assert.NoError(t, store.Delete(ctx, "saveplan:draft"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(common.NewSilentLogger(), dir)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(common.NewSilentLogger(), dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "a", "1"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Name())
}

func TestFileStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(common.NewSilentLogger(), dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "../../etc/passwd", "x"))
	_, err = os.Stat(filepath.Join(dir, "____etc_passwd.json"))
	assert.NoError(t, err)
}

func TestNewKeyValueStore_Backends(t *testing.T) {
	logger := common.NewSilentLogger()

	for _, backend := range []string{"", BackendFile, BackendMemory, BackendBadger} {
		t.Run("backend="+backend, func(t *testing.T) {
			store, err := NewKeyValueStore(logger, &common.StorageConfig{Backend: backend, Path: t.TempDir()})
			require.NoError(t, err)
			defer store.Close()
			exerciseStore(t, store)
		})
	}

	_, err := NewKeyValueStore(logger, &common.StorageConfig{Backend: "surreal"})
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCache(clock.Now)

	require.NoError(t, cache.Set(ctx, "forever", "a", 0))
	require.NoError(t, cache.Set(ctx, "brief", "b", time.Minute))

	v, ok := cache.Get(ctx, "brief")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	clock.Advance(time.Minute)
	_, ok = cache.Get(ctx, "brief")
	assert.False(t, ok)

	v, ok = cache.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, cache.Len())
}

func TestNewExplanationCache_DefaultsToMemory(t *testing.T) {
	cache := NewExplanationCache(common.NewSilentLogger(), "")
	_, ok := cache.(*MemoryCache)
	assert.True(t, ok)
}
