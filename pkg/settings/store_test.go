package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenAt(context.Background(), filepath.Join(t.TempDir(), "skillkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	t.Run("get absent key", func(t *testing.T) {
		_, found, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "router.model", "claude-sonnet-4-5"))

		value, found, err := store.Get(ctx, "router.model")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "claude-sonnet-4-5", value)
	})

	t.Run("set replaces previous value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "router.model", "gpt-4o-mini"))

		value, _, err := store.Get(ctx, "router.model")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "router.model"))

		_, found, err := store.Get(ctx, "router.model")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete absent key", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}

func TestOpenAtReopens(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "skillkit.db")

	store, err := OpenAt(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "skills.enabled", `["a"]`))
	require.NoError(t, store.Close())

	// Reopening runs the migrations again without clobbering data.
	reopened, err := OpenAt(ctx, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "skills.enabled")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["a"]`, value)
}
