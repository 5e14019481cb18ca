package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"concert-storefront/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocalStorage(t *testing.T, storage LocalStorage) {
	t.Helper()
	ctx := context.Background()

	_, found, err := storage.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, storage.SetItem(ctx, "cart", `{"items":[],"donation":0}`))
	value, found, err := storage.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"items":[],"donation":0}`, value)

	require.NoError(t, storage.SetItem(ctx, "cart", `{"items":[],"donation":5000}`))
	value, _, err = storage.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[],"donation":5000}`, value)

	require.NoError(t, storage.RemoveItem(ctx, "cart"))
	_, found, err = storage.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, found)

	// removing a missing key is not an error
	require.NoError(t, storage.RemoveItem(ctx, "cart"))
}

func TestMemoryStorage(t *testing.T) {
	testLocalStorage(t, NewMemoryStorage())
}

func TestSQLiteStorage(t *testing.T) {
	db, err := database.NewConnection(database.Config{Path: filepath.Join(t.TempDir(), "storage.db")})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	testLocalStorage(t, NewSQLiteStorage(db.DB))
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	ctx := context.Background()

	db, err := database.NewConnection(database.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	require.NoError(t, NewSQLiteStorage(db.DB).SetItem(ctx, "cart", "persisted"))
	require.NoError(t, db.Close())

	db, err = database.NewConnection(database.Config{Path: path})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	value, found, err := NewSQLiteStorage(db.DB).GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "persisted", value)
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := NewRedisClient(addr)
	defer client.Close()

	testLocalStorage(t, NewRedisStorage(client, "test-"+uuid.NewString()))
}
