package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/testutil"
)

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.StoreConfig{
		Backend:        config.BackendSQLite,
		DatabaseURL:    filepath.Join(t.TempDir(), "swiss.db"),
		ConnectTimeout: time.Second,
	}

	store, err := OpenStore(ctx, cfg, true, testutil.NopLogger())
	require.NoError(t, err)
	_, err = store.Repo.RegisterPlayer(ctx, "Ann")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// The data outlives the connection.
	store, err = OpenStore(ctx, cfg, false, testutil.NopLogger())
	require.NoError(t, err)
	defer store.Close()
	n, err := store.Repo.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenStore_Redis(t *testing.T) {
	mini := miniredis.RunT(t)
	ctx := context.Background()

	store, err := OpenStore(ctx, config.StoreConfig{
		Backend:        config.BackendRedis,
		RedisURL:       "redis://" + mini.Addr(),
		RedisKeyPrefix: "cup",
		ConnectTimeout: time.Second,
	}, true, testutil.NopLogger())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Repo.RegisterPlayer(ctx, "Ann")
	require.NoError(t, err)
	assert.True(t, mini.Exists("cup:players"))
}

func TestOpenStore_Unavailable(t *testing.T) {
	mini := miniredis.RunT(t)
	addr := mini.Addr()
	mini.Close()

	_, err := OpenStore(context.Background(), config.StoreConfig{
		Backend:        config.BackendRedis,
		RedisURL:       "redis://" + addr,
		ConnectTimeout: 200 * time.Millisecond,
	}, false, testutil.NopLogger())
	assert.ErrorIs(t, err, repositories.ErrStoreUnavailable)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := OpenStore(context.Background(), config.StoreConfig{Backend: "mongo"}, false, testutil.NopLogger())
	assert.Error(t, err)
}
