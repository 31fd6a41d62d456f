package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"socialapi/internal/config"
	"socialapi/internal/database"
	"socialapi/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:            "test",
		LogLevel:       "error",
		DBDriver:       "sqlite",
		DBPath:         filepath.Join(t.TempDir(), "runtime.db"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	}
}

func TestInitRuntime_SQLiteWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.RedisURL = mr.Addr()

	rt, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close(rt.DB)
		_ = rt.Redis.Close()
		_ = rt.Close(context.Background())
	})

	require.NotNil(t, rt.Redis)
	assert.True(t, rt.DB.Migrator().HasTable(&models.Vote{}))
}

func TestInitRuntime_RedisOptional(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.RedisURL = "127.0.0.1:1"

	rt, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(rt.DB) })

	assert.Nil(t, rt.Redis)
}

func TestInitRuntime_SkipRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.RedisURL = mr.Addr()

	rt, err := InitRuntime(context.Background(), cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(rt.DB) })

	assert.Nil(t, rt.Redis)
}
