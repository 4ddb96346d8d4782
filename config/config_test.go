package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamasa/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)

		assert.Equal(t, "Africa/Cairo", cfg.App.Timezone)
		assert.Equal(t, "5432", cfg.DB.Postgres.Write.Port)
		assert.Equal(t, "disable", cfg.DB.Postgres.Read.SSLMode)
		assert.Equal(t, 10, cfg.DB.Postgres.MaxOpenConns)
		assert.InDelta(t, 50.0, cfg.Marketplace.UnlockFee, 0.001)
	})

	t.Run("environment wins over defaults", func(t *testing.T) {
		t.Setenv("MARKETPLACE_UNLOCK_FEE", "75.5")
		t.Setenv("DB_POSTGRES_WRITE_HOST", "db.internal")
		t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)

		assert.InDelta(t, 75.5, cfg.Marketplace.UnlockFee, 0.001)
		assert.Equal(t, "db.internal", cfg.DB.Postgres.Write.Host)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("CACHE_REDIS_PRIMARY_POOL_SIZE=42\n"), 0o600))

		t.Cleanup(func() { _ = os.Unsetenv("CACHE_REDIS_PRIMARY_POOL_SIZE") })

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, 42, cfg.Cache.Redis.Primary.PoolSize)
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")

		_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}
