package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gamasa/config"
	"gamasa/infras/redis"
)

func TestOptions(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Redis.Primary = config.Redis{Host: "cache.internal", Port: "6380", Password: "secret", DB: 2, PoolSize: 30}

	opts := redis.Options(cfg)

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 30, opts.PoolSize)
}
