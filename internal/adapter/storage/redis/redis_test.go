package redis

import (
	"context"
	"strconv"
	"testing"

	"echeck-gateway/config"
	"echeck-gateway/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func miniredisConfig(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.RedisConfig{Host: mr.Host(), Port: port}
}

func TestNewClient_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), miniredisConfig(t, mr), logger.New("error", false))
	require.NoError(t, err)
	defer client.Close()

	hc := NewHealthCheck(client)
	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))

	mr.Close()
	assert.Error(t, hc.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := miniredisConfig(t, mr)
	mr.Close()

	client, err := NewClient(context.Background(), cfg, logger.New("error", false))
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "pinging redis")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := config.RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", cfg.Addr())
}
