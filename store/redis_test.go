package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestRedis(t)
	kvContract(t, NewRedisStore(client, ""))
}

func TestRedisStore_PrefixesKeys(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "test:")

	require.NoError(t, s.Set(context.Background(), "storefront.theme", "light"))

	got, err := mr.Get("test:storefront.theme")
	require.NoError(t, err)
	assert.Equal(t, "light", got)
	assert.False(t, mr.Exists("storefront.theme"))
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "")

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"k"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "")
	mr.Close()

	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "k", "v"))
}

func TestRedisConfig_New(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := RedisConfig{URL: "redis://" + mr.Addr(), ReadTimeout: 1, WriteTimeout: 1, DialTimeout: 1}
	client, err := cfg.New(context.Background())
	require.NoError(t, err)
	defer client.Close()

	bad := RedisConfig{URL: "not a url"}
	_, err = bad.New(context.Background())
	assert.Error(t, err)
}
