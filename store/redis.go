package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/domain"
	"storefront/logx"
)

// DefaultRedisPrefix namespaces every storefront key.
const DefaultRedisPrefix = "storefront:"

// RedisConfig holds connection settings; the URL comes from --store-path.
type RedisConfig struct {
	URL          string `ignored:"true"`
	Prefix       string `envconfig:"REDIS_PREFIX" default:"storefront:"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
}

// New parses the URL, applies timeouts and pings the server.
func (c *RedisConfig) New(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, err
	}
	if c.ReadTimeout > 0 {
		opts.ReadTimeout = time.Duration(c.ReadTimeout) * time.Second
	}
	if c.WriteTimeout > 0 {
		opts.WriteTimeout = time.Duration(c.WriteTimeout) * time.Second
	}
	if c.DialTimeout > 0 {
		opts.DialTimeout = time.Duration(c.DialTimeout) * time.Second
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// RedisStore is a domain.KVStore on top of plain Redis strings.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

// compile-time assertion
var _ domain.KVStore = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. An empty prefix means DefaultRedisPrefix.
func NewRedisStore(rdb redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("key", r.key(key)).Msg("failed to get key from redis")
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		logx.Error().Err(err).Str("key", r.key(key)).Msg("failed to set key in redis")
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		logx.Error().Err(err).Str("key", r.key(key)).Msg("failed to delete key from redis")
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Close closes the underlying client when it owns one.
func (r *RedisStore) Close() error {
	if c, ok := r.rdb.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
