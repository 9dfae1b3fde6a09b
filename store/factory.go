package store

import (
	"context"
	"fmt"
	"io"

	"github.com/kelseyhightower/envconfig"

	"storefront/domain"
)

// NewStore constructs a domain.KVStore by kind: "memory", "file", "sqlite" or "redis".
// target is the file path for file and sqlite, the redis URL for redis, and
// is ignored for memory.
func NewStore(ctx context.Context, kind, target string) (domain.KVStore, error) {
	switch kind {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if target == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		return NewFileStore(target)
	case "sqlite":
		if target == "" {
			return nil, fmt.Errorf("database path required for sqlite store")
		}
		return NewSQLiteStore(target)
	case "redis":
		if target == "" {
			return nil, fmt.Errorf("redis URL required for redis store")
		}
		var cfg RedisConfig
		if err := envconfig.Process("", &cfg); err != nil {
			return nil, fmt.Errorf("redis config: %w", err)
		}
		cfg.URL = target
		client, err := cfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return NewRedisStore(client, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}

// Close releases backends that hold connections; others are a no-op.
func Close(kv domain.KVStore) error {
	if c, ok := kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
