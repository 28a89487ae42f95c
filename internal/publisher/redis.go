package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

const redisWriteTimeout = 3 * time.Second

// RedisStore mirrors the latest per-asset signal into a Redis hash so other
// processes can read it without touching the snapshot file.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to addr and writes under the given hash key.
func NewRedisStore(addr, key string) *RedisStore {
	if key == "" {
		key = "signals:latest"
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		key:    key,
	}
}

// WriteLatest stores each signal as a JSON hash field keyed by asset.
func (r *RedisStore) WriteLatest(signals map[string]signal.Signal) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	fields := make(map[string]any, len(signals))
	for asset, sig := range signals {
		data, err := json.Marshal(sig)
		if err != nil {
			return fmt.Errorf("marshal signal for %s: %w", asset, err)
		}
		fields[asset] = data
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.client.HSet(ctx, r.key, fields).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
