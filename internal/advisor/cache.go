package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mr1hm/go-saferoute/internal/metrics"
)

const cacheKeyPrefix = "saferoute:advice:"

// ConnectRedis parses a redis:// URL and checks the server answers.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// CachedGenerator keeps generated text in Redis keyed by prompt, and
// collapses concurrent calls for the same prompt into one upstream call.
// Cache failures fall through to the wrapped generator.
type CachedGenerator struct {
	next  Generator
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedGenerator(next Generator, rdb *redis.Client, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
	}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.AdviceCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	case errors.Is(err, redis.Nil):
		metrics.AdviceCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.AdviceCacheTotal.WithLabelValues("error").Inc()
		slog.Warn("advice cache read failed", "error", err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		text, err := c.next.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
			slog.Warn("advice cache write failed", "error", err)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
