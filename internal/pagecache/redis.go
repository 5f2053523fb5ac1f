package pagecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pagecache:"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to addr, which may be host:port or a redis:// URL.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		o, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = o
	} else {
		opts = &redis.Options{Addr: addr}
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) (*Entry, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pagecache get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("pagecache decode: %w", err)
	}
	return &e, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, e *Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("pagecache encode: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("pagecache set: %w", err)
	}
	return nil
}

func (c *Redis) Revalidate(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		pattern := keyPrefix + escapeGlob(strings.TrimSuffix(p, "/")) + "*"
		var stale []string
		iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			k := iter.Val()
			if covers(p, strings.TrimPrefix(k, keyPrefix)) {
				stale = append(stale, k)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("pagecache scan %s: %w", p, err)
		}
		if len(stale) == 0 {
			continue
		}
		if err := c.client.Del(ctx, stale...).Err(); err != nil {
			return fmt.Errorf("pagecache revalidate %s: %w", p, err)
		}
	}
	return nil
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string { return globReplacer.Replace(s) }
