// Package ratelimit throttles abuse-prone endpoints such as forgot-password.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/redis/go-redis/v9"
)

// Limiter reports common.ErrRateLimited once key has used up its allowance.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// Noop never limits.
type Noop struct{}

func (Noop) Allow(context.Context, string) error { return nil }

// RedisLimiter is a fixed-window counter. Every hit increments the key and
// sets its TTL if it has none, in one MULTI block.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) (*RedisLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("limit and window must be positive")
	}
	return &RedisLimiter{client: client, prefix: prefix, limit: int64(limit), window: window}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	k := l.key(key)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}

	if incr.Val() > l.limit {
		return common.ErrRateLimited
	}
	return nil
}

func (l *RedisLimiter) key(key string) string {
	if l.prefix == "" {
		return key
	}
	return l.prefix + ":" + key
}

// New returns a RedisLimiter for addr, or Noop when addr is empty.
func New(addr string, limit int, window time.Duration) (Limiter, func() error, error) {
	if addr == "" {
		return Noop{}, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	l, err := NewRedisLimiter(client, "cyberspace:forgot", limit, window)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return l, client.Close, nil
}
