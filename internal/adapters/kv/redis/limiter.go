package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Limiter es un rate limit de ventana fija. La clave nace con su TTL (SET NX EX)
// y se incrementa en la misma transacción, así nunca queda un contador sin expiración.
type Limiter struct {
	c      goredis.UniversalClient
	max    int
	window time.Duration
}

func NewLimiter(c goredis.UniversalClient, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{c: c, max: max, window: window}
}

func (l *Limiter) Limit() int            { return l.max }
func (l *Limiter) Window() time.Duration { return l.window }

func (l *Limiter) Allow(ctx context.Context, key string) (bool, int, error) {
	key = "ratelimit:" + key

	var incr *goredis.IntCmd
	_, err := l.c.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, l.window)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("redis ratelimit: %w", err)
	}
	count := incr.Val()

	n := int(count)
	remaining := l.max - n
	if remaining < 0 {
		remaining = 0
	}
	return n <= l.max, remaining, nil
}
