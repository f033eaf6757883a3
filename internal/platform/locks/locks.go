// Package locks serialises mutations on a single aggregate across requests.
package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const retryBackoff = 50 * time.Millisecond

// OrderLockKey builds the redis key guarding one purchase order.
func OrderLockKey(orderID int64) string {
	return fmt.Sprintf("orders:%d:lock", orderID)
}

// Locker acquires short-lived distributed locks backed by redis.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewLocker wraps a redis client. The TTL bounds how long a crashed holder
// can block other writers. The retry budget stays inside the TTL so a
// contended acquisition fails with ErrNotObtained rather than running into
// the TTL-derived deadline.
func NewLocker(rdb redis.UniversalClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	retries := int(ttl / retryBackoff / 2)
	if retries < 1 {
		retries = 1
	}
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(retryBackoff), retries),
	}
}

// WithLock runs fn while holding the named lock. Contending callers wait,
// bounded by the retry strategy, then fail with redislock.ErrNotObtained.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = redislock.ErrNotObtained
		}
		return fmt.Errorf("platform/locks: obtain %s: %w", key, err)
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()
	return fn(ctx)
}
