package locks

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*Locker, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLocker(rdb, time.Second), rdb
}

func TestOrderLockKey(t *testing.T) {
	require.Equal(t, "orders:42:lock", OrderLockKey(42))
}

func TestWithLockRunsAndReleases(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	ran := 0
	require.NoError(t, locker.WithLock(ctx, OrderLockKey(1), func(ctx context.Context) error {
		ran++
		return nil
	}))
	// A second acquisition proves the first was released.
	require.NoError(t, locker.WithLock(ctx, OrderLockKey(1), func(ctx context.Context) error {
		ran++
		return nil
	}))
	require.Equal(t, 2, ran)
}

func TestWithLockBlocksWhileHeld(t *testing.T) {
	locker, rdb := newTestLocker(t)
	ctx := context.Background()

	holder, err := redislock.Obtain(ctx, rdb, OrderLockKey(7), 10*time.Second, nil)
	require.NoError(t, err)
	defer holder.Release(ctx)

	err = locker.WithLock(ctx, OrderLockKey(7), func(ctx context.Context) error {
		t.Fatal("must not run while the lock is held")
		return nil
	})
	require.ErrorIs(t, err, redislock.ErrNotObtained)
}
