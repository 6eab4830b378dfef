package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Locker guards a full reconciliation run. TryLock never waits: when another
// holder owns the lock it returns domain.ErrReconcileAlreadyRunning.
type Locker interface {
	TryLock(ctx context.Context) (release func(context.Context) error, err error)
}

// LocalLocker serialises runs inside one process.
type LocalLocker struct {
	mu sync.Mutex
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{}
}

func (l *LocalLocker) TryLock(ctx context.Context) (func(context.Context) error, error) {
	if !l.mu.TryLock() {
		return nil, domain.ErrReconcileAlreadyRunning
	}
	var once sync.Once
	return func(context.Context) error {
		once.Do(l.mu.Unlock)
		return nil
	}, nil
}

// RedisLocker holds a redsync mutex so only one replica runs a pass.
type RedisLocker struct {
	rs   *redsync.Redsync
	name string
	ttl  time.Duration
}

// NewRedisLocker creates a cluster-wide locker over client.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisLocker{
		rs:   redsync.New(goredis.NewPool(client)),
		name: LockName,
		ttl:  ttl,
	}
}

func (l *RedisLocker) TryLock(ctx context.Context) (func(context.Context) error, error) {
	mutex := l.rs.NewMutex(l.name, redsync.WithExpiry(l.ttl), redsync.WithTries(1))
	if err := mutex.TryLockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, domain.ErrReconcileAlreadyRunning
		}
		return nil, fmt.Errorf(ErrMsgAcquireLockFailed, err)
	}
	return func(ctx context.Context) error {
		_, err := mutex.UnlockContext(ctx)
		return err
	}, nil
}
