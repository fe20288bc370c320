package keylock

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker serializes work per key. Poll and Cancel on the same
// activation id must not interleave, or a refund can race a
// code-received transition.
type Locker interface {
	// Lock blocks until the key is held or the context ends. The
	// returned release function must be called exactly once.
	Lock(ctx context.Context, key string) (release func(), err error)
}

// localLocker is the in-process implementation, enough for a single
// server instance.
type localLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewLocal() Locker {
	return &localLocker{locks: make(map[string]*entry)}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		e.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		// The goroutine still acquires eventually; release then.
		go func() {
			<-acquired
			l.release(key, e)
		}()
		return nil, ctx.Err()
	}

	return func() { l.release(key, e) }, nil
}

func (l *localLocker) release(key string, e *entry) {
	e.mu.Unlock()
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// redisLocker holds keys via SET NX with a TTL so a crashed instance
// cannot wedge an activation forever. Falls back to polling acquisition.
type redisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	local  Locker
	prefix string
}

func NewRedis(rdb *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{
		rdb:    rdb,
		ttl:    ttl,
		local:  NewLocal(),
		prefix: "lock:",
	}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	// Serialize in-process first; cheaper than spinning on redis.
	localRelease, err := l.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	redisKey := l.prefix + key
	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, "1", l.ttl).Result()
		if err != nil {
			// Redis down: degrade to the in-process lock rather
			// than refusing all activation traffic.
			return localRelease, nil
		}
		if ok {
			break
		}
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			localRelease()
			return nil, ctx.Err()
		}
	}

	return func() {
		l.rdb.Del(context.Background(), redisKey)
		localRelease()
	}, nil
}
