package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const defaultLeaseExpiry = 10 * time.Second

// ErrTableLocked is returned when another run holds the lease of a table, or
// when the caller's own lease expired before a save.
var ErrTableLocked = errors.New("value table is leased by another run")

// RedisTableStore keeps the value table of one maze under a single Redis key.
// A run leases the table with Lock from loading it until its final save, so
// two solvers of the same maze never overwrite each other's learning.
type RedisTableStore struct {
	client *redis.Client
	locker *redsync.Redsync
	key    string
	expiry time.Duration

	mu    sync.Mutex
	lease *redsync.Mutex
}

// NewRedisTableStore returns a store for mazeName under "<prefix>:qtable:<mazeName>".
func NewRedisTableStore(client *redis.Client, prefix, mazeName string) *RedisTableStore {
	pool := goredis.NewPool(client)
	return &RedisTableStore{
		client: client,
		locker: redsync.New(pool),
		key:    fmt.Sprintf("%s:qtable:%s", prefix, mazeName),
		expiry: defaultLeaseExpiry,
	}
}

// Key returns the Redis key holding the table.
func (s *RedisTableStore) Key() string {
	return s.key
}

// LockKey returns the Redis key holding the lease.
func (s *RedisTableStore) LockKey() string {
	return s.key + ":lock"
}

// Lock takes the table's lease without waiting. The lease is extended in the
// background until release is called. Saves through this store are only
// accepted while the lease is still held.
func (s *RedisTableStore) Lock(ctx context.Context) (release func(), err error) {
	mutex := s.locker.NewMutex(s.LockKey(), redsync.WithExpiry(s.expiry), redsync.WithTries(1))
	if err := mutex.TryLockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.As(err, &taken) || errors.Is(err, redsync.ErrFailed) {
			return nil, fmt.Errorf("%w: %s", ErrTableLocked, s.key)
		}
		return nil, fmt.Errorf("lock %s: %w", s.key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go s.keepAlive(mutex, stop, done)

	s.mu.Lock()
	s.lease = mutex
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			s.mu.Lock()
			if s.lease == mutex {
				s.lease = nil
			}
			s.mu.Unlock()

			_, _ = mutex.UnlockContext(context.Background())
		})
	}, nil
}

func (s *RedisTableStore) keepAlive(mutex *redsync.Mutex, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.expiry / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if ok, err := mutex.ExtendContext(context.Background()); !ok || err != nil {
				return
			}
		}
	}
}

// Load reads and decodes the table. A missing or empty key is not found.
func (s *RedisTableStore) Load(ctx context.Context) (*qtable.Table, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	t, err := qtable.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.key, err)
	}
	return t, true, nil
}

// Save overwrites the table. Under a lease the lease must still be ours;
// without one, a short lease is taken for the write and a table leased by
// another run is left untouched.
func (s *RedisTableStore) Save(ctx context.Context, t *qtable.Table) error {
	data, err := qtable.Encode(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	lease := s.lease
	s.mu.Unlock()

	if lease == nil {
		release, err := s.Lock(ctx)
		if err != nil {
			return err
		}
		defer release()
	} else if ok, err := lease.ValidContext(ctx); err != nil || !ok {
		return fmt.Errorf("%w: lease on %s expired", ErrTableLocked, s.key)
	}

	return s.client.Set(ctx, s.key, data, 0).Err()
}
