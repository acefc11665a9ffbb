// Package store wraps the external Redis service holding the vote counters.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable marks any failure reaching the counter store. Handlers
// match it with errors.Is to turn store trouble into a 500 response.
var ErrStoreUnavailable = errors.New("counter store unavailable")

// Store is a client for the Redis-backed vote counters. All mutation goes
// through Redis INCR; the client holds no counter state and no locks.
type Store struct {
	rdb *redis.Client
}

// New creates a Store talking to the Redis instance at addr (host:port),
// database 0. No connection attempt is made here; use Ping to probe.
func New(addr string) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{Addr: addr, DB: 0})}
}

// Ping verifies connectivity to the store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Increment atomically adds one to the counter named key and returns the new
// value. An absent key counts from zero, so the first vote yields 1.
func (s *Store) Increment(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}

// Get returns the current value of the counter named key. Absent keys and
// values that do not parse as integers are reported as 0.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Keys enumerates all counter keys currently present.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, "*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return keys, nil
}

// Counts fetches every counter and returns the key to value mapping. The
// map is never nil so an empty store serializes as {}.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(keys))
	for _, k := range keys {
		n, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		counts[k] = n
	}
	return counts, nil
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.rdb.Close() }
