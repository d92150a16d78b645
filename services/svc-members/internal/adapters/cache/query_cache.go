// Package cache keeps query results in an in-process, size bounded LRU so
// repeated searches skip the database until a write purges them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/architeacher/members/pkg/logger"
	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type (
	// Store is the LRU shared by every query cache. Purging it drops the
	// results of all queries at once and starts a new generation.
	Store struct {
		mu         sync.Mutex
		lru        *expirable.LRU[uint64, any]
		generation uint64
		logger     logger.Logger
	}

	// QueryCache adapts Store to one query type. Keys are the xxhash of the
	// namespace followed by the JSON encoded query.
	QueryCache[Q any, R any] struct {
		store     *Store
		namespace string
	}
)

// NewStore creates a store holding at most size entries, each for at most ttl.
func NewStore(size int, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		lru:    expirable.NewLRU[uint64, any](size, nil, ttl),
		logger: log,
	}
}

func (s *Store) Purge() {
	s.mu.Lock()
	purged := s.lru.Len()
	s.generation++
	s.lru.Purge()
	s.mu.Unlock()

	s.logger.Debug().Int("entries", purged).Msg("query cache purged")
}

// Generation counts purges.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation
}

func (s *Store) Len() int {
	return s.lru.Len()
}

func (s *Store) add(key uint64, value any, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		return false
	}

	s.lru.Add(key, value)

	return true
}

func NewQueryCache[Q any, R any](store *Store, namespace string) *QueryCache[Q, R] {
	return &QueryCache[Q, R]{store: store, namespace: namespace}
}

func (c *QueryCache[Q, R]) Get(_ context.Context, query Q) (R, bool, error) {
	var zero R

	key, err := c.key(query)
	if err != nil {
		return zero, false, err
	}

	cached, ok := c.store.lru.Get(key)
	if !ok {
		return zero, false, nil
	}

	result, ok := cached.(R)
	if !ok {
		return zero, false, fmt.Errorf("cached %s entry holds %T", c.namespace, cached)
	}

	return result, true, nil
}

// Set stores result for the store wide ttl.
func (c *QueryCache[Q, R]) Set(ctx context.Context, query Q, result R, ttl time.Duration) error {
	_, err := c.SetIfGeneration(ctx, query, result, ttl, c.store.Generation())

	return err
}

func (c *QueryCache[Q, R]) Generation() uint64 {
	return c.store.Generation()
}

// SetIfGeneration stores result only while no purge has happened since
// generation was read.
func (c *QueryCache[Q, R]) SetIfGeneration(_ context.Context, query Q, result R, _ time.Duration, generation uint64) (bool, error) {
	key, err := c.key(query)
	if err != nil {
		return false, err
	}

	return c.store.add(key, result, generation), nil
}

func (c *QueryCache[Q, R]) key(query Q) (uint64, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("encoding %s cache key: %w", c.namespace, err)
	}

	digest := xxhash.New()
	_, _ = digest.WriteString(c.namespace)
	_, _ = digest.Write([]byte{0})
	_, _ = digest.Write(payload)

	return digest.Sum64(), nil
}
