package decorator

import (
	"context"
	"sync/atomic"
	"time"
)

// CacheStatus is what the caching decorator did for one query. HTTP
// handlers echo it in the X-Cache header.
type CacheStatus string

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
	CacheStatusError  CacheStatus = "ERROR"
)

type (
	CacheConfig struct {
		Enabled bool
		TTL     time.Duration
	}

	// Cache stores query results keyed by the query value.
	Cache[Q Query, R Result] interface {
		Get(ctx context.Context, query Q) (R, bool, error)
		Set(ctx context.Context, query Q, result R, ttl time.Duration) error
	}

	// GenerationalCache is a Cache whose purges start a new generation. A
	// result is only stored when no purge happened while it was computed.
	GenerationalCache[Q Query, R Result] interface {
		Cache[Q, R]
		Generation() uint64
		SetIfGeneration(ctx context.Context, query Q, result R, ttl time.Duration, generation uint64) (bool, error)
	}

	// Invalidator drops every cached entry after a write.
	Invalidator interface {
		Purge()
	}

	cacheStatusKey struct{}

	queryCachingDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		cache  Cache[Q, R]
		config CacheConfig
	}
)

// ContextWithCacheStatus returns a context the caching decorator reports
// into; read it with CacheStatusFromContext once the query returns.
func ContextWithCacheStatus(ctx context.Context) context.Context {
	slot := new(atomic.Pointer[CacheStatus])

	return context.WithValue(ctx, cacheStatusKey{}, slot)
}

func CacheStatusFromContext(ctx context.Context) CacheStatus {
	if slot, ok := ctx.Value(cacheStatusKey{}).(*atomic.Pointer[CacheStatus]); ok {
		if status := slot.Load(); status != nil {
			return *status
		}
	}

	return CacheStatusBypass
}

func report(ctx context.Context, status CacheStatus) {
	if slot, ok := ctx.Value(cacheStatusKey{}).(*atomic.Pointer[CacheStatus]); ok {
		slot.Store(&status)
	}
}

// NewQueryCachingDecorator serves repeated queries from cache. Read errors
// count as misses; failed handler calls are never stored, and neither are
// results a GenerationalCache saw purged mid-flight.
func NewQueryCachingDecorator[Q Query, R Result](base QueryHandler[Q, R], cache Cache[Q, R], config CacheConfig) QueryHandler[Q, R] {
	return queryCachingDecorator[Q, R]{base: base, cache: cache, config: config}
}

func (d queryCachingDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	if !d.config.Enabled || d.cache == nil {
		report(ctx, CacheStatusBypass)

		return d.base.Execute(ctx, query)
	}

	generational, tracked := d.cache.(GenerationalCache[Q, R])

	var generation uint64
	if tracked {
		generation = generational.Generation()
	}

	if cached, hit, err := d.cache.Get(ctx, query); err == nil && hit {
		report(ctx, CacheStatusHit)

		return cached, nil
	}

	result, err := d.base.Execute(ctx, query)
	if err != nil {
		report(ctx, CacheStatusMiss)

		return *new(R), err
	}

	if tracked {
		_, err = generational.SetIfGeneration(ctx, query, result, d.config.TTL, generation)
	} else {
		err = d.cache.Set(ctx, query, result, d.config.TTL)
	}

	status := CacheStatusMiss
	if err != nil {
		status = CacheStatusError
	}

	report(ctx, status)

	return result, nil
}
