package cache_test

import (
	"testing"
	"time"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/adapters/cache"
	"github.com/stretchr/testify/require"
)

type (
	testQuery struct {
		Username string
		Offset   int
	}

	otherQuery struct {
		Username string
		Offset   int
	}
)

func TestQueryCache_GetSet(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(10, time.Minute, logger.Discard())
	c := cache.NewQueryCache[testQuery, []string](store, "members")

	_, hit, err := c.Get(t.Context(), testQuery{Username: "member1"})
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Set(t.Context(), testQuery{Username: "member1"}, []string{"a"}, 0))

	result, hit, err := c.Get(t.Context(), testQuery{Username: "member1"})
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []string{"a"}, result)

	_, hit, err = c.Get(t.Context(), testQuery{Username: "member1", Offset: 1})
	require.NoError(t, err)
	require.False(t, hit)
}

func TestQueryCache_NamespacesDoNotCollide(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(10, time.Minute, logger.Discard())
	members := cache.NewQueryCache[testQuery, string](store, "members")
	pages := cache.NewQueryCache[otherQuery, int](store, "pages")

	require.NoError(t, members.Set(t.Context(), testQuery{Username: "x"}, "members", 0))

	_, hit, err := pages.Get(t.Context(), otherQuery{Username: "x"})
	require.NoError(t, err)
	require.False(t, hit)
}

func TestQueryCache_ExpiresWithStoreTTL(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(10, time.Millisecond, logger.Discard())
	c := cache.NewQueryCache[testQuery, string](store, "members")

	require.NoError(t, c.Set(t.Context(), testQuery{}, "stale", 0))
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(t.Context(), testQuery{})
	require.NoError(t, err)
	require.False(t, hit)
}

func TestStore_Purge(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(10, time.Minute, logger.Discard())
	c := cache.NewQueryCache[testQuery, string](store, "members")

	require.NoError(t, c.Set(t.Context(), testQuery{Username: "a"}, "a", 0))
	require.NoError(t, c.Set(t.Context(), testQuery{Username: "b"}, "b", 0))
	require.Equal(t, 2, store.Len())

	store.Purge()

	require.Zero(t, store.Len())

	_, hit, err := c.Get(t.Context(), testQuery{Username: "a"})
	require.NoError(t, err)
	require.False(t, hit)
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(2, time.Minute, logger.Discard())
	c := cache.NewQueryCache[testQuery, int](store, "members")

	for i := range 3 {
		require.NoError(t, c.Set(t.Context(), testQuery{Offset: i}, i, 0))
	}

	require.Equal(t, 2, store.Len())

	_, hit, err := c.Get(t.Context(), testQuery{Offset: 0})
	require.NoError(t, err)
	require.False(t, hit)
}

func TestQueryCache_SetIfGeneration(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(10, time.Minute, logger.Discard())
	c := cache.NewQueryCache[testQuery, int](store, "members")

	before := c.Generation()

	store.Purge()
	require.Equal(t, before+1, c.Generation())

	stored, err := c.SetIfGeneration(t.Context(), testQuery{Username: "a"}, 4, 0, before)
	require.NoError(t, err)
	require.False(t, stored)

	_, hit, err := c.Get(t.Context(), testQuery{Username: "a"})
	require.NoError(t, err)
	require.False(t, hit)

	stored, err = c.SetIfGeneration(t.Context(), testQuery{Username: "a"}, 2, 0, c.Generation())
	require.NoError(t, err)
	require.True(t, stored)

	total, hit, err := c.Get(t.Context(), testQuery{Username: "a"})
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 2, total)
}
