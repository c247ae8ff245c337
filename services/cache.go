package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// cacheLoadTimeout bounds a shared load, which outlives the request that started it.
const cacheLoadTimeout = 15 * time.Second

// loadingCache memoizes loader results per key for a fixed lifetime. Concurrent misses for one
// key share a single load. Cached values are shared between callers and must not be mutated.
type loadingCache[V any] struct {
	items       *ttlcache.Cache[string, V]
	group       singleflight.Group
	loadTimeout time.Duration
}

func newLoadingCache[V any](ttl time.Duration) *loadingCache[V] {
	return &loadingCache[V]{
		items: ttlcache.New[string, V](
			ttlcache.WithTTL[string, V](ttl),
			ttlcache.WithDisableTouchOnHit[string, V](),
		),
		loadTimeout: cacheLoadTimeout,
	}
}

// load returns the cached value or joins the in-flight load of key. The load runs detached
// from the caller's cancellation, so a caller that gives up only abandons its own wait.
// Errors are never cached.
func (c *loadingCache[V]) load(ctx context.Context, key string, loader func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	if item := c.items.Get(key); item != nil {
		return item.Value(), nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		if item := c.items.Get(key); item != nil {
			return item.Value(), nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		v, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		c.items.DeleteExpired()
		c.items.Set(key, v, ttlcache.DefaultTTL)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// invalidate drops every cached entry.
func (c *loadingCache[V]) invalidate() {
	c.items.DeleteAll()
}

type CachedProfiles struct {
	inner ProfileReader
	cache *loadingCache[*models.PlayerProfile]
}

// NewCachedProfiles wraps inner with a TTL cache. A non-positive ttl returns inner unchanged.
func NewCachedProfiles(inner ProfileReader, ttl time.Duration) ProfileReader {
	if ttl <= 0 {
		return inner
	}
	return &CachedProfiles{inner: inner, cache: newLoadingCache[*models.PlayerProfile](ttl)}
}

func (c *CachedProfiles) Profile(ctx context.Context, playerID int, competitionID *int, maxStatus models.GlobalStatus) (*models.PlayerProfile, error) {
	comp := "all"
	if competitionID != nil {
		comp = fmt.Sprint(*competitionID)
	}
	key := fmt.Sprintf("profile:%d:%s:%d", playerID, comp, maxStatus)
	return c.cache.load(ctx, key, func(ctx context.Context) (*models.PlayerProfile, error) {
		return c.inner.Profile(ctx, playerID, competitionID, maxStatus)
	})
}

func (c *CachedProfiles) Invalidate() {
	c.cache.invalidate()
}

type CachedStandings struct {
	inner ActivePlayersReader
	cache *loadingCache[[]models.ActivePlayer]
}

// NewCachedStandings wraps inner with a TTL cache. A non-positive ttl returns inner unchanged.
func NewCachedStandings(inner ActivePlayersReader, ttl time.Duration) ActivePlayersReader {
	if ttl <= 0 {
		return inner
	}
	return &CachedStandings{inner: inner, cache: newLoadingCache[[]models.ActivePlayer](ttl)}
}

func (c *CachedStandings) ActivePlayers(ctx context.Context, competitionID int, maxStatus models.GlobalStatus) ([]models.ActivePlayer, error) {
	key := fmt.Sprintf("players:%d:%d", competitionID, maxStatus)
	return c.cache.load(ctx, key, func(ctx context.Context) ([]models.ActivePlayer, error) {
		return c.inner.ActivePlayers(ctx, competitionID, maxStatus)
	})
}

func (c *CachedStandings) Invalidate() {
	c.cache.invalidate()
}
