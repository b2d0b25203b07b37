package tmdb

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/qs-lzh/movie-list/internal/cache"
)

// CacheTTL is how long movie API responses are reused.
const CacheTTL = 6 * time.Hour

// CachedClient reuses movie, release date and credit responses from redis.
// Search results are always fetched fresh.
type CachedClient struct {
	api    MovieAPI
	cache  *cache.RedisCache
	logger *zap.Logger
}

var _ MovieAPI = (*CachedClient)(nil)

func NewCachedClient(api MovieAPI, c *cache.RedisCache, logger *zap.Logger) *CachedClient {
	return &CachedClient{
		api:    api,
		cache:  c,
		logger: logger.Named("tmdb_cache"),
	}
}

func (c *CachedClient) SearchMovies(ctx context.Context, query string) (*SearchResponse, error) {
	return c.api.SearchMovies(ctx, query)
}

func (c *CachedClient) Movie(ctx context.Context, id int) (*MovieInfo, error) {
	return cached(ctx, c, cache.MakeMovieKey(id), func() (*MovieInfo, error) {
		return c.api.Movie(ctx, id)
	})
}

func (c *CachedClient) ReleaseDates(ctx context.Context, id int) (*ReleaseDatesResponse, error) {
	return cached(ctx, c, cache.MakeMovieReleaseDatesKey(id), func() (*ReleaseDatesResponse, error) {
		return c.api.ReleaseDates(ctx, id)
	})
}

func (c *CachedClient) Credits(ctx context.Context, id int) (*Credits, error) {
	return cached(ctx, c, cache.MakeMovieCreditsKey(id), func() (*Credits, error) {
		return c.api.Credits(ctx, id)
	})
}

// cached falls back to fetch on a miss. Cache failures are logged and never
// fail the request.
func cached[T any](ctx context.Context, c *CachedClient, key string, fetch func() (*T, error)) (*T, error) {
	var value T
	err := c.cache.Get(ctx, key, &value)
	if err == nil {
		return &value, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("movie cache read failed", zap.String("key", key), zap.Error(err))
	}

	fresh, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, fresh, CacheTTL); err != nil {
		c.logger.Warn("movie cache write failed", zap.String("key", key), zap.Error(err))
	}
	return fresh, nil
}
