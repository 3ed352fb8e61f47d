package tmdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/adapter/cache"
	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

// Cached memoizes catalogue reads. Search results are not cached since titles
// are free text typed by users.
type Cached struct {
	next  ports.ContentProvider
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCached(next ports.ContentProvider, c ports.Cache, ttl time.Duration, log *zap.Logger) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl, log: log}
}

func (c *Cached) SearchByTitle(ctx context.Context, title string) ([]domain.Movie, error) {
	return c.next.SearchByTitle(ctx, title)
}

func (c *Cached) DiscoverByGenre(ctx context.Context, genreIDs []int) ([]domain.Movie, error) {
	ids := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		ids[i] = strconv.Itoa(id)
	}
	return c.movies(ctx, "tmdb:discover:"+strings.Join(ids, ","), func() ([]domain.Movie, error) {
		return c.next.DiscoverByGenre(ctx, genreIDs)
	})
}

func (c *Cached) Recommendations(ctx context.Context, movieID int) ([]domain.Movie, error) {
	return c.movies(ctx, fmt.Sprintf("tmdb:recommendations:%d", movieID), func() ([]domain.Movie, error) {
		return c.next.Recommendations(ctx, movieID)
	})
}

func (c *Cached) Similar(ctx context.Context, movieID int) ([]domain.Movie, error) {
	return c.movies(ctx, fmt.Sprintf("tmdb:similar:%d", movieID), func() ([]domain.Movie, error) {
		return c.next.Similar(ctx, movieID)
	})
}

func (c *Cached) Popular(ctx context.Context) ([]domain.Movie, error) {
	return c.movies(ctx, "tmdb:popular", func() ([]domain.Movie, error) {
		return c.next.Popular(ctx)
	})
}

func (c *Cached) Credits(ctx context.Context, movieID int) ([]domain.CrewMember, error) {
	key := fmt.Sprintf("tmdb:credits:%d", movieID)
	var crew []domain.CrewMember
	if ok, err := cache.GetJSON(ctx, c.cache, key, &crew); err == nil && ok {
		return crew, nil
	} else if err != nil {
		c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	crew, err := c.next.Credits(ctx, movieID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, crew)
	return crew, nil
}

func (c *Cached) movies(ctx context.Context, key string, load func() ([]domain.Movie, error)) ([]domain.Movie, error) {
	var movies []domain.Movie
	if ok, err := cache.GetJSON(ctx, c.cache, key, &movies); err == nil && ok {
		return movies, nil
	} else if err != nil {
		c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	movies, err := load()
	if err != nil {
		return nil, err
	}
	// Empty pages are not cached so the fallback chain retries them next time.
	if len(movies) > 0 {
		c.store(ctx, key, movies)
	}
	return movies, nil
}

func (c *Cached) store(ctx context.Context, key string, value interface{}) {
	if err := cache.SetJSON(ctx, c.cache, key, value, c.ttl); err != nil {
		c.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
