package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"travel-journal-backend/internal/cache"
	"travel-journal-backend/internal/repository"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultFeedPage     = 1
	DefaultFeedPageSize = 5
	MaxFeedPageSize     = 100

	feedKeyPattern = "feed:*"
	tagsKey        = "tags"
)

// FeedQuery selects one page of the public feed.
type FeedQuery struct {
	Page     int
	PageSize int
	Search   string
	Tag      string
}

func (q *FeedQuery) normalize() {
	if q.Page < 1 {
		q.Page = DefaultFeedPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultFeedPageSize
	}
	if q.PageSize > MaxFeedPageSize {
		q.PageSize = MaxFeedPageSize
	}
}

func (q FeedQuery) cacheKey() string {
	return fmt.Sprintf("feed:%d:%d:%s:%s", q.Page, q.PageSize, url.QueryEscape(q.Search), url.QueryEscape(q.Tag))
}

// FeedService serves the public feed and tag list. Results are cached when a cache is configured;
// concurrent misses for the same key share one database load.
type FeedService struct {
	travelRepo *repository.TravelRepository
	cache      *cache.Cache
	group      singleflight.Group
}

func NewFeedService(travelRepo *repository.TravelRepository, c *cache.Cache) *FeedService {
	return &FeedService{travelRepo: travelRepo, cache: c}
}

// Feed returns tagged travels, newest first
func (s *FeedService) Feed(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	q.normalize()
	key := q.cacheKey()

	var page FeedPage
	if s.cachedGet(ctx, key, &page) {
		return &page, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// shared by every caller waiting on key, so one caller going away must not fail the rest
		ctx := context.WithoutCancel(ctx)
		travels, total, err := s.travelRepo.Feed(ctx, repository.FeedQuery{
			Page:     q.Page,
			PageSize: q.PageSize,
			Search:   q.Search,
			Tag:      q.Tag,
		})
		if err != nil {
			return nil, err
		}

		result := &FeedPage{
			Items:      make([]FeedItemView, 0, len(travels)),
			TotalCount: total,
			Page:       q.Page,
			PageSize:   q.PageSize,
			TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
		}
		for i := range travels {
			result.Items = append(result.Items, newFeedItemView(&travels[i]))
		}
		s.cachedSet(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FeedPage), nil
}

// Tags returns the distinct tags used by any travel
func (s *FeedService) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	if s.cachedGet(ctx, tagsKey, &tags) {
		return tags, nil
	}

	v, err, _ := s.group.Do(tagsKey, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		tags, err := s.travelRepo.DistinctTags(ctx)
		if err != nil {
			return nil, err
		}
		if tags == nil {
			tags = []string{}
		}
		s.cachedSet(ctx, tagsKey, tags)
		return tags, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (s *FeedService) cachedGet(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		slog.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *FeedService) cachedSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// invalidateReadCache drops cached feed pages and tags after a travel write.
func invalidateReadCache(ctx context.Context, c *cache.Cache) {
	if err := c.DeletePattern(ctx, feedKeyPattern); err != nil {
		slog.Warn("feed cache not invalidated", "error", err)
	}
	if err := c.Delete(ctx, tagsKey); err != nil {
		slog.Warn("tags cache not invalidated", "error", err)
	}
}
