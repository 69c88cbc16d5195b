package fetcher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PageCache persists fetched page bodies keyed by URL.
type PageCache interface {
	// GetCachedPage returns the body stored for url if it was fetched within
	// maxAge.
	GetCachedPage(ctx context.Context, url string, maxAge time.Duration) ([]byte, bool, error)
	SetCachedPage(ctx context.Context, url string, body []byte) error
}

// CachedFetcher serves fresh pages from a PageCache and stores every
// successful fetch from the wrapped Fetcher.
type CachedFetcher struct {
	next  Fetcher
	cache PageCache
	ttl   time.Duration
}

// NewCachedFetcher wraps next with cache. A ttl of zero disables reads but
// still records fetched pages.
func NewCachedFetcher(next Fetcher, cache PageCache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache, ttl: ttl}
}

// Fetch implements Fetcher.
func (c *CachedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.ttl > 0 {
		body, ok, err := c.cache.GetCachedPage(ctx, url, c.ttl)
		if err != nil {
			zap.L().Warn("page cache read failed", zap.String("url", url), zap.Error(err))
		} else if ok {
			zap.L().Debug("page cache hit", zap.String("url", url))
			return body, nil
		}
	}

	body, err := c.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetCachedPage(ctx, url, body); err != nil {
		zap.L().Warn("page cache write failed", zap.String("url", url), zap.Error(err))
	}
	return body, nil
}
