package usage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/reviewsystem/pkg/logger"
	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
)

// RefreshFunc reads a fresh subscription and usage pair.
type RefreshFunc func(ctx context.Context) (subscription.Subscription, subscription.UsageSnapshot, error)

// Cache serves entries from a Store until they expire and refreshes them on demand.
type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTTL overrides CacheDuration. Non-positive values are ignored.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger used for store failures.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates an empty cache over store. A nil store uses a MemoryStore.
func NewCache(store Store, opts ...CacheOption) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{
		store:  store,
		ttl:    CacheDuration,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the validity window.
func (c *Cache) TTL() time.Duration { return c.ttl }

// GetOrRefresh returns the entry for key when valid, otherwise calls refresh
// and stores its result stamped with the current time.
// The boolean reports whether refresh ran. A refresh error leaves the stored
// entry untouched.
func (c *Cache) GetOrRefresh(ctx context.Context, key string, refresh RefreshFunc) (Entry, bool, error) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "usage cache read failed, refreshing",
			logger.Component("usage.cache"),
			logger.Error(err),
		)
	}
	if ok && entry.Valid(c.now(), c.ttl) {
		return entry, false, nil
	}

	sub, snap, err := refresh(ctx)
	if err != nil {
		return Entry{}, true, errors.Join(ErrRefreshFailed, err)
	}

	entry = Entry{Subscription: sub, Usage: snap, FetchedAt: c.now()}
	if err := c.store.Set(ctx, key, entry, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "usage cache write failed",
			logger.Component("usage.cache"),
			logger.Error(err),
		)
	}
	return entry, true, nil
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}
