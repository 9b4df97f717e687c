package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
	"github.com/dmitrymomot/reviewsystem/pkg/logger"
	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
)

// defaultKey is the cache key of a client not bound to a tenant.
const defaultKey = "default"

// Client gates consumable features against the caller's plan.
// Checks are advisory and fail open: any failure to determine usage allows
// the action.
type Client struct {
	source   subscription.Source
	cache    *Cache
	key      string
	policy   limits.Policy
	notifier Notifier
	metrics  *Metrics
	logger   *slog.Logger

	store     Store
	cacheOpts []CacheOption
}

// Option configures a Client.
type Option func(*Client)

// WithStore sets the cache backend. Defaults to a private MemoryStore.
func WithStore(s Store) Option {
	return func(c *Client) {
		if s != nil {
			c.store = s
		}
	}
}

// WithCacheOptions passes options to the underlying Cache.
func WithCacheOptions(opts ...CacheOption) Option {
	return func(c *Client) {
		c.cacheOpts = append(c.cacheOpts, opts...)
	}
}

// WithKey binds the client to a cache key, usually the tenant ID.
func WithKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.key = key
		}
	}
}

// WithPolicy overrides limits.DefaultPolicy.
func WithPolicy(p limits.Policy) Option {
	return func(c *Client) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithNotifier sets the receiver of limit and warning events.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithMetrics enables prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a usage client reading from source.
func NewClient(source subscription.Source, opts ...Option) *Client {
	c := &Client{
		source:   source,
		key:      defaultKey,
		policy:   limits.DefaultPolicy(),
		notifier: NoOpNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cacheOpts := append([]CacheOption{WithCacheLogger(c.logger)}, c.cacheOpts...)
	c.cache = NewCache(c.store, cacheOpts...)
	return c
}

// Key returns the cache key the client is bound to.
func (c *Client) Key() string { return c.key }

// CheckUsageLimit reports whether one more unit of feature may be used.
//
// Returns false only when usage is known and at or above a finite limit, in
// which case the notifier receives LimitReached. Crossing 80% of the limit
// sends Warning and still allows. At most one notification per call.
func (c *Client) CheckUsageLimit(ctx context.Context, feature limits.Feature) bool {
	log := c.logger.With(logger.Feature(feature), logger.TenantID(c.key))

	entry, err := c.entry(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to check usage limit, allowing", logger.Error(err))
		c.metrics.RecordCheck(feature, OutcomeFailOpen)
		return true
	}

	q, err := c.resolve(entry, feature)
	if err != nil {
		log.WarnContext(ctx, "no usage policy for plan and feature, allowing",
			logger.Plan(entry.Subscription.Plan),
			logger.Error(err),
		)
		c.metrics.RecordCheck(feature, OutcomeUnknownPolicy)
		return true
	}

	switch {
	case q.IsUnlimited():
		c.metrics.RecordCheck(feature, OutcomeUnlimited)
		return true

	case q.Exceeded():
		log.InfoContext(ctx, "usage limit reached",
			logger.Plan(q.Plan),
			logger.Usage(q.Used),
			logger.Limit(q.Limit),
		)
		c.notifier.LimitReached(ctx, q)
		c.metrics.RecordCheck(feature, OutcomeBlocked)
		return false

	case q.NearLimit():
		c.notifier.Warning(ctx, q)
		c.metrics.RecordCheck(feature, OutcomeWarning)
		return true
	}

	c.metrics.RecordCheck(feature, OutcomeAllowed)
	return true
}

// CheckDefault checks limits.DefaultFeature.
func (c *Client) CheckDefault(ctx context.Context) bool {
	return c.CheckUsageLimit(ctx, limits.DefaultFeature)
}

// Usage returns the quota for feature without notifying.
// Unlike CheckUsageLimit it reports failures instead of allowing.
func (c *Client) Usage(ctx context.Context, feature limits.Feature) (limits.Quota, error) {
	entry, err := c.entry(ctx)
	if err != nil {
		return limits.Quota{}, err
	}
	return c.resolve(entry, feature)
}

// Invalidate forces the next call to refetch.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.cache.Invalidate(ctx, c.key)
}

func (c *Client) entry(ctx context.Context) (Entry, error) {
	entry, refreshed, err := c.cache.GetOrRefresh(ctx, c.key, c.fetch)
	if refreshed {
		if err != nil {
			c.metrics.RecordRefresh(RefreshError)
		} else {
			c.metrics.RecordRefresh(RefreshOK)
		}
	}
	return entry, err
}

// fetch issues both billing reads concurrently. Partially empty payloads are
// returned as-is; Entry.Valid keeps them from being served again.
func (c *Client) fetch(ctx context.Context) (subscription.Subscription, subscription.UsageSnapshot, error) {
	var (
		sub  subscription.Subscription
		snap subscription.UsageSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sub, err = c.source.CurrentSubscription(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = c.source.CurrentUsage(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return subscription.Subscription{}, subscription.UsageSnapshot{}, err
	}
	return sub, snap, nil
}

func (c *Client) resolve(entry Entry, feature limits.Feature) (limits.Quota, error) {
	plan := limits.DefaultPlan
	if raw := entry.Subscription.Plan; raw != "" {
		p, err := limits.ParsePlan(raw)
		if err != nil {
			return limits.Quota{}, errors.Join(ErrUnknownPlan, err)
		}
		plan = p
	}

	limit, err := c.policy.Limit(plan, feature)
	if err != nil {
		return limits.Quota{}, fmt.Errorf("resolve %s/%s: %w", plan, feature, err)
	}

	return limits.Quota{
		Plan:    plan,
		Feature: feature,
		Limit:   limit,
		Used:    entry.Usage.Count(string(feature)),
	}, nil
}
