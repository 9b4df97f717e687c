// Package usage decides whether a tenant may consume one more unit of a
// metered feature.
//
// A Client reads the tenant's subscription and usage from the billing API
// (two concurrent requests), caches the pair for CacheDuration, resolves the
// quota through a limits.Policy and returns a boolean:
//
//	client := usage.NewClient(source, usage.WithNotifier(notifier))
//	if !client.CheckUsageLimit(ctx, limits.FeatureAIEnhancement) {
//		return // limit reached, the user was notified
//	}
//
// The check is advisory. Network errors, unknown plans and unknown features
// all allow the action; only a known finite limit that is already used up
// blocks it. Crossing 80% of a limit sends a warning but still allows.
//
// Cache entries live in a Store: MemoryStore for a single process or
// RedisStore to share the window between replicas. A Registry keeps one
// Client per tenant in a bounded LRU.
package usage
