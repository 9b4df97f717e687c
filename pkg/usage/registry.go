package usage

import (
	"context"
	"strings"

	"github.com/dmitrymomot/reviewsystem/pkg/cache"
	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
)

// DefaultRegistrySize bounds the number of tenant clients kept in memory.
const DefaultRegistrySize = 1000

// Registry hands out one Client per tenant. Least recently used tenants are
// dropped when the registry is full; with a MemoryStore their cached window
// goes with them.
type Registry struct {
	source  subscription.Source
	opts    []Option
	clients *cache.LRUCache[string, *Client]
}

// NewRegistry creates a registry whose clients share source and opts.
// Pass WithStore with a RedisStore to share cache windows across replicas.
func NewRegistry(source subscription.Source, size int, opts ...Option) *Registry {
	if size <= 0 {
		size = DefaultRegistrySize
	}
	return &Registry{
		source:  source,
		opts:    opts,
		clients: cache.NewLRUCache[string, *Client](size),
	}
}

// Client returns the client for tenantID, creating it on first use.
func (r *Registry) Client(tenantID string) (*Client, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrMissingTenantID
	}
	return r.clients.GetOrCreate(tenantID, func() *Client {
		opts := append(append([]Option(nil), r.opts...), WithKey(tenantID))
		return NewClient(r.source, opts...)
	}), nil
}

// Invalidate drops the cached window for tenantID, if any.
func (r *Registry) Invalidate(ctx context.Context, tenantID string) error {
	c, err := r.Client(tenantID)
	if err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

// Len returns the number of tenants currently held.
func (r *Registry) Len() int { return r.clients.Len() }
