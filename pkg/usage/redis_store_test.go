package usage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
	"github.com/dmitrymomot/reviewsystem/pkg/usage"
)

func newTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedisStore(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	store := usage.NewRedisStore(client, "test:usage:"+uuid.NewString()+":")

	_, ok, err := store.Get(ctx, "tenant")
	require.NoError(t, err)
	assert.False(t, ok)

	entry := usage.Entry{
		Subscription: subscription.Subscription{Plan: "Pro", Status: "active"},
		Usage:        subscription.NewUsageSnapshot(map[string]int64{"ai_enhancement": 42}),
		FetchedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Set(ctx, "tenant", entry, time.Minute))

	got, ok, err := store.Get(ctx, "tenant")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pro", got.Subscription.Plan)
	assert.Equal(t, int64(42), got.Usage.Count("ai_enhancement"))
	assert.True(t, entry.FetchedAt.Equal(got.FetchedAt))

	require.NoError(t, store.Delete(ctx, "tenant"))
	_, ok, err = store.Get(ctx, "tenant")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_WithClient(t *testing.T) {
	client := newTestRedis(t)
	src := newFakeSource("Free", map[string]int64{"ai_enhancement": 5})
	store := usage.NewRedisStore(client, "test:usage:"+uuid.NewString()+":")

	c := usage.NewClient(src, usage.WithStore(store), usage.WithKey("tenant"), usage.WithLogger(discardLogger()))
	assert.False(t, c.CheckDefault(context.Background()))
	assert.False(t, c.CheckDefault(context.Background()))
	assert.Equal(t, 1, src.fetches())
}
