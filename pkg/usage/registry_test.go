package usage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/usage"
)

func TestRegistry_Client(t *testing.T) {
	t.Parallel()

	src := newFakeSource("Free", map[string]int64{"ai_enhancement": 1})
	reg := usage.NewRegistry(src, 2, usage.WithLogger(discardLogger()))

	a1, err := reg.Client("tenant-a")
	require.NoError(t, err)
	a2, err := reg.Client(" tenant-a ")
	require.NoError(t, err)
	assert.Same(t, a1, a2)
	assert.Equal(t, "tenant-a", a1.Key())

	b, err := reg.Client("tenant-b")
	require.NoError(t, err)
	assert.NotSame(t, a1, b)

	_, err = reg.Client("")
	assert.ErrorIs(t, err, usage.ErrMissingTenantID)

	_, _ = reg.Client("tenant-c")
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_TenantsHaveSeparateWindows(t *testing.T) {
	t.Parallel()

	src := newFakeSource("Free", map[string]int64{"ai_enhancement": 1})
	reg := usage.NewRegistry(src, 10, usage.WithLogger(discardLogger()))

	a, _ := reg.Client("a")
	b, _ := reg.Client("b")
	a.CheckDefault(context.Background())
	a.CheckDefault(context.Background())
	b.CheckDefault(context.Background())
	assert.Equal(t, 2, src.fetches())

	require.NoError(t, reg.Invalidate(context.Background(), "a"))
	a.CheckDefault(context.Background())
	assert.Equal(t, 3, src.fetches())
}

func TestRegistry_SharedStore(t *testing.T) {
	t.Parallel()

	src := newFakeSource("Free", map[string]int64{"ai_enhancement": 1})
	store := usage.NewMemoryStore()
	reg1 := usage.NewRegistry(src, 10, usage.WithStore(store), usage.WithLogger(discardLogger()))
	reg2 := usage.NewRegistry(src, 10, usage.WithStore(store), usage.WithLogger(discardLogger()))

	c1, _ := reg1.Client("tenant")
	c2, _ := reg2.Client("tenant")
	c1.CheckDefault(context.Background())
	c2.CheckDefault(context.Background())

	assert.Equal(t, 1, src.fetches())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, usage.Config{CacheBackend: usage.BackendMemory}.Validate())
	assert.NoError(t, usage.Config{CacheBackend: usage.BackendRedis}.Validate())
	assert.ErrorIs(t, usage.Config{CacheBackend: "memcached"}.Validate(), usage.ErrInvalidBackend)
}
