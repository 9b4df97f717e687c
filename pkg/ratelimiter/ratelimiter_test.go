package ratelimiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/logger"
	"github.com/dmitrymomot/reviewsystem/pkg/ratelimiter"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testConfig = ratelimiter.Config{
	Capacity:       3,
	RefillRate:     1,
	RefillInterval: time.Second,
}

func newBucket(t *testing.T) (*ratelimiter.Bucket, *manualClock) {
	t.Helper()
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewMemoryStore(ratelimiter.WithStoreClock(clock.Now), ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	b, err := ratelimiter.NewBucket(store, testConfig)
	require.NoError(t, err)
	return b, clock
}

func TestNewBucketValidatesConfig(t *testing.T) {
	t.Parallel()
	for _, cfg := range []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), cfg)
		require.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}
}

func TestBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("burst then deny", func(t *testing.T) {
		t.Parallel()
		b, _ := newBucket(t)

		for want := 2; want >= 0; want-- {
			res, err := b.Allow(ctx, "ip")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, want, res.Remaining)
			assert.Equal(t, 3, res.Limit)
		}

		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
	})

	t.Run("denied requests do not drain", func(t *testing.T) {
		t.Parallel()
		b, clock := newBucket(t)

		_, err := b.AllowN(ctx, "ip", 3)
		require.NoError(t, err)
		for range 5 {
			res, err := b.Allow(ctx, "ip")
			require.NoError(t, err)
			require.False(t, res.Allowed())
		}

		clock.Advance(time.Second)
		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("refills up to capacity", func(t *testing.T) {
		t.Parallel()
		b, clock := newBucket(t)

		_, err := b.AllowN(ctx, "ip", 3)
		require.NoError(t, err)

		clock.Advance(time.Hour)
		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)
	})

	t.Run("keys are independent and resettable", func(t *testing.T) {
		t.Parallel()
		b, _ := newBucket(t)

		_, err := b.AllowN(ctx, "a", 3)
		require.NoError(t, err)

		res, err := b.Allow(ctx, "b")
		require.NoError(t, err)
		assert.True(t, res.Allowed())

		require.NoError(t, b.Reset(ctx, "a"))
		res, err = b.Allow(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)
	})

	t.Run("invalid token count", func(t *testing.T) {
		t.Parallel()
		b, _ := newBucket(t)
		_, err := b.AllowN(ctx, "ip", 0)
		require.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})
}

type failingStore struct{}

func (failingStore) ConsumeTokens(context.Context, string, int, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, ratelimiter.ErrStoreUnavailable
}

func (failingStore) Reset(context.Context, string) error { return nil }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	request := func(h http.Handler, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/funnels/qr", nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("limits per ip", func(t *testing.T) {
		t.Parallel()
		b, _ := newBucket(t)
		h := ratelimiter.Middleware(b, ratelimiter.ByIP())(ok)

		for i := range testConfig.Capacity {
			rec := request(h, "203.0.113.1")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, strconv.Itoa(testConfig.Capacity-i-1), rec.Header().Get("X-RateLimit-Remaining"))
		}

		rec := request(h, "203.0.113.1")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		assert.Equal(t, http.StatusOK, request(h, "203.0.113.2").Code)
	})

	t.Run("custom denied handler", func(t *testing.T) {
		t.Parallel()
		b, _ := newBucket(t)
		denied := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		h := ratelimiter.Middleware(b, ratelimiter.ByIP(), ratelimiter.WithDeniedHandler(denied))(ok)

		for range testConfig.Capacity {
			request(h, "203.0.113.1")
		}
		assert.Equal(t, http.StatusTeapot, request(h, "203.0.113.1").Code)
	})

	t.Run("store failure allows", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(failingStore{}, testConfig)
		require.NoError(t, err)
		h := ratelimiter.Middleware(b, ratelimiter.ByIP(), ratelimiter.WithMiddlewareLogger(logger.Discard()))(ok)

		assert.Equal(t, http.StatusOK, request(h, "203.0.113.1").Code)
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.1:80"
	req.Header.Set("X-Tenant-ID", "acme")

	key := ratelimiter.Composite(ratelimiter.ByHeader("X-Tenant-ID"), ratelimiter.ByIP())(req)
	assert.Equal(t, "acme:203.0.113.1", key)

	assert.Empty(t, ratelimiter.Composite(ratelimiter.ByHeader("X-Missing"))(req))

	req.Header.Set("X-Tenant-ID", strings.Repeat("t", 100))
	long := ratelimiter.Composite(ratelimiter.ByHeader("X-Tenant-ID"), ratelimiter.ByIP())(req)
	assert.LessOrEqual(t, len(long), 64)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	b, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, "test:ratelimit:"+uuid.NewString()+":"), testConfig)
	require.NoError(t, err)

	for want := 2; want >= 0; want-- {
		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.Equal(t, want, res.Remaining)
	}
	res, err := b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	require.NoError(t, b.Reset(ctx, "ip"))
	res, err = b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}
