package notifications_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/notifications"
)

func seed(t *testing.T, s *notifications.MemoryStorage, userID string, count int) time.Time {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := range count {
		typ := notifications.TypeInfo
		if i%2 == 1 {
			typ = notifications.TypeWarning
		}
		require.NoError(t, s.Create(context.Background(), notifications.Notification{
			ID:        fmt.Sprintf("n%d", i),
			UserID:    userID,
			Type:      typ,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	return base
}

func TestMemoryStorage_Create(t *testing.T) {
	t.Parallel()
	s := notifications.NewMemoryStorage()

	assert.ErrorIs(t, s.Create(context.Background(), notifications.Notification{UserID: "u"}), notifications.ErrMissingID)
	assert.ErrorIs(t, s.Create(context.Background(), notifications.Notification{ID: "1"}), notifications.ErrMissingUserID)

	require.NoError(t, s.Create(context.Background(), notifications.Notification{ID: "1", UserID: "u"}))
	n, err := s.Get(context.Background(), "u", "1")
	require.NoError(t, err)
	assert.False(t, n.CreatedAt.IsZero())

	n.Title = "mutated"
	again, _ := s.Get(context.Background(), "u", "1")
	assert.Empty(t, again.Title)
}

func TestMemoryStorage_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notifications.NewMemoryStorage()
	base := seed(t, s, "u1", 5)

	t.Run("newest first", func(t *testing.T) {
		list, err := s.List(ctx, "u1", notifications.ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, "n4", list[0].ID)
		assert.Equal(t, "n0", list[4].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		list, err := s.List(ctx, "u1", notifications.ListOptions{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "n3", list[0].ID)

		list, err = s.List(ctx, "u1", notifications.ListOptions{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("type filter", func(t *testing.T) {
		list, err := s.List(ctx, "u1", notifications.ListOptions{Types: []notifications.Type{notifications.TypeWarning}})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("since filter", func(t *testing.T) {
		since := base.Add(3 * time.Minute)
		list, err := s.List(ctx, "u1", notifications.ListOptions{Since: &since})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("unknown user", func(t *testing.T) {
		list, err := s.List(ctx, "nobody", notifications.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMemoryStorage_ReadAndExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notifications.NewMemoryStorage()
	seed(t, s, "u1", 3)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, s.Create(ctx, notifications.Notification{ID: "old", UserID: "u1", ExpiresAt: &past}))

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, s.MarkRead(ctx, "u1", "n0", "n2"))
	count, _ = s.CountUnread(ctx, "u1")
	assert.Equal(t, 1, count)

	unread, err := s.List(ctx, "u1", notifications.ListOptions{OnlyUnread: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n1", unread[0].ID)

	n, _ := s.Get(ctx, "u1", "n0")
	assert.True(t, n.Read)
	assert.NotNil(t, n.ReadAt)
}

func TestMemoryStorage_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notifications.NewMemoryStorage()
	seed(t, s, "u1", 3)

	require.NoError(t, s.Delete(ctx, "u1", "n1"))
	list, _ := s.List(ctx, "u1", notifications.ListOptions{})
	assert.Len(t, list, 2)

	assert.NoError(t, s.Delete(ctx, "nobody", "n1"))
}

func TestMemoryStorage_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notifications.NewMemoryStorage()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			_ = s.Create(ctx, notifications.Notification{ID: id, UserID: "u1"})
			_, _ = s.List(ctx, "u1", notifications.ListOptions{})
			_ = s.MarkRead(ctx, "u1", id)
		}(i)
	}
	wg.Wait()

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStorage_PrunesExpiredOnCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := notifications.NewMemoryStorage(notifications.WithStorageClock(func() time.Time { return now }))

	soon := now.Add(5 * time.Second)
	require.NoError(t, s.Create(ctx, notifications.Notification{ID: "toast", UserID: "u1", CreatedAt: now, ExpiresAt: &soon}))
	require.NoError(t, s.Create(ctx, notifications.Notification{ID: "prompt", UserID: "u1", CreatedAt: now}))

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	now = now.Add(5 * time.Second)
	count, _ = s.CountUnread(ctx, "u1")
	assert.Equal(t, 1, count, "toast expired")
	assert.Equal(t, 2, s.Len("u1"))

	require.NoError(t, s.Create(ctx, notifications.Notification{ID: "next", UserID: "u1", CreatedAt: now}))
	assert.Equal(t, 2, s.Len("u1"))
	_, err = s.Get(ctx, "u1", "toast")
	assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
}

func TestMemoryStorage_MaxPerUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notifications.NewMemoryStorage(notifications.WithMaxPerUser(3))
	seed(t, s, "u1", 5)
	seed(t, s, "u2", 1)

	assert.Equal(t, 3, s.Len("u1"))
	assert.Equal(t, 1, s.Len("u2"))

	list, err := s.List(ctx, "u1", notifications.ListOptions{})
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"n4", "n3", "n2"}, ids, "oldest are dropped")
}
