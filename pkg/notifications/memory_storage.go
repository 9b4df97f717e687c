package notifications

import (
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultMaxPerUser caps the notifications kept for one user.
const DefaultMaxPerUser = 100

// MemoryStorage keeps notifications in process memory, newest last.
// Expired entries are dropped when the user receives a new one, and only the
// newest maxPerUser are kept.
type MemoryStorage struct {
	notifications map[string][]Notification // userID -> notifications
	mu            sync.RWMutex
	maxPerUser    int
	now           func() time.Time
}

type MemoryStorageOption func(*MemoryStorage)

// WithMaxPerUser sets how many notifications are kept per user.
func WithMaxPerUser(n int) MemoryStorageOption {
	return func(s *MemoryStorage) {
		if n > 0 {
			s.maxPerUser = n
		}
	}
}

// WithStorageClock overrides the time used for expiry checks.
func WithStorageClock(now func() time.Time) MemoryStorageOption {
	return func(s *MemoryStorage) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStorage(opts ...MemoryStorageOption) *MemoryStorage {
	s := &MemoryStorage{
		notifications: make(map[string][]Notification),
		maxPerUser:    DefaultMaxPerUser,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStorage) Create(_ context.Context, notif Notification) error {
	if notif.ID == "" {
		return ErrMissingID
	}
	if notif.UserID == "" {
		return ErrMissingUserID
	}
	now := s.now()
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := slices.DeleteFunc(s.notifications[notif.UserID], func(n Notification) bool {
		return n.ExpiredAt(now)
	})
	list = append(list, notif)
	if over := len(list) - s.maxPerUser; over > 0 {
		list = slices.Delete(list, 0, over)
	}
	s.notifications[notif.UserID] = list
	return nil
}

// Len returns how many notifications are held for userID, expired ones included.
func (s *MemoryStorage) Len(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications[userID])
}

func (s *MemoryStorage) Get(_ context.Context, userID, notifID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications[userID] {
		if n.ID == notifID {
			return &n, nil
		}
	}
	return nil, ErrNotificationNotFound
}

// List returns matching notifications, newest first. Expired ones are skipped.
func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Notification, error) {
	now := s.now()
	s.mu.RLock()
	filtered := make([]Notification, 0, len(s.notifications[userID]))
	for _, n := range s.notifications[userID] {
		switch {
		case n.ExpiredAt(now):
		case opts.OnlyUnread && n.Read:
		case len(opts.Types) > 0 && !slices.Contains(opts.Types, n.Type):
		case opts.Since != nil && n.CreatedAt.Before(*opts.Since):
		default:
			filtered = append(filtered, n)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(filtered, func(a, b Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if opts.Offset >= len(filtered) {
		return []Notification{}, nil
	}
	filtered = filtered[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return filtered, nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.notifications[userID]
	for i := range list {
		if !list[i].Read && slices.Contains(notifIDs, list[i].ID) {
			list[i].MarkAsRead()
		}
	}
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.notifications[userID]
	if !ok {
		return nil
	}
	s.notifications[userID] = slices.DeleteFunc(list, func(n Notification) bool {
		return slices.Contains(notifIDs, n.ID)
	})
	return nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read && !n.ExpiredAt(now) {
			count++
		}
	}
	return count, nil
}
