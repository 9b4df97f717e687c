package notifications

import (
	"context"
	"time"
)

// Storage persists notifications per user.
type Storage interface {
	Create(ctx context.Context, notif Notification) error
	Get(ctx context.Context, userID, notifID string) (*Notification, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, notifIDs ...string) error
	Delete(ctx context.Context, userID string, notifIDs ...string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListOptions filters and paginates List results.
type ListOptions struct {
	Limit      int // 0 means no limit
	Offset     int
	OnlyUnread bool
	Types      []Type
	Since      *time.Time
}
