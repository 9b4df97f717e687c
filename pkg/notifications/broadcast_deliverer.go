package notifications

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/reviewsystem/pkg/broadcast"
	"github.com/dmitrymomot/reviewsystem/pkg/cache"
	"github.com/dmitrymomot/reviewsystem/pkg/logger"
)

// DefaultMaxBroadcasters bounds the number of users with a live broadcaster.
const DefaultMaxBroadcasters = 10000

// BroadcastDeliverer pushes notifications to in-process subscribers, one
// broadcaster per user. The least recently used broadcaster is closed when
// the limit is reached, which ends its open streams.
type BroadcastDeliverer struct {
	broadcasters    *cache.LRUCache[string, broadcast.Broadcaster[Notification]]
	bufferSize      int
	maxBroadcasters int
	logger          *slog.Logger
}

type BroadcastDelivererOption func(*BroadcastDeliverer)

func WithBroadcastLogger(l *slog.Logger) BroadcastDelivererOption {
	return func(b *BroadcastDeliverer) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMaxBroadcasters overrides DefaultMaxBroadcasters.
func WithMaxBroadcasters(limit int) BroadcastDelivererOption {
	return func(b *BroadcastDeliverer) {
		if limit > 0 {
			b.maxBroadcasters = limit
		}
	}
}

// NewBroadcastDeliverer creates a deliverer whose subscribers buffer
// bufferSize notifications.
func NewBroadcastDeliverer(bufferSize int, opts ...BroadcastDelivererOption) *BroadcastDeliverer {
	d := &BroadcastDeliverer{
		bufferSize:      bufferSize,
		maxBroadcasters: DefaultMaxBroadcasters,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.broadcasters = cache.NewLRUCache[string, broadcast.Broadcaster[Notification]](d.maxBroadcasters)
	d.broadcasters.SetEvictCallback(func(userID string, b broadcast.Broadcaster[Notification]) {
		if err := b.Close(); err != nil {
			d.logger.LogAttrs(context.Background(), slog.LevelError, "failed to close evicted broadcaster",
				logger.UserID(userID),
				logger.Error(err),
			)
		}
	})
	return d
}

func (d *BroadcastDeliverer) Deliver(ctx context.Context, notif Notification) error {
	return d.broadcaster(notif.UserID).Broadcast(ctx, broadcast.Message[Notification]{Data: notif})
}

func (d *BroadcastDeliverer) DeliverBatch(ctx context.Context, notifs []Notification) error {
	for _, notif := range notifs {
		if err := d.Deliver(ctx, notif); err != nil {
			d.logger.LogAttrs(ctx, slog.LevelError, "failed to broadcast notification",
				logger.NotificationID(notif.ID),
				logger.UserID(notif.UserID),
				logger.Error(err),
			)
		}
	}
	return nil
}

// Subscribe opens a live feed of the user's notifications.
// The subscription ends when ctx is cancelled.
func (d *BroadcastDeliverer) Subscribe(ctx context.Context, userID string) broadcast.Subscriber[Notification] {
	return d.broadcaster(userID).Subscribe(ctx)
}

// Close closes every broadcaster and their subscribers.
func (d *BroadcastDeliverer) Close() error {
	d.broadcasters.Clear()
	return nil
}

func (d *BroadcastDeliverer) broadcaster(userID string) broadcast.Broadcaster[Notification] {
	return d.broadcasters.GetOrCreate(userID, func() broadcast.Broadcaster[Notification] {
		return broadcast.NewMemoryBroadcaster[Notification](d.bufferSize)
	})
}
