package notifications

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/reviewsystem/pkg/logger"
)

// Deliverer pushes notifications to the user through one channel.
type Deliverer interface {
	Deliver(ctx context.Context, notif Notification) error
	DeliverBatch(ctx context.Context, notifs []Notification) error
}

// MultiDeliverer fans out to several channels. Channel failures are logged
// and never returned.
type MultiDeliverer struct {
	deliverers []Deliverer
	logger     *slog.Logger
}

type MultiDelivererOption func(*MultiDeliverer)

func WithMultiDelivererLogger(l *slog.Logger) MultiDelivererOption {
	return func(m *MultiDeliverer) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewMultiDeliverer(deliverers []Deliverer, opts ...MultiDelivererOption) *MultiDeliverer {
	m := &MultiDeliverer{deliverers: deliverers, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MultiDeliverer) Deliver(ctx context.Context, notif Notification) error {
	for i, d := range m.deliverers {
		if err := d.Deliver(ctx, notif); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "failed to deliver notification",
				logger.NotificationID(notif.ID),
				logger.UserID(notif.UserID),
				slog.Int("deliverer_index", i),
				logger.Error(err),
			)
		}
	}
	return nil
}

func (m *MultiDeliverer) DeliverBatch(ctx context.Context, notifs []Notification) error {
	for i, d := range m.deliverers {
		if err := d.DeliverBatch(ctx, notifs); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "failed to deliver notification batch",
				slog.Int("notification_count", len(notifs)),
				slog.Int("deliverer_index", i),
				logger.Error(err),
			)
		}
	}
	return nil
}

// NoOpDeliverer drops everything. Notifications stay readable through Storage.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Deliver(context.Context, Notification) error        { return nil }
func (NoOpDeliverer) DeliverBatch(context.Context, []Notification) error { return nil }
