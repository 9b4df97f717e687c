package notifications_test

import (
	"context"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/reviewsystem/pkg/email"
	"github.com/dmitrymomot/reviewsystem/pkg/notifications"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []notifications.Notification
	err       error
}

func (d *recordingDeliverer) Deliver(_ context.Context, n notifications.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, n)
	return d.err
}

func (d *recordingDeliverer) DeliverBatch(ctx context.Context, ns []notifications.Notification) error {
	for _, n := range ns {
		_ = d.Deliver(ctx, n)
	}
	return d.err
}

func (d *recordingDeliverer) all() []notifications.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notifications.Notification(nil), d.delivered...)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
