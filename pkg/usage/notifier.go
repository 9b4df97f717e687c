package usage

import (
	"context"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
)

// Notifier surfaces quota events to the user.
// Implementations must not block the check and must not fail it.
type Notifier interface {
	LimitReached(ctx context.Context, q limits.Quota)
	Warning(ctx context.Context, q limits.Quota)
}

// NoOpNotifier discards every event.
type NoOpNotifier struct{}

func (NoOpNotifier) LimitReached(context.Context, limits.Quota) {}
func (NoOpNotifier) Warning(context.Context, limits.Quota)      {}

// NotifierFuncs adapts plain functions to Notifier. Nil fields are skipped.
type NotifierFuncs struct {
	OnLimitReached func(ctx context.Context, q limits.Quota)
	OnWarning      func(ctx context.Context, q limits.Quota)
}

func (n NotifierFuncs) LimitReached(ctx context.Context, q limits.Quota) {
	if n.OnLimitReached != nil {
		n.OnLimitReached(ctx, q)
	}
}

func (n NotifierFuncs) Warning(ctx context.Context, q limits.Quota) {
	if n.OnWarning != nil {
		n.OnWarning(ctx, q)
	}
}
