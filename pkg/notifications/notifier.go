package notifications

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
	"github.com/dmitrymomot/reviewsystem/pkg/logger"
)

// QuotaNotifier turns usage events into notifications for the recipient
// carried by the context. LimitReached and Warning never fail the caller.
type QuotaNotifier struct {
	manager *Manager
	links   Links
	logger  *slog.Logger
}

type QuotaNotifierOption func(*QuotaNotifier)

func WithLinks(l Links) QuotaNotifierOption {
	return func(n *QuotaNotifier) {
		if l.UpgradeURL != "" {
			n.links.UpgradeURL = l.UpgradeURL
		}
		if l.PlansURL != "" {
			n.links.PlansURL = l.PlansURL
		}
	}
}

func WithNotifierLogger(l *slog.Logger) QuotaNotifierOption {
	return func(n *QuotaNotifier) {
		if l != nil {
			n.logger = l
		}
	}
}

func NewQuotaNotifier(manager *Manager, opts ...QuotaNotifierOption) *QuotaNotifier {
	n := &QuotaNotifier{
		manager: manager,
		links:   DefaultLinks,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *QuotaNotifier) LimitReached(ctx context.Context, q limits.Quota) {
	n.send(ctx, LimitReached(q, n.links))
}

func (n *QuotaNotifier) Warning(ctx context.Context, q limits.Quota) {
	n.send(ctx, Warning(q, n.links))
}

// PromptUpgrade shows the persistent upgrade prompt for plan.
func (n *QuotaNotifier) PromptUpgrade(ctx context.Context, plan limits.Plan) (Notification, error) {
	r, ok := RecipientFromContext(ctx)
	if !ok {
		return Notification{}, ErrMissingRecipient
	}
	notif := UpgradePrompt(plan, n.links)
	notif.UserID = r.ID
	return n.manager.Send(ctx, notif)
}

func (n *QuotaNotifier) send(ctx context.Context, notif Notification) {
	r, ok := RecipientFromContext(ctx)
	if !ok {
		n.logger.DebugContext(ctx, "no notification recipient in context, skipping",
			logger.Event(notif.Title),
		)
		return
	}

	notif.UserID = r.ID
	if _, err := n.manager.Send(ctx, notif); err != nil {
		n.logger.ErrorContext(ctx, "failed to send quota notification",
			logger.UserID(r.ID),
			logger.Event(notif.Title),
			logger.Error(err),
		)
	}
}
