package usage

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/reviewsystem/handler"
	"github.com/dmitrymomot/reviewsystem/pkg/binder"
	"github.com/dmitrymomot/reviewsystem/pkg/limits"
	"github.com/dmitrymomot/reviewsystem/pkg/logger"
	"github.com/dmitrymomot/reviewsystem/pkg/notifications"
)

// DefaultKeepAlive is the interval between SSE keep-alive events.
const DefaultKeepAlive = 25 * time.Second

// NotificationService serves the toast feed and its live stream.
type NotificationService struct {
	manager      *notifications.Manager
	notifier     *notifications.QuotaNotifier
	feed         *notifications.BroadcastDeliverer
	errorHandler handler.ErrorHandler[handler.Context]
	keepAlive    time.Duration
	logger       *slog.Logger
}

type NotificationServiceOption func(*NotificationService)

// WithKeepAlive sets the SSE keep-alive interval.
func WithKeepAlive(d time.Duration) NotificationServiceOption {
	return func(s *NotificationService) {
		if d > 0 {
			s.keepAlive = d
		}
	}
}

func WithServiceLogger(l *slog.Logger) NotificationServiceOption {
	return func(s *NotificationService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewNotificationService(
	manager *notifications.Manager,
	notifier *notifications.QuotaNotifier,
	feed *notifications.BroadcastDeliverer,
	errorHandler handler.ErrorHandler[handler.Context],
	opts ...NotificationServiceOption,
) *NotificationService {
	s := &NotificationService{
		manager:      manager,
		notifier:     notifier,
		feed:         feed,
		errorHandler: errorHandler,
		keepAlive:    DefaultKeepAlive,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type UpgradePromptRequest struct {
	Plan string `json:"plan"`
}

type ListRequest struct {
	Limit  int  `query:"limit"`
	Offset int  `query:"offset"`
	Unread bool `query:"unread"`
}

type DismissRequest struct {
	ID string `path:"id"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

// NotificationView adds the toast duration in milliseconds for the UI runtime.
type NotificationView struct {
	notifications.Notification
	DurationMS int64 `json:"duration_ms"`
}

func newNotificationView(n notifications.Notification) NotificationView {
	return NotificationView{Notification: n, DurationMS: n.Duration.Milliseconds()}
}

func (s *NotificationService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.list,
		handler.WithBinders[handler.Context, ListRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, ListRequest](s.errorHandler),
	))
	r.Post("/read", handler.Wrap(s.markRead,
		handler.WithBinders[handler.Context, MarkReadRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, MarkReadRequest](s.errorHandler),
	))
	r.Post("/{id}/dismiss", handler.Wrap(s.dismiss,
		handler.WithBinders[handler.Context, DismissRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, DismissRequest](s.errorHandler),
	))
	r.Post("/upgrade-prompt", handler.Wrap(s.upgradePrompt,
		handler.WithBinders[handler.Context, UpgradePromptRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, UpgradePromptRequest](s.errorHandler),
	))
	r.Get("/stream", handler.Wrap(s.stream,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	return r
}

// upgradePrompt shows the persistent upgrade prompt for the caller's plan.
// An empty plan is treated as Free.
func (s *NotificationService) upgradePrompt(ctx handler.Context, req UpgradePromptRequest) handler.Response {
	plan := limits.DefaultPlan
	if strings.TrimSpace(req.Plan) != "" {
		p, err := limits.ParsePlan(req.Plan)
		if err != nil {
			return handler.JSONError(ErrInvalidPlan)
		}
		plan = p
	}

	if _, err := recipient(ctx); err != nil {
		return handler.JSONError(err)
	}

	notif, err := s.notifier.PromptUpgrade(ctx, plan)
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(newNotificationView(notif), handler.WithJSONStatus(http.StatusCreated))
}

func (s *NotificationService) list(ctx handler.Context, req ListRequest) handler.Response {
	r, err := recipient(ctx)
	if err != nil {
		return handler.JSONError(err)
	}

	items, err := s.manager.List(ctx, r.ID, notifications.ListOptions{
		Limit:      max(req.Limit, 0),
		Offset:     max(req.Offset, 0),
		OnlyUnread: req.Unread,
	})
	if err != nil {
		return handler.JSONError(err)
	}
	unread, err := s.manager.CountUnread(ctx, r.ID)
	if err != nil {
		return handler.JSONError(err)
	}

	views := make([]NotificationView, len(items))
	for i, n := range items {
		views[i] = newNotificationView(n)
	}
	return handler.JSON(views, handler.WithJSONMeta(map[string]any{"unread": unread}))
}

func (s *NotificationService) markRead(ctx handler.Context, req MarkReadRequest) handler.Response {
	r, err := recipient(ctx)
	if err != nil {
		return handler.JSONError(err)
	}

	switch {
	case req.All:
		err = s.manager.MarkAllRead(ctx, r.ID)
	case len(req.IDs) > 0:
		err = s.manager.MarkRead(ctx, r.ID, req.IDs...)
	default:
		return handler.JSONError(handler.ErrBadRequest)
	}
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.Empty()
}

// dismiss removes one of the caller's dismissible notifications.
func (s *NotificationService) dismiss(ctx handler.Context, req DismissRequest) handler.Response {
	r, err := recipient(ctx)
	if err != nil {
		return handler.JSONError(err)
	}

	n, err := s.manager.Get(ctx, r.ID, req.ID)
	switch {
	case errors.Is(err, notifications.ErrNotificationNotFound):
		return handler.JSONError(ErrNotificationNotFound)
	case err != nil:
		return handler.JSONError(err)
	case !n.Dismissible:
		return handler.JSONError(ErrNotDismissible)
	}

	if err := s.manager.Delete(ctx, r.ID, n.ID); err != nil {
		return handler.JSONError(err)
	}
	return handler.Empty()
}

// stream pushes every new notification for the caller as an SSE
// "notification" event until the client leaves or the feed closes.
func (s *NotificationService) stream(ctx handler.Context, _ struct{}) handler.Response {
	r, err := recipient(ctx)
	if err != nil {
		return handler.JSONError(err)
	}

	return handler.SSE(func(stream handler.StreamContext) error {
		sub := s.feed.Subscribe(stream, r.ID)
		defer sub.Close()

		if err := stream.Ping("connected"); err != nil {
			return nil
		}

		ticker := time.NewTicker(s.keepAlive)
		defer ticker.Stop()

		msgs := sub.Receive(stream)
		for {
			select {
			case <-stream.Done():
				return nil
			case <-ticker.C:
				if err := stream.Ping("keep-alive"); err != nil {
					return nil
				}
			case msg, ok := <-msgs:
				if !ok {
					return nil
				}
				err := stream.Send(handler.Event{
					ID:   msg.Data.ID,
					Name: "notification",
					Data: newNotificationView(msg.Data),
				})
				if err != nil {
					s.logger.DebugContext(stream, "notification stream write failed",
						logger.UserID(r.ID),
						logger.Error(err),
					)
					return nil
				}
			}
		}
	})
}
