package notifications

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/reviewsystem/pkg/async"
	"github.com/dmitrymomot/reviewsystem/pkg/cache"
	"github.com/dmitrymomot/reviewsystem/pkg/email"
	"github.com/dmitrymomot/reviewsystem/pkg/email/templates"
	"github.com/dmitrymomot/reviewsystem/pkg/logger"
)

// DefaultEmailCooldown is how long an email for the same user, type, plan and
// feature is suppressed after one was sent.
const DefaultEmailCooldown = 24 * time.Hour

// sentHistorySize bounds the number of remembered sends.
const sentHistorySize = 10000

// EmailDeliverer mails selected notification types to the recipient's
// address. Sending runs in the background so Deliver returns immediately.
// Repeats within the cooldown are dropped.
type EmailDeliverer struct {
	sender   email.EmailSender
	types    []Type
	baseURL  string
	timeout  time.Duration
	cooldown time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.Mutex
	pending []*async.Future[struct{}]
	sent    *cache.LRUCache[string, time.Time]
}

type EmailDelivererOption func(*EmailDeliverer)

// WithEmailTypes selects the notification types that are mailed.
// Defaults to TypeError.
func WithEmailTypes(types ...Type) EmailDelivererOption {
	return func(d *EmailDeliverer) {
		if len(types) > 0 {
			d.types = types
		}
	}
}

// WithEmailBaseURL makes relative action URLs absolute.
func WithEmailBaseURL(base string) EmailDelivererOption {
	return func(d *EmailDeliverer) {
		d.baseURL = strings.TrimRight(base, "/")
	}
}

// WithEmailTimeout bounds each send. Defaults to 10s.
func WithEmailTimeout(timeout time.Duration) EmailDelivererOption {
	return func(d *EmailDeliverer) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithEmailCooldown sets how long repeats are suppressed. Defaults to
// DefaultEmailCooldown.
func WithEmailCooldown(d time.Duration) EmailDelivererOption {
	return func(e *EmailDeliverer) {
		if d > 0 {
			e.cooldown = d
		}
	}
}

// WithEmailClock overrides the time source used for the cooldown.
func WithEmailClock(now func() time.Time) EmailDelivererOption {
	return func(e *EmailDeliverer) {
		if now != nil {
			e.now = now
		}
	}
}

func WithEmailLogger(l *slog.Logger) EmailDelivererOption {
	return func(d *EmailDeliverer) {
		if l != nil {
			d.logger = l
		}
	}
}

func NewEmailDeliverer(sender email.EmailSender, opts ...EmailDelivererOption) *EmailDeliverer {
	d := &EmailDeliverer{
		sender:   sender,
		types:    []Type{TypeError},
		timeout:  10 * time.Second,
		cooldown: DefaultEmailCooldown,
		now:      time.Now,
		logger:   slog.Default(),
		sent:     cache.NewLRUCache[string, time.Time](sentHistorySize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver queues an email when the notification type is selected, the
// context carries a recipient address for notif.UserID and no email for the
// same user, type, plan and feature went out within the cooldown. Otherwise it
// is a no-op.
func (d *EmailDeliverer) Deliver(ctx context.Context, notif Notification) error {
	if !slices.Contains(d.types, notif.Type) {
		return nil
	}
	r, ok := RecipientFromContext(ctx)
	if !ok || r.ID != notif.UserID || r.Email == "" {
		return nil
	}

	key := dedupeKey(notif)
	if !d.claim(key) {
		d.logger.LogAttrs(ctx, slog.LevelDebug, "notification email suppressed",
			logger.NotificationID(notif.ID),
			logger.UserID(notif.UserID),
		)
		return nil
	}

	params, err := d.render(ctx, notif, r.Email)
	if err != nil {
		d.sent.Remove(key)
		return err
	}

	// Detached from request cancellation, bounded by the send timeout.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	future := async.Async(sendCtx, params, func(ctx context.Context, p email.SendEmailParams) (struct{}, error) {
		defer cancel()
		if err := d.sender.SendEmail(ctx, p); err != nil {
			// A failed send does not count against the cooldown.
			d.sent.Remove(key)
			d.logger.LogAttrs(ctx, slog.LevelError, "failed to email notification",
				logger.NotificationID(notif.ID),
				logger.UserID(notif.UserID),
				logger.Error(err),
			)
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	d.track(future)
	return nil
}

func (d *EmailDeliverer) DeliverBatch(ctx context.Context, notifs []Notification) error {
	var errs []error
	for _, n := range notifs {
		if err := d.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until every queued email has been attempted and returns
// their joined errors.
func (d *EmailDeliverer) Wait() error {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	_, err := async.WaitAll(pending...)
	return err
}

// claim records a send for key unless one is still inside the cooldown.
func (d *EmailDeliverer) claim(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.sent.Get(key); ok && now.Sub(last) < d.cooldown {
		return false
	}
	d.sent.Put(key, now)
	return true
}

func dedupeKey(n Notification) string {
	plan, _ := n.Data["plan"].(string)
	feature, _ := n.Data["feature"].(string)
	return strings.Join([]string{n.UserID, string(n.Type), plan, feature}, "|")
}

func (d *EmailDeliverer) track(f *async.Future[struct{}]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = slices.DeleteFunc(d.pending, func(p *async.Future[struct{}]) bool {
		return p.IsComplete()
	})
	d.pending = append(d.pending, f)
}

func (d *EmailDeliverer) render(ctx context.Context, notif Notification, to string) (email.SendEmailParams, error) {
	data := templates.NoticeData{
		Title:   notif.Title,
		Message: notif.Message,
		Footer:  "You are receiving this email because of activity on your ReviewSystem account.",
	}
	for _, a := range notif.Actions {
		if a.URL != "" {
			data.ActionLabel = a.Label
			data.ActionURL = d.absolute(a.URL)
			break
		}
	}

	html, err := templates.Render(ctx, templates.Notice(data))
	if err != nil {
		return email.SendEmailParams{}, errors.Join(ErrFailedToRender, err)
	}
	return email.SendEmailParams{
		SendTo:   to,
		Subject:  notif.Title,
		BodyHTML: html,
		Tag:      "notification-" + string(notif.Type),
	}, nil
}

func (d *EmailDeliverer) absolute(ref string) string {
	if d.baseURL == "" {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	return d.baseURL + "/" + strings.TrimLeft(ref, "/")
}
