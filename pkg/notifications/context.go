package notifications

import (
	"context"
	"strings"
)

// Recipient identifies who receives notifications raised while handling a request.
type Recipient struct {
	ID    string
	Email string
}

type recipientCtxKey struct{}

// WithRecipient attaches the notification recipient to ctx.
// Recipients without an ID are ignored.
func WithRecipient(ctx context.Context, r Recipient) context.Context {
	r.ID = strings.TrimSpace(r.ID)
	r.Email = strings.TrimSpace(r.Email)
	if r.ID == "" {
		return ctx
	}
	return context.WithValue(ctx, recipientCtxKey{}, r)
}

// RecipientFromContext returns the recipient set by WithRecipient.
func RecipientFromContext(ctx context.Context) (Recipient, bool) {
	r, ok := ctx.Value(recipientCtxKey{}).(Recipient)
	return r, ok
}
