package usage

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrymomot/reviewsystem/handler"
	"github.com/dmitrymomot/reviewsystem/pkg/notifications"
	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
)

// Request headers set by the UI runtime or the gateway in front of it.
const (
	HeaderTenantID  = "X-Tenant-ID"
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

var (
	ErrMissingTenant        = handler.NewHTTPError(http.StatusBadRequest, "missing_tenant")
	ErrMissingRecipient     = handler.NewHTTPError(http.StatusBadRequest, "missing_recipient")
	ErrUnknownFeature       = handler.NewHTTPError(http.StatusNotFound, "unknown_feature")
	ErrInvalidPlan          = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_plan")
	ErrUnsupportedPlan      = handler.NewHTTPError(http.StatusConflict, "unsupported_plan")
	ErrInvalidQRRequest     = handler.NewHTTPError(http.StatusBadRequest, "invalid_qr_request")
	ErrNotificationNotFound = handler.NewHTTPError(http.StatusNotFound, "notification_not_found")
	ErrNotDismissible       = handler.NewHTTPError(http.StatusConflict, "notification_not_dismissible")
)

type tenantCtxKey struct{}

// WithTenant stores the tenant ID in ctx.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantCtxKey{}, tenantID)
}

// TenantFromContext returns the tenant ID, or "" when the request carried none.
func TenantFromContext(ctx context.Context) string {
	id, _ := ctx.Value(tenantCtxKey{}).(string)
	return id
}

// Middleware copies the caller identity from request headers into the context:
// the tenant, the billing API bearer token and the notification recipient.
// The recipient defaults to the tenant when no user header is present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tenantID := strings.TrimSpace(r.Header.Get(HeaderTenantID))
		if tenantID != "" {
			ctx = WithTenant(ctx, tenantID)
		}

		if token := subscription.TokenFromAuthorization(r.Header.Get("Authorization")); token != "" {
			ctx = subscription.WithToken(ctx, token)
		}

		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			userID = tenantID
		}
		ctx = notifications.WithRecipient(ctx, notifications.Recipient{
			ID:    userID,
			Email: r.Header.Get(HeaderUserEmail),
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recipient(ctx context.Context) (notifications.Recipient, error) {
	r, ok := notifications.RecipientFromContext(ctx)
	if !ok {
		return notifications.Recipient{}, ErrMissingRecipient
	}
	return r, nil
}
