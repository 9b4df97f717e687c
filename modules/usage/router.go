package usage

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the usage module.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Usage         Mountable
	Notifications Mountable
	Funnels       Mountable
}

// Router creates the usage module router. Every route runs behind
// Middleware, so tenant, billing token and recipient are in the context.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/api", usage.Router(usage.RouterOptions{
//	    Usage:         usage.NewUsageService(registry, errorHandler),
//	    Notifications: usage.NewNotificationService(manager, notifier, broadcaster, errorHandler),
//	    Funnels:       usage.NewFunnelService(errorHandler),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(Middleware)

	if opts.Usage != nil {
		r.Mount("/usage", opts.Usage.Handle())
	}
	if opts.Notifications != nil {
		r.Mount("/notifications", opts.Notifications.Handle())
	}
	if opts.Funnels != nil {
		r.Mount("/funnels", opts.Funnels.Handle())
	}

	return r
}
