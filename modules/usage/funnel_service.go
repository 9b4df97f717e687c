package usage

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/reviewsystem/handler"
	"github.com/dmitrymomot/reviewsystem/pkg/binder"
	"github.com/dmitrymomot/reviewsystem/pkg/qrcode"
)

// FunnelService renders QR codes for review funnel links.
type FunnelService struct {
	errorHandler handler.ErrorHandler[handler.Context]
	middlewares  []func(http.Handler) http.Handler
}

type FunnelServiceOption func(*FunnelService)

// WithFunnelMiddleware wraps the QR route, e.g. with a rate limiter.
func WithFunnelMiddleware(mw ...func(http.Handler) http.Handler) FunnelServiceOption {
	return func(s *FunnelService) {
		s.middlewares = append(s.middlewares, mw...)
	}
}

func NewFunnelService(errorHandler handler.ErrorHandler[handler.Context], opts ...FunnelServiceOption) *FunnelService {
	s := &FunnelService{errorHandler: errorHandler}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type QRRequest struct {
	URL  string `query:"url"`
	Size int    `query:"size"`
}

func (s *FunnelService) Handle() http.Handler {
	r := chi.NewRouter()
	r.With(s.middlewares...).Get("/qr", handler.Wrap(s.qr,
		handler.WithBinders[handler.Context, QRRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, QRRequest](s.errorHandler),
	))
	return r
}

func (s *FunnelService) qr(_ handler.Context, req QRRequest) handler.Response {
	png, err := qrcode.GenerateURL(req.URL, req.Size)
	switch {
	case err == nil:
		return handler.Blob("image/png", png, map[string]string{
			"Cache-Control": "public, max-age=86400",
		})
	case errors.Is(err, qrcode.ErrInvalidURL),
		errors.Is(err, qrcode.ErrInvalidSize),
		errors.Is(err, qrcode.ErrEmptyContent):
		return handler.JSONError(ErrInvalidQRRequest)
	default:
		return handler.JSONError(err)
	}
}
