package usage

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/reviewsystem/handler"
	"github.com/dmitrymomot/reviewsystem/pkg/binder"
	"github.com/dmitrymomot/reviewsystem/pkg/limits"
	gate "github.com/dmitrymomot/reviewsystem/pkg/usage"
)

// UsageService exposes quota checks to the UI runtime, which calls them
// before starting a metered action such as an AI enhancement.
type UsageService struct {
	registry     *gate.Registry
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewUsageService(registry *gate.Registry, errorHandler handler.ErrorHandler[handler.Context]) *UsageService {
	return &UsageService{
		registry:     registry,
		errorHandler: errorHandler,
	}
}

type FeatureRequest struct {
	Feature string `path:"feature"`
}

type CheckResult struct {
	Allowed bool `json:"allowed"`
}

// QuotaView is the dashboard representation of a quota.
type QuotaView struct {
	Plan       limits.Plan    `json:"plan"`
	Feature    limits.Feature `json:"feature"`
	Limit      int64          `json:"limit"`
	Used       int64          `json:"used"`
	Remaining  int64          `json:"remaining"`
	Percentage int            `json:"percentage"`
	Unlimited  bool           `json:"unlimited"`
	NearLimit  bool           `json:"near_limit"`
	Exceeded   bool           `json:"exceeded"`
}

func newQuotaView(q limits.Quota) QuotaView {
	return QuotaView{
		Plan:       q.Plan,
		Feature:    q.Feature,
		Limit:      q.Limit,
		Used:       q.Used,
		Remaining:  q.Remaining(),
		Percentage: q.Percentage(),
		Unlimited:  q.IsUnlimited(),
		NearLimit:  q.NearLimit(),
		Exceeded:   q.Exceeded(),
	}
}

func (s *UsageService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/invalidate", handler.Wrap(s.invalidate,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Post("/{feature}/check", handler.Wrap(s.check,
		handler.WithBinders[handler.Context, FeatureRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, FeatureRequest](s.errorHandler),
	))
	r.Get("/{feature}", handler.Wrap(s.usage,
		handler.WithBinders[handler.Context, FeatureRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, FeatureRequest](s.errorHandler),
	))

	return r
}

// check answers whether the tenant may perform one more use of the feature.
// It never fails on billing errors; the client fails open.
func (s *UsageService) check(ctx handler.Context, req FeatureRequest) handler.Response {
	client, err := s.registry.Client(TenantFromContext(ctx))
	if err != nil {
		return handler.JSONError(ErrMissingTenant)
	}
	return handler.JSON(CheckResult{
		Allowed: client.CheckUsageLimit(ctx, limits.Feature(req.Feature)),
	})
}

func (s *UsageService) usage(ctx handler.Context, req FeatureRequest) handler.Response {
	client, err := s.registry.Client(TenantFromContext(ctx))
	if err != nil {
		return handler.JSONError(ErrMissingTenant)
	}

	q, err := client.Usage(ctx, limits.Feature(req.Feature))
	switch {
	case err == nil:
		return handler.JSON(newQuotaView(q))
	case errors.Is(err, limits.ErrUnknownFeature):
		return handler.JSONError(ErrUnknownFeature)
	case errors.Is(err, gate.ErrUnknownPlan):
		return handler.JSONError(ErrUnsupportedPlan)
	case errors.Is(err, gate.ErrRefreshFailed):
		return handler.JSONError(handler.ErrBadGateway)
	default:
		return handler.JSONError(err)
	}
}

func (s *UsageService) invalidate(ctx handler.Context, _ struct{}) handler.Response {
	if err := s.registry.Invalidate(ctx, TenantFromContext(ctx)); err != nil {
		if errors.Is(err, gate.ErrMissingTenantID) {
			return handler.JSONError(ErrMissingTenant)
		}
		return handler.JSONError(err)
	}
	return handler.Empty()
}
