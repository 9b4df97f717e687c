package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Source is the billing collaborator: it reads the caller's current
// subscription and usage. Implementations must be safe for concurrent use;
// both reads are issued in parallel.
type Source interface {
	CurrentSubscription(ctx context.Context) (Subscription, error)
	CurrentUsage(ctx context.Context) (UsageSnapshot, error)
}

// Config configures the HTTP billing API client.
type Config struct {
	BaseURL string        `env:"BILLING_API_URL,required"`
	Token   string        `env:"BILLING_API_TOKEN"` // service token used when the request context carries none
	Timeout time.Duration `env:"BILLING_API_TIMEOUT" envDefault:"10s"`
}

const (
	subscriptionPath = "/api/subscription/current"
	usagePath        = "/api/usage/stats"
)

// HTTPSource reads subscription and usage from the ReviewSystem REST API.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client // carries per-request tokens
	service    *http.Client // authenticates with the configured service token
}

// HTTPSourceOption configures an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient overrides the HTTP client. Nil clients are ignored.
func WithHTTPClient(c *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// NewHTTPSource creates a billing API client.
// When cfg.Token is set, requests without a per-request token are
// authenticated with it through an oauth2 static token source.
func NewHTTPSource(cfg Config, opts ...HTTPSourceOption) (*HTTPSource, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}

	s := &HTTPSource{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.service = s.httpClient
	if cfg.Token != "" {
		// oauth2.Transport overwrites Authorization, so it only wraps the service client.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.httpClient)
		s.service = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
		s.service.Timeout = s.httpClient.Timeout
	}
	return s, nil
}

// CurrentSubscription fetches GET /api/subscription/current.
// A response without a subscription object yields an empty Subscription.
func (s *HTTPSource) CurrentSubscription(ctx context.Context) (Subscription, error) {
	var env subscriptionEnvelope
	if err := s.get(ctx, subscriptionPath, &env); err != nil {
		return Subscription{}, errors.Join(ErrFetchSubscription, err)
	}
	if env.Subscription == nil {
		return Subscription{}, nil
	}
	return *env.Subscription, nil
}

// CurrentUsage fetches GET /api/usage/stats.
// A response without a usage object yields an empty UsageSnapshot.
func (s *HTTPSource) CurrentUsage(ctx context.Context) (UsageSnapshot, error) {
	var env usageEnvelope
	if err := s.get(ctx, usagePath, &env); err != nil {
		return UsageSnapshot{}, errors.Join(ErrFetchUsage, err)
	}
	if env.Usage == nil {
		return UsageSnapshot{}, nil
	}
	return *env.Usage, nil
}

func (s *HTTPSource) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	client := s.service
	if tok, ok := TokenFromContext(ctx); ok {
		tok.SetAuthHeader(req)
		client = s.httpClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}
