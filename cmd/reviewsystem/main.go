package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/reviewsystem/handler"
	usagemodule "github.com/dmitrymomot/reviewsystem/modules/usage"
	"github.com/dmitrymomot/reviewsystem/pkg/clientip"
	"github.com/dmitrymomot/reviewsystem/pkg/config"
	"github.com/dmitrymomot/reviewsystem/pkg/email"
	"github.com/dmitrymomot/reviewsystem/pkg/httpserver"
	"github.com/dmitrymomot/reviewsystem/pkg/limits"
	"github.com/dmitrymomot/reviewsystem/pkg/logger"
	"github.com/dmitrymomot/reviewsystem/pkg/notifications"
	"github.com/dmitrymomot/reviewsystem/pkg/ratelimiter"
	"github.com/dmitrymomot/reviewsystem/pkg/redis"
	"github.com/dmitrymomot/reviewsystem/pkg/requestid"
	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
	"github.com/dmitrymomot/reviewsystem/pkg/usage"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_SERVICE" envDefault:"reviewsystem"`
}

func main() {
	var app appConfig
	config.MustLoad(&app)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), log); err != nil {
		log.Error("reviewsystem stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		usageCfg  usage.Config
		billing   subscription.Config
		notifCfg  notifications.Config
		serverCfg httpserver.Config
		limitCfg  ratelimiter.Config
		ipCfg     clientip.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&usageCfg) },
		func() error { return config.Load(&billing) },
		func() error { return config.Load(&notifCfg) },
		func() error { return config.Load(&serverCfg) },
		func() error { return config.Load(&limitCfg) },
		func() error { return config.Load(&ipCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}
	if err := usageCfg.Validate(); err != nil {
		return err
	}

	source, err := subscription.NewHTTPSource(billing)
	if err != nil {
		return err
	}

	policy, err := loadPolicy(ctx, usageCfg.PolicyFile)
	if err != nil {
		return err
	}

	metrics, err := usage.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	// Delivery: live feed always, email for error toasts when enabled.
	feed := notifications.NewBroadcastDeliverer(notifCfg.BufferSize,
		notifications.WithMaxBroadcasters(notifCfg.MaxBroadcasters),
		notifications.WithBroadcastLogger(log),
	)
	deliverers := []notifications.Deliverer{feed}

	var mailer *notifications.EmailDeliverer
	if notifCfg.EmailEnabled {
		var emailCfg email.Config
		if err := config.Load(&emailCfg); err != nil {
			return err
		}
		sender, err := email.NewSender(emailCfg)
		if err != nil {
			return err
		}
		mailer = notifications.NewEmailDeliverer(sender,
			notifications.WithEmailTypes(notifications.TypeError),
			notifications.WithEmailBaseURL(notifCfg.AppURL),
			notifications.WithEmailCooldown(notifCfg.EmailCooldown),
			notifications.WithEmailLogger(log),
		)
		deliverers = append(deliverers, mailer)
	}

	manager := notifications.NewManager(
		notifications.NewMemoryStorage(notifications.WithMaxPerUser(notifCfg.MaxPerUser)),
		notifications.NewMultiDeliverer(deliverers, notifications.WithMultiDelivererLogger(log)),
		notifications.WithManagerLogger(log),
	)
	notifier := notifications.NewQuotaNotifier(manager,
		notifications.WithLinks(notifCfg.Links()),
		notifications.WithNotifierLogger(log),
	)

	usageOpts := []usage.Option{
		usage.WithPolicy(policy),
		usage.WithNotifier(notifier),
		usage.WithMetrics(metrics),
		usage.WithLogger(log),
		usage.WithCacheOptions(usage.WithTTL(usageCfg.CacheTTL), usage.WithCacheLogger(log)),
	}

	var (
		readiness  []func(context.Context) error
		limitStore ratelimiter.Store
	)
	if usageCfg.CacheBackend == usage.BackendRedis {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()

		usageOpts = append(usageOpts, usage.WithStore(usage.NewRedisStore(client, usageCfg.RedisPrefix)))
		readiness = append(readiness, redis.Healthcheck(client))
		limitStore = ratelimiter.NewRedisStore(client, ratelimiter.DefaultRedisPrefix)
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limitStore = mem
	}

	bucket, err := ratelimiter.NewBucket(limitStore, limitCfg)
	if err != nil {
		return err
	}

	registry := usage.NewRegistry(source, usageCfg.RegistrySize, usageOpts...)
	errorHandler := handler.NewErrorHandler(log)

	funnels := usagemodule.NewFunnelService(errorHandler, usagemodule.WithFunnelMiddleware(
		ratelimiter.Middleware(bucket, ratelimiter.ByIP(),
			ratelimiter.WithMiddlewareLogger(log),
			ratelimiter.WithDeniedHandler(tooManyRequests()),
		),
	))

	ips, err := clientip.NewFromConfig(ipCfg)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, ips.Middleware, middleware.Recoverer)

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, readiness...))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Mount("/", usagemodule.Router(usagemodule.RouterOptions{
		Usage:         usagemodule.NewUsageService(registry, errorHandler),
		Notifications: usagemodule.NewNotificationService(manager, notifier, feed, errorHandler, usagemodule.WithServiceLogger(log)),
		Funnels:       funnels,
	}))

	srv := httpserver.NewFromConfig(serverCfg,
		httpserver.WithLogger(log),
		httpserver.WithShutdownHook(func() { _ = feed.Close() }),
	)
	runErr := srv.Run(ctx, r)

	if mailer != nil {
		if err := mailer.Wait(); err != nil {
			log.Warn("pending notification emails failed", logger.Error(err))
		}
	}
	return runErr
}

func tooManyRequests() http.Handler {
	resp := handler.JSONError(handler.NewHTTPError(http.StatusTooManyRequests, "too_many_requests"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = resp.Render(w, r)
	})
}

// loadPolicy returns the default quotas, or the YAML table at path when set.
func loadPolicy(ctx context.Context, path string) (limits.Policy, error) {
	if path == "" {
		return limits.DefaultPolicy(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()

	policy, err := limits.NewTablePolicy(ctx, limits.NewYAMLSource(f))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("load policy file %s", path), err)
	}
	return policy, nil
}
