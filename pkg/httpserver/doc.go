// Package httpserver runs an http.Server with graceful shutdown.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithShutdownHook(func() { _ = streams.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns after ctx is cancelled or SIGINT/SIGTERM arrives and in-flight
// requests drain within the shutdown timeout. HealthCheckHandler serves
// liveness and readiness checks.
package httpserver
