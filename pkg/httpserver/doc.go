// Package httpserver runs the boardly HTTP listener with graceful shutdown.
//
// Run binds the listener, serves until its context is cancelled, drains
// in-flight requests within the shutdown timeout and then runs the stop hooks.
// Signal handling is left to the caller:
//
//	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
//
// Liveness and Readiness serve the /healthz and /readyz probes. Readiness runs
// named Checks such as pg.Healthcheck and redis.Healthcheck.
package httpserver
