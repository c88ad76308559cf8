package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/boardly/boardly/internal/db"
	"github.com/boardly/boardly/modules/account"
	"github.com/boardly/boardly/pkg/clientip"
	"github.com/boardly/boardly/pkg/cookie"
	"github.com/boardly/boardly/pkg/environment"
	"github.com/boardly/boardly/pkg/httpserver"
	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/pg"
	"github.com/boardly/boardly/pkg/ratelimiter"
	"github.com/boardly/boardly/pkg/redis"
	"github.com/boardly/boardly/pkg/secretbox"
	"github.com/boardly/boardly/pkg/session"
	"github.com/boardly/boardly/pkg/twofactor"
	"github.com/boardly/boardly/svc/auth"
	svctwofactor "github.com/boardly/boardly/svc/twofactor"
)

// Server owns every long-lived dependency of the process and the HTTP handler
// built on top of them.
type Server struct {
	handler http.Handler
	checks  []httpserver.Check
	closers []func() error
	log     *slog.Logger
}

// New connects the configured backends and builds the router. Redis and
// Postgres are optional; without them sessions and rate limits stay in memory
// and accounts go to bbolt. On error everything opened so far is closed.
func New(ctx context.Context, cfg Config, log *slog.Logger) (_ *Server, err error) {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{log: log}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	env := environment.Parse(cfg.Env)
	secure := env.IsProduction()

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		if rdb, err = redis.Connect(ctx, cfg.Redis, log); err != nil {
			return nil, err
		}
		s.onClose(rdb.Close)
		s.checks = append(s.checks, httpserver.Check{Name: "redis", Func: redis.Healthcheck(rdb)})
	}

	users, secrets, err := s.openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	codec, err := secretbox.New(cfg.Secretbox)
	if err != nil {
		return nil, err
	}
	if !codec.Enabled() {
		log.WarnContext(ctx, "TOTP_ENCRYPTION_KEY is not set, TOTP secrets are stored in plaintext")
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie, cookie.WithSecure(secure || cfg.Cookie.Secure))
	if err != nil {
		return nil, err
	}
	sessionOpts := []session.Option{session.WithConfig(cfg.Session), session.WithCookieManager(cookies)}
	if rdb != nil {
		sessionOpts = append(sessionOpts, session.WithStore(session.NewRedisStore(rdb, cfg.Session.RedisPrefix)))
	}
	sessions := session.New(sessionOpts...)
	s.onClose(sessions.Close)

	claims, err := twofactor.New(cfg.TwoFactor, sessions,
		twofactor.WithSecureCookie(secure || cfg.Cookie.Secure),
		twofactor.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	var limitStore ratelimiter.Store
	if rdb != nil {
		limitStore = ratelimiter.NewRedisStore(rdb, "")
	} else {
		mem := ratelimiter.NewMemoryStore()
		s.onClose(func() error { mem.Close(); return nil })
		limitStore = mem
	}
	codeLimiter, err := ratelimiter.NewBucket(limitStore, ratelimiter.Config{
		Capacity:       cfg.CodeLimit.Burst,
		RefillRate:     1,
		RefillInterval: cfg.CodeLimit.Interval,
	})
	if err != nil {
		return nil, err
	}

	providers := make(map[string]auth.ProviderAdapter)
	if cfg.Google.Enabled() {
		providers[auth.ProviderGoogle] = auth.NewGoogleAdapter(cfg.Google)
	}
	if cfg.GitHub.Enabled() {
		providers[auth.ProviderGithub] = auth.NewGitHubAdapter(cfg.GitHub)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	accountRouter, err := account.Router(account.Deps{
		Sessions: sessions,
		Claims:   claims,
		Auth:     auth.NewService(users, auth.WithLogger(log)),
		TwoFactor: svctwofactor.NewService(secrets, codec,
			svctwofactor.WithIssuer(cfg.TOTPIssuer),
			svctwofactor.WithAttemptLimiter(codeLimiter),
			svctwofactor.WithLogger(log),
		),
		Providers:   providers,
		Codec:       codec,
		CodeLimiter: codeLimiter,
		Metrics:     account.NewMetrics(reg),
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		clientip.New(cfg.ClientIP).Middleware,
		environment.Middleware(env),
		accessLog(log),
		middleware.Recoverer,
	)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(corsHandler(cfg.CORSOrigins))
	}

	r.Get("/healthz", httpserver.Liveness)
	r.Get("/readyz", httpserver.Readiness(log, cfg.ReadyTimeout, s.checks...))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", accountRouter)

	s.handler = r
	log.InfoContext(ctx, "server configured",
		slog.String("env", env.String()),
		slog.Bool("redis", rdb != nil),
		slog.Bool("postgres", cfg.Postgres.Enabled()),
		slog.Bool("encryption", codec.Enabled()),
		slog.Int("sso_providers", len(providers)),
	)
	return s, nil
}

func (s *Server) openStorage(ctx context.Context, cfg Config) (auth.Storage, svctwofactor.Storage, error) {
	switch {
	case cfg.Postgres.Enabled():
		pool, err := pg.Connect(ctx, cfg.Postgres, s.log)
		if err != nil {
			return nil, nil, err
		}
		s.onClose(func() error { pool.Close(); return nil })
		s.checks = append(s.checks, httpserver.Check{Name: "postgres", Func: pg.Healthcheck(pool)})

		if err := pg.Migrate(ctx, pool, db.Migrations, cfg.Postgres, s.log); err != nil {
			return nil, nil, err
		}
		return auth.NewPostgresStorage(pool), svctwofactor.NewPostgresStorage(pool), nil

	case cfg.BoltPath != "":
		secrets, err := svctwofactor.OpenBoltStorage(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		s.onClose(secrets.Close)
		users, err := auth.NewBoltStorage(secrets.DB())
		if err != nil {
			return nil, nil, err
		}
		return users, secrets, nil

	default:
		s.log.WarnContext(ctx, "no DATABASE_URL or BOLT_PATH, accounts are kept in memory")
		return auth.NewMemoryStorage(), svctwofactor.NewMemoryStorage(), nil
	}
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close releases dependencies in reverse order of creation. It fits
// httpserver.WithStopHook.
func (s *Server) Close() error {
	var errs []error
	for _, c := range slices.Backward(s.closers) {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Server) onClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// accessLog writes one line per request. The request id comes from the
// logger's context extractor.
func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("ip", clientip.GetIP(r)),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
