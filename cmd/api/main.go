package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/medisure/portal/internal/api/http"
	"github.com/medisure/portal/internal/api/http/handlers"
	"github.com/medisure/portal/internal/auth"
	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/config"
	"github.com/medisure/portal/internal/events"
	"github.com/medisure/portal/internal/observability"
	"github.com/medisure/portal/internal/persistence"
	"github.com/medisure/portal/internal/repository"
	"github.com/medisure/portal/internal/service"
	"github.com/medisure/portal/internal/session"
	"github.com/medisure/portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	sessions := session.NewRedisRepository(redis.Client, cfg.Session.KeyPrefix, cfg.Session.TTL(), logger)
	dispatcher := events.NewInMemoryDispatcher()

	var (
		auditRepo   repository.AuditLogRepository
		auditSink   service.AuditSink
		auditWriter *worker.AuditWriter
	)
	if pg.Enabled() {
		auditRepo = repository.NewAuditLogRepository(pg.Pool)
		auditWriter = worker.NewAuditWriter(auditRepo, logger, 0)
		auditSink = auditWriter
	}
	auditService := service.NewAuditService(dispatcher, logger, auditSink, auditRepo)
	worker.StartAuditWorker(auditService)

	factory, err := backend.NewFactory(backend.Options{
		BaseURL:        cfg.Backend.BaseURL,
		Timeout:        cfg.Backend.Timeout(),
		Retries:        cfg.Backend.Retries,
		Logger:         logger,
		Metrics:        metrics,
		OnUnauthorized: service.ForcedLogoutHook(dispatcher, logger),
	})
	if err != nil {
		logger.Fatal("invalid backend configuration", zap.Error(err))
	}

	sessionMiddleware := auth.NewSessionMiddleware(sessions, auth.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    cfg.Session.TTL(),
	}, logger)

	authDeps := service.AuthDependencies{
		Backend:    factory,
		Tokens:     auth.NewTokenInspector(),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		SessionTTL: cfg.Session.TTL(),
	}

	var postgresPinger handlers.Pinger
	if pg.Enabled() {
		postgresPinger = pg
	}
	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
		handlers.Dependency{Name: "redis", Pinger: redis},
		handlers.Dependency{Name: "postgres", Pinger: postgresPinger, Optional: true},
		handlers.Dependency{Name: "backend", Pinger: backendPinger(cfg.Backend.BaseURL), Optional: true},
	)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   healthHandler,
		Auth:     handlers.NewAuthHandler(sessionMiddleware, authDeps),
		Pages:    handlers.NewPagesHandler(service.NewViewService(logger), factory),
		Actions:  handlers.NewActionsHandler(factory),
		Audit:    handlers.NewAuditHandler(auditService),
		Sessions: sessionMiddleware,
		Metrics:  metrics,
		Gatherer: registry,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	if auditWriter != nil {
		g.Go(func() error { return auditWriter.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

// backendPinger treats any HTTP answer from the backend as reachable.
func backendPinger(baseURL string) handlers.PingFunc {
	client := &http.Client{Timeout: 2 * time.Second}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}
