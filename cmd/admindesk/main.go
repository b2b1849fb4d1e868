package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/admindesk/admindesk/internal/app"
	"github.com/admindesk/admindesk/internal/auth"
	"github.com/admindesk/admindesk/internal/catalog"
	"github.com/admindesk/admindesk/internal/endpoints"
	"github.com/admindesk/admindesk/internal/observability"
	"github.com/admindesk/admindesk/internal/platform/cache"
	"github.com/admindesk/admindesk/internal/platform/db"
	"github.com/admindesk/admindesk/internal/rbac"
	"github.com/admindesk/admindesk/internal/roles"
	"github.com/admindesk/admindesk/internal/shared"
	"github.com/admindesk/admindesk/internal/users"
	"github.com/admindesk/admindesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	rolesService := roles.NewService(roles.NewRepository(pool))
	endpointsService := endpoints.NewService(endpoints.NewRepository(pool), logger)

	if err := catalogService.EnsureSeeded(ctx, catalog.DefaultManifest()); err != nil {
		logger.Error("seed permissions", slog.Any("error", err))
		os.Exit(1)
	}
	if err := rolesService.EnsureSeeded(ctx, roles.DefaultRoles()); err != nil {
		logger.Error("seed roles", slog.Any("error", err))
		os.Exit(1)
	}
	if err := endpointsService.SyncManifest(ctx, endpoints.DefaultManifest()); err != nil {
		logger.Error("sync endpoint registry", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	engine := rbac.NewEngine(endpointsService, logger)
	guard := rbac.Guard{Engine: engine, Logger: logger, Denials: metrics}

	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	sessions := auth.NewSessionStore(redisClient, cfg.TokenTTL)
	authRepo := auth.NewRepository(pool)
	resolver := auth.NewPrincipalResolver(authRepo, auth.PrincipalSource(cfg.PrincipalSource))
	authService := auth.NewService(authRepo, tokens, sessions)
	authenticator := &auth.Authenticator{Tokens: tokens, Sessions: sessions, Resolver: resolver, Logger: logger}
	authHandler := auth.NewHandler(logger, authService, guard, auth.LoginRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow))

	auditLogger := shared.NewAuditLogger(pool)
	usersService := users.NewService(users.NewRepository(pool))

	queue := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()
	enqueueResync := func(ctx context.Context) error {
		_, err := queue.EnqueueEndpointsResync(ctx)
		return err
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Authenticator:    authenticator,
		AuthHandler:      authHandler,
		UsersHandler:     users.NewHandler(logger, usersService, guard, auditLogger),
		RolesHandler:     roles.NewHandler(logger, rolesService, guard),
		CatalogHandler:   catalog.NewHandler(logger, catalogService, guard),
		EndpointsHandler: endpoints.NewHandler(logger, endpointsService, guard, enqueueResync),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
