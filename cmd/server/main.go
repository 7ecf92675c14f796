// Package main is the entrypoint for the weddingdesk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/weddingdesk/internal/access"
	"github.com/kiranshivaraju/weddingdesk/internal/api"
	"github.com/kiranshivaraju/weddingdesk/internal/api/handler"
	mw "github.com/kiranshivaraju/weddingdesk/internal/api/middleware"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
	"github.com/kiranshivaraju/weddingdesk/internal/cache"
	"github.com/kiranshivaraju/weddingdesk/internal/config"
	"github.com/kiranshivaraju/weddingdesk/internal/layout"
	"github.com/kiranshivaraju/weddingdesk/internal/store"
	"github.com/kiranshivaraju/weddingdesk/internal/vendor"
)

const (
	shutdownTimeout = 30 * time.Second
	migrationsDir   = "migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	if err := store.RunMigrations(cfg.Database.URL, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	pgStore := store.NewPostgresStore(pool)

	accessSvc := access.NewService(pgStore, access.WithTTL(cfg.Access.CredentialTTL))
	sessions := access.NewSessions(cfg.Access.SessionSecret, cfg.Access.SessionTTL)
	generator := layout.NewGenerator(pgStore,
		layout.WithOrigin(cfg.Layout.DefaultX, cfg.Layout.DefaultY),
		layout.WithTemplateCache(redisCache, cfg.Layout.TemplateCacheTTL),
	)
	vendorSvc := vendor.NewService(pgStore)

	router := api.NewRouter(dependencies(cfg, pgStore, redisCache, accessSvc, sessions, generator, vendorSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// dependencies wires services into handlers and middleware.
func dependencies(
	cfg *config.Config,
	st store.Store,
	c cache.Cache,
	accessSvc *access.Service,
	sessions *access.Sessions,
	generator *layout.Generator,
	vendorSvc *vendor.Service,
) api.Dependencies {
	lh := handler.NewLayout(generator)
	kh := handler.NewKeys(st)

	return api.Dependencies{
		Auth:          mw.NewAuth(st),
		RateLimit:     mw.NewRateLimit(c, cfg.Server.RateLimitPerMinute),
		VendorSession: mw.NewVendorSession(sessions),
		CORSOrigins:   cfg.Server.CORSAllowedOrigins,

		HealthHandler: healthHandler(st, c),

		VendorLogin:   handler.NewVendorLoginHandler(accessSvc, sessions),
		GetProfile:    handler.NewGetProfileHandler(vendorSvc),
		UpdateProfile: handler.NewUpdateProfileHandler(vendorSvc),

		ListTemplates:  lh.ListTemplates,
		AddTable:       lh.AddTable,
		ListTables:     lh.ListTables,
		DeleteTable:    lh.DeleteTable,
		ListChairs:     lh.ListChairs,
		RecreateChairs: lh.RecreateChairs,

		IssueAccess:      handler.NewIssueAccessHandler(accessSvc),
		CreateKeyHandler: kh.Create,
		ListKeysHandler:  kh.List,
		RevokeKeyHandler: kh.Revoke,
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler checks database and cache connectivity.
func healthHandler(db, c pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := db.Ping(r.Context()); err != nil {
			slog.Warn("health check: database", "error", err)
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			slog.Warn("health check: cache", "error", err)
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
