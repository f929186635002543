// Package main is the entrypoint for the Genux API account server.
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

	"github.com/genuxhq/genux-api/internal/api"
	"github.com/genuxhq/genux-api/internal/api/handler"
	mw "github.com/genuxhq/genux-api/internal/api/middleware"
	"github.com/genuxhq/genux-api/internal/api/response"
	"github.com/genuxhq/genux-api/internal/apikey"
	"github.com/genuxhq/genux-api/internal/auth"
	"github.com/genuxhq/genux-api/internal/cache"
	"github.com/genuxhq/genux-api/internal/config"
	"github.com/genuxhq/genux-api/internal/profile"
	"github.com/genuxhq/genux-api/internal/store"
)

const shutdownTimeout = 30 * time.Second

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
	// 1. Load config — fail fast on invalid config, and in particular on a
	// missing SESSION_SECRET
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store and services
	pgStore := store.NewPostgresStore(pool)

	codec := auth.NewTokenCodec([]byte(cfg.Session.Secret), cfg.Session.TTL)
	authSvc := auth.NewService(pgStore, codec)
	keySvc := apikey.NewService(pgStore)
	profileSvc := profile.NewService(pgStore)

	cookies := handler.CookieConfig{
		Secure: cfg.IsProduction(),
		MaxAge: int(cfg.Session.TTL.Seconds()),
	}

	// 6. Build router with dependencies
	deps := api.Dependencies{
		Session:   mw.NewSession(codec),
		RateLimit: mw.NewRateLimit(redisCache, 60),

		HealthHandler:        healthHandler(pgStore, redisCache),
		RegisterHandler:      handler.NewRegisterHandler(authSvc),
		LoginHandler:         handler.NewLoginHandler(authSvc, cookies),
		LogoutHandler:        handler.NewLogoutHandler(cookies),
		CheckHandler:         handler.NewCheckHandler(authSvc),
		ProfileUpdateHandler: handler.NewProfileUpdateHandler(profileSvc),
		CreateKeyHandler:     handler.NewCreateKeyHandler(keySvc),
		ListKeysHandler:      handler.NewListKeysHandler(keySvc),
		DeleteKeyHandler:     handler.NewDeleteKeyHandler(keySvc),
		VerifyKeyHandler:     handler.NewVerifyKeyHandler(keySvc),
		CatalogHandler:       handler.NewCatalogHandler(redisCache, cfg.Catalog.Path, cfg.Catalog.CacheTTL),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "degraded",
				"services": checks,
			})
			return
		}

		response.OK(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
