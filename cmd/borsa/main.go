package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"borsa/internal/config"
	"borsa/internal/finance"
	"borsa/internal/finance/memory"
	"borsa/internal/finance/rest"
	apphttp "borsa/internal/http"
	applog "borsa/internal/log"
	"borsa/internal/session"
)

func main() {
	// Local development config, ignored when the file is absent.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpStartup)
		os.Exit(1)
	}

	var backend finance.Backend
	switch cfg.Backend {
	case "rest":
		backend = rest.New(cfg.BackendURL)
		logger.Info("Using REST backend",
			applog.FieldBackend, cfg.Backend,
			"url", cfg.BackendURL)
	default:
		backend = memory.New()
		logger.Info("Using in-memory backend", applog.FieldBackend, cfg.Backend)
	}

	sessions, err := session.NewSQLiteStore(cfg.SessionDBPath)
	if err != nil {
		logger.Error("Failed to open session store",
			applog.FieldError, err,
			"path", cfg.SessionDBPath,
			applog.FieldOperation, applog.OpStartup)
		os.Exit(1)
	}
	defer sessions.Close()

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Backend:            backend,
		Sessions:           sessions,
		Logger:             logger,
		SessionTTL:         cfg.SessionTTL,
		CacheTTL:           cfg.CacheTTL,
		CacheMaxSize:       cfg.CacheMaxSize,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		DefaultLanguage:    cfg.DefaultLanguage,
	})
	if err != nil {
		logger.Error("Failed to build server",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpStartup)
		os.Exit(1)
	}

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Expired sessions pile up without a reaper.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := sessions.DeleteExpired(context.Background()); err != nil {
					logger.Warn("Session cleanup failed", applog.FieldError, err)
				} else if n > 0 {
					logger.Info("Expired sessions removed", "count", n)
				}
			}
		}
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received",
			"signal", sig.String(),
			applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting borsa server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.Backend,
		applog.FieldOperation, applog.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
