// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

// Command console is the entry point for the Forgeline operator console.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the session vault (file by default, Redis when configured).
//  4. Construct the MES API client with the vault as its token source.
//  5. Wire services and observable stores, then rehydrate the session.
//  6. Start the shell HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgeline/console/internal/apiclient"
	"github.com/forgeline/console/internal/auth"
	"github.com/forgeline/console/internal/notifications"
	"github.com/forgeline/console/internal/platform/config"
	"github.com/forgeline/console/internal/platform/constants"
	redisstore "github.com/forgeline/console/internal/platform/redis"
	"github.com/forgeline/console/internal/users"
	"github.com/forgeline/console/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Forgeline] console_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("session_backend", cfg.SessionBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Session Vault ──────────────────────────────────────────────────
	var vault auth.Vault
	var checkVault func() error

	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb, rerr := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, rerr, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		vault = auth.NewRedisVault(rdb, cfg.SessionKey)
		checkVault = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	default:
		fileVault := auth.NewFileVault(cfg.SessionFilePath)
		vault = fileVault
		checkVault = func() error {
			_, lerr := fileVault.Load(context.Background())
			return lerr
		}
	}

	// ── 4. MES API Client ─────────────────────────────────────────────────
	// The vault is the token source: every upstream call reads the durable
	// record, so a rotated token applies to the very next request.
	api := apiclient.New(cfg.APIBaseURL, vault)

	// ── 5. Services & Stores ──────────────────────────────────────────────
	authService := auth.NewService(api)
	usersService := users.NewService(api)
	notificationService := notifications.NewService(api)

	sessionStore := auth.NewStore(authService, usersService, vault, log)
	notificationStore := notifications.NewStore(notificationService, log)
	sessionStore.SetNotificationRefresher(notificationStore)

	sessionStore.Rehydrate(startupCtx)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	server, err := web.NewServer(startupCtx, cfg, log, web.Dependencies{
		Sessions:      sessionStore,
		Notifications: notificationStore,
		Auth:          authService,
		Users:         usersService,
		Health: web.HealthDependencies{
			CheckUpstream: upstreamChecker(cfg.APIBaseURL),
			CheckVault:    checkVault,
		},
	})
	must(log, err, "build http server")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// upstreamChecker probes the MES API base URL. Any HTTP answer counts as
// reachable — readiness cares about the wire, not the status code.
func upstreamChecker(baseURL string) func() error {
	client := &http.Client{Timeout: 3 * time.Second}
	return func() error {
		request, err := http.NewRequest(http.MethodHead, baseURL, nil)
		if err != nil {
			return err
		}
		response, err := client.Do(request)
		if err != nil {
			return err
		}
		_ = response.Body.Close()
		return nil
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
