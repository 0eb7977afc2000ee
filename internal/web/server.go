// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/forgeline/console/internal/auth"
	"github.com/forgeline/console/internal/notifications"
	"github.com/forgeline/console/internal/platform/config"
	"github.com/forgeline/console/internal/platform/constants"
	"github.com/forgeline/console/internal/platform/middleware"
	"github.com/forgeline/console/internal/users"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Dependencies groups everything the shell needs to serve requests.
type Dependencies struct {
	// Sessions is the observable session store guarding the dashboard.
	Sessions *auth.Store

	// Notifications is the panel's page cache.
	Notifications *notifications.Store

	// Auth covers the flows that run outside a session (verify, reset).
	Auth *auth.Service

	// Users serves profile and user-list pages.
	Users *users.Service

	// Health holds the readiness probes for /ready.
	Health HealthDependencies
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies) (*Server, error) {
	templates, err := newTemplateSet(log)
	if err != nil {
		return nil, err
	}

	pages := NewPageHandler(deps.Sessions, deps.Auth, deps.Users, templates, log)
	panel := NewPanelHandler(deps.Sessions, deps.Notifications, deps.Auth)
	liveness, readiness := NewHealthHandlers(deps.Health, log)

	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", liveness)
	r.Get("/ready", readiness)
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	// # Public Pages
	r.Get("/", pages.Landing)
	r.Get("/verify-email/{token}", pages.VerifyEmail)
	r.Post("/resend-verification", pages.ResendVerification)
	r.Get("/forgot-password", pages.ForgotPasswordForm)
	r.Post("/forgot-password", pages.ForgotPassword)
	r.Get("/shell/verification/status/{email}", panel.VerificationStatus)

	// Signed-in operators skip the entry forms entirely.
	r.Group(func(public chi.Router) {
		public.Use(RedirectIfAuthenticated(deps.Sessions))
		public.Get("/login", pages.LoginForm)
		public.Post("/login", pages.Login)
		public.Get("/signup", pages.SignupForm)
		public.Post("/signup", pages.Signup)
	})

	// # Guarded Surface
	r.Group(func(guarded chi.Router) {
		guarded.Use(RequireSession(deps.Sessions))

		guarded.Get("/dashboard", pages.Dashboard)
		guarded.Get("/dashboard/users", pages.UserList)
		guarded.Get("/dashboard/users/{id}", pages.UserDetail)
		guarded.Get("/dashboard/profile", pages.Profile)
		guarded.Post("/dashboard/profile", pages.UpdateProfile)
		guarded.Get("/dashboard/{section}", pages.ComingSoon)
		guarded.Post("/logout", pages.Logout)

		guarded.Get("/shell/session", panel.Session)
		guarded.Get("/shell/notifications", panel.List)
		guarded.Post("/shell/notifications/{id}/read", panel.MarkRead)
		guarded.Post("/shell/notifications/read-all", panel.MarkAllRead)
		guarded.Delete("/shell/notifications/{id}", panel.Delete)
		guarded.Delete("/shell/notifications", panel.Clear)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}, nil
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
