// Package core provides the API chassis for the listing relay. It creates a
// chi router and enforces cross-cutting concerns -- panic recovery, request
// correlation, structured logging, and error handling -- before requests
// reach domain-specific handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"listingrelay/internal/config"
)

// RouteRegistrar attaches a group of domain routes to the router. The
// indirection avoids import cycles between core and handler packages:
// handler packages depend on core for response utilities, and main wires
// their routes in through registrars.
type RouteRegistrar func(r chi.Router)

// Server encapsulates the chassis dependencies for the relay API, allowing
// for easy injection during testing.
type Server struct {
	Config *config.Config
	Logger *slog.Logger

	// RouteRegistrars are mounted under the router root by MountRoutes.
	RouteRegistrars []RouteRegistrar

	router *chi.Mux
}

// NewServer initializes the chassis and prepares the server for route
// mounting. It performs a fail-fast check on critical dependencies. The
// caller is responsible for appending RouteRegistrars and calling
// MountRoutes afterwards.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		router: chi.NewRouter(),
	}, nil
}

// MountRoutes registers the global middleware chain, the domain route
// registrars, and the health endpoint.
//
// Middleware ordering:
//  1. Recoverer     - outermost so every panic is caught.
//  2. RequestID     - correlation ID for logs and responses.
//  3. RequestLogger - structured request logging (redacted headers).
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))

	for _, registrar := range s.RouteRegistrars {
		registrar(s.router)
	}

	s.router.Get("/health", s.HandleHealth)
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown performs a graceful termination of server-held resources.
// The HTTP listener itself is owned and drained by main.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown complete")
	return nil
}
