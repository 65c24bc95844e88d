// Package server provides the HTTP server and routing for the marketplace
// price analysis service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	notificationhandlers "github.com/eyaachaabene/agrimarket/internal/modules/notifications/handlers"
	pricinghandlers "github.com/eyaachaabene/agrimarket/internal/modules/pricing/handlers"
)

// Config holds server configuration
type Config struct {
	Log                  zerolog.Logger
	Port                 int
	PricingHandlers      *pricinghandlers.Handler
	NotificationHandlers *notificationhandlers.Handler
}

// Server represents the HTTP server
type Server struct {
	router               *chi.Mux
	server               *http.Server
	log                  zerolog.Logger
	systemHandlers       *SystemHandlers
	pricingHandlers      *pricinghandlers.Handler
	notificationHandlers *notificationhandlers.Handler
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:               chi.NewRouter(),
		log:                  cfg.Log.With().Str("component", "server").Logger(),
		systemHandlers:       NewSystemHandlers(cfg.Log),
		pricingHandlers:      cfg.PricingHandlers,
		notificationHandlers: cfg.NotificationHandlers,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Cron-Secret", "X-User-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		s.pricingHandlers.RegisterRoutes(r)
		s.notificationHandlers.RegisterRoutes(r)

		r.Get("/system/health", s.systemHandlers.HandleHealth)
	})

	// Plain liveness probe outside the /api tree
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
