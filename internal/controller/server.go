// Package controller wires the booking API's routes and HTTP server.
package controller

import (
	"context"
	"net/http"
	"time"

	"dtapi/internal/config"
	"dtapi/internal/controller/handlers"
	"dtapi/internal/controller/middleware"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server is the HTTP server for the booking API.
type Server struct {
	httpServer *http.Server
}

// New creates a new API server. metricsHandler may be nil.
func New(addr string, store handlers.StoreFactory, cfg *config.Config, metricsHandler http.Handler, opts ...handlers.Option) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewHandler(store, cfg, metricsHandler, opts...),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// NewHandler builds the routed and instrumented handler of the API.
func NewHandler(store handlers.StoreFactory, cfg *config.Config, metricsHandler http.Handler, opts ...handlers.Option) http.Handler {
	opts = append([]handlers.Option{handlers.WithRoles(cfg.AdminRoleID, cfg.SuperAdminRoleID)}, opts...)
	h := handlers.New(store, opts...)

	authMW := middleware.AuthMiddleware(store)
	rateMW := middleware.NewRateLimiter(
		middleware.WithLimit(cfg.RateLimit, cfg.RateLimitBurst),
		middleware.WithTTL(5*time.Minute),
	).Middleware()

	// Authenticated user API
	protected := func(op string, fn http.HandlerFunc) http.Handler {
		return authMW(rateMW(h.Instrument(op, fn)))
	}

	mux := http.NewServeMux()

	mux.Handle("GET /jobs", protected(handlers.OpListJobs, h.ListJobs))
	mux.Handle("POST /jobs", protected(handlers.OpCreateJob, h.CreateJob))
	mux.Handle("GET /jobs/{id}", protected(handlers.OpGetJob, h.GetJob))
	mux.Handle("PUT /jobs/{id}", protected(handlers.OpUpdateJob, h.UpdateJob))
	mux.Handle("PATCH /jobs/{id}", protected(handlers.OpUpdateJob, h.UpdateJob))
	mux.Handle("POST /jobs/email", protected(handlers.OpJobEmail, h.SendImmediateJobEmail))
	mux.Handle("GET /jobs/history", protected(handlers.OpJobHistory, h.GetJobHistory))
	mux.Handle("POST /jobs/accept", protected(handlers.OpAcceptJob, h.AcceptJob))

	// The feed is pushed by an external system; with a shared secret
	// configured it does not need a user token.
	if cfg.FeedSecret != "" {
		mux.Handle("POST /jobs/distance-feed",
			middleware.RequireSharedSecret(cfg.FeedSecret)(h.Instrument(handlers.OpDistanceFeed, h.DistanceFeed)))
	} else {
		mux.Handle("POST /jobs/distance-feed", protected(handlers.OpDistanceFeed, h.DistanceFeed))
	}

	// Probes
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return middleware.RequestID(otelhttp.NewHandler(mux, "dtapi"))
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
