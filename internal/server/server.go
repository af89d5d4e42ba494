// Package server wires the HTTP API for gradeplane.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gradeplane/internal/server/handlers"
	"gradeplane/internal/server/middleware"
)

// Options configures the server beyond its handlers.
type Options struct {
	// MetricsHandler serves GET /metrics; nil disables the endpoint.
	MetricsHandler http.Handler

	// Upload rate limiting; 0 disables.
	UploadRateLimit int
	UploadRateBurst int
}

// Server is the HTTP server for the gradeplane API.
type Server struct {
	httpServer *http.Server
}

// New creates a new server with all routes registered.
func New(addr string, h *handlers.Handlers, log *slog.Logger, opts Options) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	mux.HandleFunc("POST /plans", h.CreatePlan)
	mux.HandleFunc("GET /plans", h.ListPlans)
	mux.HandleFunc("GET /plans/{plan}", h.GetPlan)
	mux.HandleFunc("PUT /plans/{plan}/prompt", h.UpdatePrompt)

	uploadLimiter := middleware.RateLimit(opts.UploadRateLimit, opts.UploadRateBurst)
	mux.Handle("POST /plans/{plan}/upload", uploadLimiter(http.HandlerFunc(h.Upload)))

	mux.HandleFunc("GET /plans/{plan}/records", h.ListRecords)
	mux.HandleFunc("GET /plans/{plan}/records/{id}", h.GetRecord)
	mux.HandleFunc("DELETE /plans/{plan}/records/{id}", h.DeleteRecord)
	mux.HandleFunc("POST /plans/{plan}/regrade", h.Regrade)

	handler := middleware.CORS(middleware.RequestID(log)(mux))

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
			// Uploads can carry several multi-megabyte images from slow
			// phone connections.
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
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
