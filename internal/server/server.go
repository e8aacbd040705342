// Package server exposes single and compare runs over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/pkg/models"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 256 * 1024
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// Runner executes tasks. *runner.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, spec *models.TaskSpec) (*models.TaskRunOutput, error)
	RunCompare(ctx context.Context, spec *models.TaskSpec, providers []models.Provider) (*models.CompareRunOutput, error)
	RetryFailed(ctx context.Context, spec *models.TaskSpec, prev *models.CompareRunOutput) (*models.CompareRunOutput, error)
}

// CredentialStatus reports provider credential state. *credentials.Store satisfies it.
type CredentialStatus interface {
	Has(p models.Provider) bool
	Source(p models.Provider) string
}

// HistoryRecorder stores completed runs. *history.DB satisfies it.
type HistoryRecorder interface {
	Save(e *history.Entry) error
}

// RequiredConfig holds the collaborators every server needs.
type RequiredConfig struct {
	Runner      Runner
	Credentials CredentialStatus
}

// Option configures optional server behavior.
type Option func(*Server)

// WithDefaults sets the values used for fields a request leaves empty.
func WithDefaults(d models.TaskRequest) Option {
	return func(s *Server) {
		s.defaults = d
	}
}

// WithHistory records every successful run in h.
func WithHistory(h HistoryRecorder) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithRedactor filters error detail before it is returned to clients.
func WithRedactor(fn func(string) string) Option {
	return func(s *Server) {
		s.redact = fn
	}
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// Server serves the HTTP API.
type Server struct {
	runner   Runner
	creds    CredentialStatus
	history  HistoryRecorder
	defaults models.TaskRequest
	redact   func(string) string
	version  string
}

// New creates a Server.
func New(req RequiredConfig, opts ...Option) *Server {
	s := &Server{
		runner: req.Runner,
		creds:  req.Credentials,
		redact: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(requestIDHeader)
	r.Use(logging)
	r.Use(chimw.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/run", s.handleRun)
		r.Post("/compare", s.handleCompare)
		r.Get("/providers", s.handleProviders)
	})

	return r
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("[server] stopped")
	return nil
}
