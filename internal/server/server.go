// Package server exposes the solvers over HTTP.
//
// Routes:
//
//	POST /v1/routes/edge-coverage   cover every street, return to start
//	POST /v1/routes/node-visit      visit a set of nodes, return to start
//	POST /v1/routes/expand          expand a stop sequence turn by turn
//	GET  /v1/solvers                describe both modes
//	GET  /v1/runs, /v1/runs/{id}    run history (when configured)
//	GET  /healthz, /readyz          probes
//	GET  /metrics                   Prometheus (when configured)
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/katalvlaran/streetroute/internal/config"
	"github.com/katalvlaran/streetroute/internal/history"
	"github.com/katalvlaran/streetroute/internal/logger"
	"github.com/katalvlaran/streetroute/internal/metrics"
	"github.com/katalvlaran/streetroute/internal/service"
)

// RunStore reads run history; *history.Repository implements it.
type RunStore interface {
	Get(ctx context.Context, id string) (*history.Run, error)
	List(ctx context.Context, opts history.ListOptions) ([]*history.Run, int64, error)
	Ping(ctx context.Context) error
}

// Server is the HTTP front end of a service.Service.
type Server struct {
	cfg         config.HTTPConfig
	svc         *service.Service
	metrics     *metrics.Metrics
	metricsPath string
	runs        RunStore
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics instruments requests and serves m at path.
func WithMetrics(m *metrics.Metrics, path string) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
	}
}

// WithRuns serves run history from r.
func WithRuns(r RunStore) Option { return func(s *Server) { s.runs = r } }

// New creates a server for svc.
func New(cfg config.HTTPConfig, svc *service.Service, opts ...Option) *Server {
	s := &Server{cfg: cfg, svc: svc, metricsPath: "/metrics"}
	for _, opt := range opts {
		opt(s)
	}
	if s.metricsPath == "" {
		s.metricsPath = "/metrics"
	}

	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(instrument(s.metrics))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.metrics != nil {
		r.Method(http.MethodGet, s.metricsPath, s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/solvers", s.handleSolvers)
		r.Group(func(r chi.Router) {
			r.Use(limitBody(s.cfg.MaxBodyBytes))
			r.Post("/routes/edge-coverage", s.handleEdgeCoverage)
			r.Post("/routes/node-visit", s.handleNodeVisit)
			r.Post("/routes/expand", s.handleExpand)
		})
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return r
}

// Run serves until ctx is done, then shuts down within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Log.Info("http server listening", slog.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down http server")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Log.Info("http server stopped")

	return nil
}
