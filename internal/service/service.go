// Package service runs solves for the CLI and the HTTP API: it assigns a
// run ID, applies configured options, traces each solve, records metrics
// and persists the run.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/internal/apperror"
	"github.com/katalvlaran/streetroute/internal/cache"
	"github.com/katalvlaran/streetroute/internal/history"
	"github.com/katalvlaran/streetroute/internal/logger"
	"github.com/katalvlaran/streetroute/internal/metrics"
	"github.com/katalvlaran/streetroute/internal/telemetry"
	"github.com/katalvlaran/streetroute/route"
	"github.com/katalvlaran/streetroute/router"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

// Recorder persists runs; *history.Repository implements it.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Service executes solves.
type Service struct {
	base     []router.Option
	timeout  time.Duration
	matrices *cache.MatrixCache
	metrics  *metrics.Metrics
	tracer   *telemetry.Provider
	history  Recorder
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each solve; 0 disables the bound.
func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

// WithMatrixCache serves node-visit distance matrices from c.
func WithMatrixCache(c *cache.MatrixCache) Option { return func(s *Service) { s.matrices = c } }

// WithMetrics records every solve on m.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithTracer traces solves on p.
func WithTracer(p *telemetry.Provider) Option { return func(s *Service) { s.tracer = p } }

// WithHistory persists every run on r.
func WithHistory(r Recorder) Option { return func(s *Service) { s.history = r } }

// New creates a service whose solves start from base.
func New(base []router.Option, opts ...Option) *Service {
	s := &Service{base: base, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Request is one solve.
type Request struct {
	Mode   router.Mode
	Graph  *core.Graph
	Start  string
	Nodes  []string
	Params Params

	// Expand also returns the turn-by-turn expansion of the route.
	Expand bool
}

// Outcome is a finished solve.
type Outcome struct {
	RunID     string
	Result    *router.Result
	Expansion *tsp.Expansion
}

// Solve runs req. Errors are *apperror.Error values carrying the run ID.
//
// The algorithm packages do not observe ctx; when ctx ends first Solve
// returns its error and the abandoned computation finishes in the
// background.
func (s *Service) Solve(ctx context.Context, req Request) (*Outcome, error) {
	runID := s.newID()
	log := logger.WithRunID(logger.FromContext(ctx), runID).With(slog.String("mode", req.Mode.String()))
	ctx = logger.WithContext(ctx, log)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	nodes, edges := 0, 0
	if req.Graph != nil {
		nodes, edges = req.Graph.VertexCount(), req.Graph.EdgeCount()
	}
	ctx, span := s.tracer.StartSpan(ctx, "streetroute.solve",
		telemetry.GraphAttributes(nodes, edges, len(req.Nodes))...)
	defer span.End()
	telemetry.SetAttributes(ctx, telemetry.RunAttributes(runID, req.Mode.String())...)

	log.Info("solve started", slog.Int("nodes", nodes), slog.Int("edges", edges), slog.Int("stops", len(req.Nodes)))
	began := time.Now()

	res, err := s.run(ctx, req)
	elapsed := time.Since(began)
	out := &Outcome{RunID: runID, Result: res}
	if err == nil && req.Expand {
		var x tsp.Expansion
		if x, err = router.Expand(res); err == nil {
			out.Expansion = &x
		}
	}

	s.observe(ctx, runID, req, res, err, elapsed)
	if err != nil {
		telemetry.SetError(ctx, err)
		ae := apperror.FromDomain(err).WithDetails("run_id", runID)
		log.Error("solve failed", slog.String("code", string(ae.Code)), slog.Any("error", err))

		return nil, ae
	}

	telemetry.SetAttributes(ctx, telemetry.RouteAttributes(res.Weight(), res.Stats.Hops,
		res.Stats.DuplicatedEdges, res.WasDisconnected)...)
	for _, w := range res.Warnings {
		log.Warn(w)
	}
	log.Info("solve finished",
		slog.Float64("weight", res.Weight()),
		slog.Int("hops", res.Stats.Hops),
		slog.Duration("elapsed", elapsed))

	return out, nil
}

func (s *Service) run(ctx context.Context, req Request) (*router.Result, error) {
	overrides, err := req.Params.RouterOptions()
	if err != nil {
		return nil, err
	}
	opts := append(append([]router.Option(nil), s.base...), overrides...)
	if s.matrices != nil {
		opts = append(opts, router.WithMatrixFunc(s.matrices.MatrixFunc(ctx)))
	}
	rreq := router.Request{Mode: req.Mode, Graph: req.Graph, Start: req.Start, Nodes: req.Nodes, Options: opts}

	type result struct {
		res *router.Result
		err error
	}
	done := make(chan result, 1)
	go func() {
		r, e := router.Solve(rreq)
		done <- result{r, e}
	}()
	select {
	case r := <-done:
		return r.res, r.err
	case <-ctx.Done():
		return nil, apperror.Wrap(ctx.Err(), apperror.CodeInternal, "solve aborted: "+ctx.Err().Error())
	}
}

// ExpandRequest expands a stop sequence over a graph.
type ExpandRequest struct {
	Graph     *core.Graph
	Stops     []string
	Traversal core.Traversal
}

// ExpandStops computes the distance matrix over the distinct stops (from
// the cache when configured) and expands the stop sequence along it.
func (s *Service) ExpandStops(ctx context.Context, req ExpandRequest) (tsp.Expansion, error) {
	ctx, span := s.tracer.StartSpan(ctx, "streetroute.expand")
	defer span.End()
	if req.Graph == nil {
		return tsp.Expansion{}, apperror.FromDomain(router.ErrNilGraph)
	}

	compute := router.MatrixFunc(shortestpath.AllPairs)
	if s.matrices != nil {
		compute = s.matrices.MatrixFunc(ctx)
	}
	m, err := compute(req.Graph, req.Stops, shortestpath.WithTraversal(req.Traversal))
	if err != nil {
		telemetry.SetError(ctx, err)

		return tsp.Expansion{}, apperror.FromDomain(err)
	}
	x, err := tsp.ExpandRoute(route.New(req.Stops, 0), m)
	if err != nil {
		telemetry.SetError(ctx, err)

		return tsp.Expansion{}, apperror.FromDomain(err)
	}

	return x, nil
}

func (s *Service) observe(ctx context.Context, runID string, req Request, res *router.Result, err error, elapsed time.Duration) {
	run := &history.Run{
		ID:        runID,
		Mode:      req.Mode.String(),
		Traversal: traversalOf(s.base, req.Params),
		Start:     req.Start,
		Status:    history.StatusSucceeded,
		ElapsedMs: float64(elapsed.Microseconds()) / 1000,
	}
	if req.Graph != nil {
		run.Nodes, run.Edges = req.Graph.VertexCount(), req.Graph.EdgeCount()
		run.GraphHash = req.Graph.Fingerprint()
	}
	if err != nil {
		run.Status = history.StatusFailed
		run.ErrorCode = string(apperror.CodeOf(err))
	} else {
		run.Start = res.Start
		run.Weight = res.Weight()
		run.Stops = res.Stats.Stops
		run.Hops = res.Stats.Hops
		run.DuplicatedEdges = res.Stats.DuplicatedEdges
		run.WasDisconnected = res.WasDisconnected
	}

	if s.metrics != nil {
		s.metrics.RecordSolve(metrics.SolveRecord{
			Mode:            run.Mode,
			Success:         err == nil,
			Duration:        elapsed,
			Weight:          run.Weight,
			Nodes:           run.Nodes,
			Edges:           run.Edges,
			DuplicatedEdges: run.DuplicatedEdges,
			Disconnected:    run.WasDisconnected,
		})
	}
	if s.history == nil {
		return
	}
	herr := s.history.Record(context.WithoutCancel(ctx), run)
	if s.metrics != nil {
		s.metrics.HistoryWrite(herr)
	}
	if herr != nil {
		logger.FromContext(ctx).Warn("run not recorded", slog.Any("error", herr))
	}
}

// traversalOf reports the traversal a solve ran under.
func traversalOf(base []router.Option, p Params) string {
	o := router.DefaultOptions()
	for _, opt := range base {
		opt(&o)
	}
	if extra, err := p.RouterOptions(); err == nil {
		for _, opt := range extra {
			opt(&o)
		}
	}

	return o.Traversal.String()
}

// IsClientError reports whether err stems from the request rather than the
// service.
func IsClientError(err error) bool {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		return false
	}

	return ae.HTTPStatus() < 500
}
