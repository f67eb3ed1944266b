package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/streetroute/internal/cache"
	"github.com/katalvlaran/streetroute/internal/history"
	"github.com/katalvlaran/streetroute/internal/logger"
	"github.com/katalvlaran/streetroute/internal/metrics"
	"github.com/katalvlaran/streetroute/internal/service"
	"github.com/katalvlaran/streetroute/internal/telemetry"
)

// stack is the wired service with everything it owns.
type stack struct {
	svc     *service.Service
	metrics *metrics.Metrics
	runs    *history.Repository
	closers []func(context.Context) error
}

// Close releases resources in reverse order of acquisition.
func (s *stack) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}

	return errors.Join(errs...)
}

// buildStack wires the service from c.cfg. Metrics are created only when
// withMetrics is set, since one-shot commands have nobody to scrape them.
func (c *CLI) buildStack(ctx context.Context, withMetrics bool) (_ *stack, err error) {
	cfg := c.cfg
	log := logger.FromContext(ctx)
	st := &stack{}
	defer func() {
		if err != nil {
			_ = st.Close(context.WithoutCancel(ctx))
		}
	}()

	base, err := cfg.Solver.RouterOptions()
	if err != nil {
		return nil, err
	}
	opts := []service.Option{service.WithTimeout(cfg.Solver.Timeout)}

	if withMetrics && cfg.Metrics.Enabled {
		st.metrics = metrics.New(cfg.Metrics.Namespace, prometheus.NewRegistry())
		st.metrics.SetServiceInfo(version, cfg.App.Environment)
		opts = append(opts, service.WithMetrics(st.metrics))
	}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version,
		Environment: cfg.App.Environment,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	st.closers = append(st.closers, tp.Shutdown)
	opts = append(opts, service.WithTracer(tp))

	if cfg.Cache.Enabled {
		store, err := cache.New(ctx, cache.FromConfig(cfg.Cache))
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		st.closers = append(st.closers, func(context.Context) error { return store.Close() })
		var copts []cache.MatrixCacheOption
		if st.metrics != nil {
			copts = append(copts, cache.WithObserver(st.metrics))
		}
		opts = append(opts, service.WithMatrixCache(cache.NewMatrixCache(store, cfg.Cache.TTL, copts...)))
		log.Debug("matrix cache enabled", slog.String("driver", cfg.Cache.Driver))
	}

	if cfg.History.Enabled {
		repo, err := c.openHistory(ctx)
		if err != nil {
			return nil, err
		}
		st.runs = repo
		st.closers = append(st.closers, func(context.Context) error { repo.Close(); return nil })
		opts = append(opts, service.WithHistory(repo))
	}

	st.svc = service.New(base, opts...)

	return st, nil
}

// openHistory connects to the history database and applies migrations
// when configured to.
func (c *CLI) openHistory(ctx context.Context) (*history.Repository, error) {
	pool, err := history.Open(ctx, c.cfg.History)
	if err != nil {
		return nil, err
	}
	if c.cfg.History.Migrate {
		if err := history.Migrate(ctx, pool); err != nil {
			pool.Close()

			return nil, err
		}
	}

	return history.NewRepository(pool), nil
}
