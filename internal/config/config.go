// Package config holds the process configuration of the streetroute
// binaries and turns it into solver options.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/internal/logger"
	"github.com/katalvlaran/streetroute/matching"
	"github.com/katalvlaran/streetroute/router"
	"github.com/katalvlaran/streetroute/tsp"
)

// Config is the root configuration.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     logger.Config `koanf:"log"`
	Solver  SolverConfig  `koanf:"solver"`
	Cache   CacheConfig   `koanf:"cache"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
	HTTP    HTTPConfig    `koanf:"http"`
	History HistoryConfig `koanf:"history"`
}

// AppConfig identifies the deployment.
type AppConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"environment"` // development, staging, production
}

// SolverConfig maps onto router.Options.
type SolverConfig struct {
	Traversal               string        `koanf:"traversal"` // undirected, directed
	Matching                string        `koanf:"matching"`  // blossom, greedy
	Tour                    string        `koanf:"tour"`      // christofides, nearest_neighbor
	Workers                 int           `koanf:"workers"`
	RelocateStart           bool          `koanf:"relocate_start"`
	WeakRepair              bool          `koanf:"weak_repair"`
	RepairForNodeVisit      bool          `koanf:"repair_for_node_visit"`
	TwoOpt                  int           `koanf:"two_opt"`
	NearestNeighborFallback bool          `koanf:"nearest_neighbor_fallback"`
	Timeout                 time.Duration `koanf:"timeout"`
}

// CacheConfig configures the distance-matrix cache.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // memory, redis
	Addr       string        `koanf:"addr"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// MetricsConfig configures Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	Path      string `koanf:"path"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Insecure    bool    `koanf:"insecure"`
	ServiceName string  `koanf:"service_name"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// HistoryConfig configures run persistence in PostgreSQL.
type HistoryConfig struct {
	Enabled  bool   `koanf:"enabled"`
	DSN      string `koanf:"dsn"`
	Migrate  bool   `koanf:"migrate"`
	MaxConns int32  `koanf:"max_conns"`
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true, "pretty": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of: json, text, pretty, got %s", c.Log.Format))
	}
	if c.Log.Output == "file" && c.Log.FilePath == "" {
		errs = append(errs, "log.file_path is required when log.output is file")
	}
	if _, err := c.Solver.RouterOptions(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Solver.Workers < 0 {
		errs = append(errs, fmt.Sprintf("solver.workers must be non-negative, got %d", c.Solver.Workers))
	}
	if c.Solver.TwoOpt < 0 {
		errs = append(errs, fmt.Sprintf("solver.two_opt must be non-negative, got %d", c.Solver.TwoOpt))
	}
	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "memory":
		case "redis":
			if c.Cache.Addr == "" {
				errs = append(errs, "cache.addr is required for the redis driver")
			}
		default:
			errs = append(errs, fmt.Sprintf("cache.driver must be one of: memory, redis, got %s", c.Cache.Driver))
		}
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Sprintf("tracing.sample_ratio must be within [0,1], got %g", c.Tracing.SampleRatio))
	}
	if c.History.Enabled && c.History.DSN == "" {
		errs = append(errs, "history.dsn is required when history is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// RouterOptions converts the solver section into router options. The
// distance-matrix hook is left to the caller.
func (s SolverConfig) RouterOptions() ([]router.Option, error) {
	trav, err := core.ParseTraversal(s.Traversal)
	if err != nil {
		return nil, fmt.Errorf("solver.traversal: %w", err)
	}
	m, err := matching.ParseAlgorithm(s.Matching)
	if err != nil {
		return nil, fmt.Errorf("solver.matching: %w", err)
	}
	tour, err := tsp.ParseAlgorithm(s.Tour)
	if err != nil {
		return nil, fmt.Errorf("solver.tour: %w", err)
	}

	return []router.Option{
		router.WithTraversal(trav),
		router.WithMatching(m),
		router.WithTourAlgorithm(tour),
		router.WithWorkers(s.Workers),
		router.WithRelocateStart(s.RelocateStart),
		router.WithWeakRepair(s.WeakRepair),
		router.WithRepairForNodeVisit(s.RepairForNodeVisit),
		router.WithTwoOpt(s.TwoOpt),
		router.WithNearestNeighborFallback(s.NearestNeighborFallback),
	}, nil
}

// IsProduction reports a production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
