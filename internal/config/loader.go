package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "STREETROUTE_"
	configEnvVar = "STREETROUTE_CONFIG"
)

// ErrConfigNotFound is returned when an explicitly requested file is missing.
var ErrConfigNotFound = errors.New("config: file not found")

// Loader merges defaults, an optional YAML file and the environment.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	explicit    string
	envPrefix   string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// NewLoader creates a loader searching the default paths.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"streetroute.yaml",
			"config/streetroute.yaml",
			"/etc/streetroute/config.yaml",
		},
		envPrefix: envPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithConfigPaths replaces the search paths. Missing files are skipped.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

// WithConfigFile names a file that must exist.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) { l.explicit = path }
}

// WithEnvPrefix sets the environment prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// Load applies, lowest priority first: defaults, the config file,
// environment variables. The result is validated.
func (l *Loader) Load() (*Config, error) {
	if err := l.k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := l.loadConfigFile(); err != nil {
		return nil, err
	}
	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "streetroute",
		"app.environment": "development",

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stderr",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		"solver.traversal":                 "undirected",
		"solver.matching":                  "blossom",
		"solver.tour":                      "christofides",
		"solver.workers":                   0,
		"solver.relocate_start":            false,
		"solver.weak_repair":               false,
		"solver.repair_for_node_visit":     false,
		"solver.two_opt":                   0,
		"solver.nearest_neighbor_fallback": false,
		"solver.timeout":                   60 * time.Second,

		"cache.enabled":     false,
		"cache.driver":      "memory",
		"cache.addr":        "localhost:6379",
		"cache.db":          0,
		"cache.ttl":         10 * time.Minute,
		"cache.max_entries": 256,

		"metrics.enabled":   true,
		"metrics.namespace": "streetroute",
		"metrics.path":      "/metrics",

		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.insecure":     true,
		"tracing.service_name": "streetroute",
		"tracing.sample_ratio": 0.1,

		"http.addr":             ":8080",
		"http.read_timeout":     30 * time.Second,
		"http.write_timeout":    120 * time.Second,
		"http.shutdown_timeout": 10 * time.Second,
		"http.max_body_bytes":   32 << 20,

		"history.enabled":   false,
		"history.migrate":   true,
		"history.max_conns": 8,
	}
}

func (l *Loader) loadConfigFile() error {
	path := l.explicit
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		return l.k.Load(file.Provider(path), yaml.Parser())
	}

	for _, p := range l.configPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			return l.k.Load(file.Provider(abs), yaml.Parser())
		}
	}

	return nil
}

// loadEnv maps STREETROUTE_<SECTION>_<FIELD> to section.field; the field
// keeps its underscores, so STREETROUTE_SOLVER_RELOCATE_START sets
// solver.relocate_start.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))
		section, field, ok := strings.Cut(key, "_")
		if !ok || field == "" {
			return "", nil
		}

		return section + "." + field, value
	}), nil)
}

// Load loads the configuration with the default search paths.
func Load() (*Config, error) {
	return NewLoader().Load()
}
