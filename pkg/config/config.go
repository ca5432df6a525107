// Package config loads capgraph settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-capgraph/pkg/logging"
	"github.com/dd0wney/cluso-capgraph/pkg/validation"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CAPGRAPH_"

// Environments
const (
	Development = "development"
	Production  = "production"
)

// Config is the full capgraph configuration.
type Config struct {
	Environment string           `yaml:"environment"`
	LogLevel    string           `yaml:"log_level"`
	Loader      LoaderConfig     `yaml:"loader"`
	Clustering  ClusteringConfig `yaml:"clustering"`
	Community   CommunityConfig  `yaml:"community"`
	Graph       GraphConfig      `yaml:"graph"`
	Metrics     MetricsConfig    `yaml:"metrics"`
}

// LoaderConfig controls edge-list ingestion.
type LoaderConfig struct {
	// Symmetric inserts both arcs for every line.
	Symmetric     bool    `yaml:"symmetric"`
	DefaultLength float64 `yaml:"default_length"`
}

// ClusteringConfig holds the defaults for traffic cuts.
type ClusteringConfig struct {
	MaxCuts    int `yaml:"max_cuts"`
	MinTraffic int `yaml:"min_traffic"`
}

// CommunityConfig holds the defaults for community detection.
type CommunityConfig struct {
	Floor     int `yaml:"floor"`
	MaxLevels int `yaml:"max_levels"`
}

// GraphConfig holds structural checks applied after loading.
type GraphConfig struct {
	RequireSymmetric bool `yaml:"require_symmetric"`
}

// MetricsConfig controls the metrics dump.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Output is a file path, or "-" for stdout.
	Output string `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: Development,
		LogLevel:    "info",
		Loader: LoaderConfig{
			Symmetric: true,
		},
		Clustering: ClusteringConfig{
			MaxCuts:    1,
			MinTraffic: 0,
		},
		Community: CommunityConfig{
			Floor:     1,
			MaxLevels: 0,
		},
		Graph: GraphConfig{
			RequireSymmetric: false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Output:  "-",
		},
	}
}

// Load builds a configuration from the defaults, the YAML file at path (if
// path is not empty) and CAPGRAPH_* environment variables, in that order, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a configuration from YAML bytes over the defaults, without
// looking at the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("ENVIRONMENT", &c.Environment)
	str("LOG_LEVEL", &c.LogLevel)
	str("METRICS_OUTPUT", &c.Metrics.Output)

	if v, ok := lookup(EnvPrefix + "LOADER_DEFAULT_LENGTH"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sLOADER_DEFAULT_LENGTH: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Loader.DefaultLength = f
	}

	return errors.Join(
		boolean("LOADER_SYMMETRIC", &c.Loader.Symmetric),
		integer("CLUSTERING_MAX_CUTS", &c.Clustering.MaxCuts),
		integer("CLUSTERING_MIN_TRAFFIC", &c.Clustering.MinTraffic),
		integer("COMMUNITY_FLOOR", &c.Community.Floor),
		integer("COMMUNITY_MAX_LEVELS", &c.Community.MaxLevels),
		boolean("GRAPH_REQUIRE_SYMMETRIC", &c.Graph.RequireSymmetric),
		boolean("METRICS_ENABLED", &c.Metrics.Enabled),
	)
}

// Validate checks every field and reports all rejected ones.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)

	err := validation.NewConfigValidator("config").
		OneOf("environment", c.Environment, Development, Production).
		OneOf("log_level", c.LogLevel, "debug", "info", "warn", "error").
		NonNegativeFloat("loader.default_length", c.Loader.DefaultLength).
		NonNegative("clustering.max_cuts", c.Clustering.MaxCuts).
		NonNegative("clustering.min_traffic", c.Clustering.MinTraffic).
		MinInt("community.floor", c.Community.Floor, 1).
		RangeInt("community.max_levels", c.Community.MaxLevels, 0, validation.MaxLevels).
		When(c.Metrics.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("metrics.output", c.Metrics.Output)
		}).
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// NewLogger creates the logger matching the configured environment and level.
func (c *Config) NewLogger() (logging.Logger, error) {
	logger, err := logging.NewLogger(c.Environment, c.Level())
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// NewLoggerTo creates a logger writing to w: JSON in production, console
// lines otherwise.
func (c *Config) NewLoggerTo(w io.Writer) *logging.ZapLogger {
	encoding := logging.EncodingConsole
	if c.Environment == Production {
		encoding = logging.EncodingJSON
	}
	return logging.NewZapLogger(w, c.Level(), encoding)
}
