package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-capgraph/pkg/logging"
	"github.com/dd0wney/cluso-capgraph/pkg/validation"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, Development, cfg.Environment)
	assert.True(t, cfg.Loader.Symmetric)
	assert.Equal(t, 1, cfg.Clustering.MaxCuts)
	assert.Equal(t, 1, cfg.Community.Floor)
	assert.Equal(t, logging.InfoLevel, cfg.Level())
}

func TestParse(t *testing.T) {
	data := []byte(`
environment: production
log_level: WARN
loader:
  symmetric: false
  default_length: 1.5
clustering:
  max_cuts: 3
  min_traffic: 2
community:
  floor: 2
  max_levels: 4
graph:
  require_symmetric: true
metrics:
  enabled: true
  output: metrics.prom
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, logging.WarnLevel, cfg.Level())
	assert.False(t, cfg.Loader.Symmetric)
	assert.Equal(t, 1.5, cfg.Loader.DefaultLength)
	assert.Equal(t, ClusteringConfig{MaxCuts: 3, MinTraffic: 2}, cfg.Clustering)
	assert.Equal(t, CommunityConfig{Floor: 2, MaxLevels: 4}, cfg.Community)
	assert.True(t, cfg.Graph.RequireSymmetric)
	assert.Equal(t, MetricsConfig{Enabled: true, Output: "metrics.prom"}, cfg.Metrics)
}

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("clustering:\n  max_cuts: 5\n"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Clustering.MaxCuts)
	assert.True(t, cfg.Loader.Symmetric)
	assert.Equal(t, "-", cfg.Metrics.Output)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown environment", "environment: staging\n"},
		{"unknown log level", "log_level: verbose\n"},
		{"negative cuts", "clustering:\n  max_cuts: -1\n"},
		{"zero floor", "community:\n  floor: 0\n"},
		{"too many levels", "community:\n  max_levels: 100\n"},
		{"negative length", "loader:\n  default_length: -2\n"},
		{"metrics without output", "metrics:\n  enabled: true\n  output: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse([]byte("clustering: [oops"))
	assert.Error(t, err)
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Environment = "staging"
	cfg.Community.Floor = 0
	cfg.Community.MaxLevels = 65
	cfg.Clustering.MinTraffic = -1

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)

	var fe *validation.FieldError
	require.ErrorAs(t, err, &fe)
	for _, field := range []string{"config.environment", "config.community.floor", "config.community.max_levels", "config.clustering.min_traffic"} {
		assert.Contains(t, err.Error(), field)
	}
	assert.NotContains(t, err.Error(), "config.log_level")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()

	err := cfg.applyEnv(envMap(map[string]string{
		"CAPGRAPH_ENVIRONMENT":             "production",
		"CAPGRAPH_LOG_LEVEL":               "debug",
		"CAPGRAPH_LOADER_SYMMETRIC":        "false",
		"CAPGRAPH_LOADER_DEFAULT_LENGTH":   "2",
		"CAPGRAPH_CLUSTERING_MAX_CUTS":     "7",
		"CAPGRAPH_CLUSTERING_MIN_TRAFFIC":  "3",
		"CAPGRAPH_COMMUNITY_FLOOR":         "4",
		"CAPGRAPH_COMMUNITY_MAX_LEVELS":    "2",
		"CAPGRAPH_GRAPH_REQUIRE_SYMMETRIC": "true",
		"CAPGRAPH_METRICS_ENABLED":         "1",
		"CAPGRAPH_METRICS_OUTPUT":          "/tmp/out.prom",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Production, cfg.Environment)
	assert.Equal(t, logging.DebugLevel, cfg.Level())
	assert.False(t, cfg.Loader.Symmetric)
	assert.Equal(t, 2.0, cfg.Loader.DefaultLength)
	assert.Equal(t, 7, cfg.Clustering.MaxCuts)
	assert.Equal(t, 3, cfg.Clustering.MinTraffic)
	assert.Equal(t, 4, cfg.Community.Floor)
	assert.Equal(t, 2, cfg.Community.MaxLevels)
	assert.True(t, cfg.Graph.RequireSymmetric)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/tmp/out.prom", cfg.Metrics.Output)
}

func TestApplyEnv_Malformed(t *testing.T) {
	cfg := Default()

	err := cfg.applyEnv(envMap(map[string]string{
		"CAPGRAPH_CLUSTERING_MAX_CUTS": "many",
		"CAPGRAPH_METRICS_ENABLED":     "perhaps",
	}))

	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "CAPGRAPH_CLUSTERING_MAX_CUTS")
	assert.Contains(t, err.Error(), "CAPGRAPH_METRICS_ENABLED")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("community:\n  floor: 3\n"), 0o600))
	t.Setenv("CAPGRAPH_CLUSTERING_MAX_CUTS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Community.Floor)
	assert.Equal(t, 9, cfg.Clustering.MaxCuts)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "error"

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logging.ErrorLevel, logger.GetLevel())
}

func TestNewLoggerTo(t *testing.T) {
	cfg := Default()
	cfg.Environment = Production
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLoggerTo(&buf)
	logger.Info("dropped")
	logger.Warn("kept", logging.Int("n", 1))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, float64(1), entry["n"])
}
