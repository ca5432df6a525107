package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Analysis Metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec

	// Graph Metrics
	GraphVerticesTotal   prometheus.Gauge
	GraphEdgesTotal      prometheus.Gauge
	GraphMulticlustering prometheus.Gauge
	LoaderLinesTotal     *prometheus.CounterVec
	ShortestPathFailures prometheus.Counter
	EdgesCutTotal        prometheus.Counter
	ClustersTotal        prometheus.Gauge

	// Community Metrics
	LocalMovesTotal     prometheus.Counter
	CommunitiesTotal    prometheus.Gauge
	CommunityLevels     prometheus.Gauge
	CommunityModularity prometheus.Gauge

	// Query Metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
	mu       sync.RWMutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		started:  time.Now(),
	}

	// Initialize all metrics
	r.initAnalysisMetrics()
	r.initGraphMetrics()
	r.initCommunityMetrics()
	r.initQueryMetrics()
	r.initSystemMetrics()

	return r
}
