package metrics

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/prometheus/common/expfmt"
)

// Analysis outcome labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordAnalysis records one analysis run with its duration
func (r *Registry) RecordAnalysis(analysis, status string, duration time.Duration) {
	r.AnalysesTotal.WithLabelValues(analysis, status).Inc()
	r.AnalysisDuration.WithLabelValues(analysis).Observe(duration.Seconds())
}

// UpdateGraphMetrics updates the graph size gauges
func (r *Registry) UpdateGraphMetrics(vertices, edges int, multiclustering bool) {
	r.GraphVerticesTotal.Set(float64(vertices))
	r.GraphEdgesTotal.Set(float64(edges))
	if multiclustering {
		r.GraphMulticlustering.Set(1)
	} else {
		r.GraphMulticlustering.Set(0)
	}
}

// RecordLoad records the outcome of an edge-list load
func (r *Registry) RecordLoad(edges, skipped int) {
	r.LoaderLinesTotal.WithLabelValues("edge").Add(float64(edges))
	r.LoaderLinesTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordPathFailure counts a shortest-path search without result
func (r *Registry) RecordPathFailure() {
	r.ShortestPathFailures.Inc()
}

// RecordCut records the edges removed by a cut and the clusters it left
func (r *Registry) RecordCut(removed, clusters int) {
	r.EdgesCutTotal.Add(float64(removed))
	r.ClustersTotal.Set(float64(clusters))
}

// RecordCommunities records the outcome of a detection run
func (r *Registry) RecordCommunities(communities, levels, moves int, modularity float64) {
	r.LocalMovesTotal.Add(float64(moves))
	r.CommunitiesTotal.Set(float64(communities))
	r.CommunityLevels.Set(float64(levels))
	r.CommunityModularity.Set(modularity)
}

// RecordQuery records a GraphQL operation
func (r *Registry) RecordQuery(operation, status string, duration time.Duration) {
	r.QueriesTotal.WithLabelValues(operation, status).Inc()
	r.QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateSystemMetrics samples uptime, goroutines and memory
func (r *Registry) UpdateSystemMetrics() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.mu.RLock()
	started := r.started
	r.mu.RUnlock()

	r.UptimeSeconds.Set(time.Since(started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}

// WriteText writes every registered metric in the Prometheus text format
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
