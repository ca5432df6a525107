package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphVerticesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "capgraph_vertices_total",
			Help: "Number of vertices in the graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "capgraph_edges_total",
			Help: "Number of undirected edges in the graph (arcs / 2)",
		},
	)

	r.GraphMulticlustering = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "capgraph_multiclustering",
			Help: "1 once a shortest-path search has found the graph disconnected",
		},
	)

	r.LoaderLinesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "capgraph_loader_lines_total",
			Help: "Edge-list lines read by the loader",
		},
		[]string{"result"},
	)

	r.ShortestPathFailures = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "capgraph_shortest_path_failures_total",
			Help: "Shortest-path searches that found no path",
		},
	)

	r.EdgesCutTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "capgraph_edges_cut_total",
			Help: "Undirected edges removed by clustering cuts",
		},
	)

	r.ClustersTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "capgraph_clusters_total",
			Help: "Clusters recorded by the last cut",
		},
	)
}
