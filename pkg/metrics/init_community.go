package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCommunityMetrics() {
	r.LocalMovesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "capgraph_local_moves_total",
			Help: "Vertices moved between communities by local-move passes",
		},
	)

	r.CommunitiesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "capgraph_communities_total",
			Help: "Communities found by the last detection run",
		},
	)

	r.CommunityLevels = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "capgraph_community_levels",
			Help: "Contraction levels of the last detection run",
		},
	)

	r.CommunityModularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "capgraph_community_modularity",
			Help: "Modularity of the last detected partition",
		},
	)
}
