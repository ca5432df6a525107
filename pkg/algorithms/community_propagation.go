package algorithms

import (
	"maps"
	"slices"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// LabelPropagation performs label propagation for community detection.
// Fast and scalable, but without the modularity guarantee of Louvain.
//
// Vertices are visited in id order and adopt the label carrying the most
// weight among their neighbors in either direction. Ties keep the current
// label when it is among the leaders, otherwise the smallest label wins, so
// the outcome is deterministic.
func LabelPropagation(g *graph.Graph, maxIterations int) *CommunityDetectionResult {
	vertices := g.Vertices()

	// Initialize: each node in its own community
	labels := make(map[graph.VertexID]int, len(vertices))
	for i, v := range vertices {
		labels[v] = i
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for _, v := range vertices {
			node := g.Vertex(v)
			labelWeight := make(map[int]int)

			for _, e := range node.Edges() {
				if e.To != v {
					labelWeight[labels[e.To]] += e.Weight
				}
			}
			for _, from := range node.Predecessors() {
				if from == v {
					continue
				}
				if e, ok := g.Edge(from, v); ok {
					labelWeight[labels[from]] += e.Weight
				}
			}
			if len(labelWeight) == 0 {
				continue
			}

			current := labels[v]
			best, bestWeight := current, labelWeight[current]
			for _, label := range slices.Sorted(maps.Keys(labelWeight)) {
				if labelWeight[label] > bestWeight {
					best, bestWeight = label, labelWeight[label]
				}
			}

			if best != current {
				labels[v] = best
				changed = true
			}
		}

		if !changed {
			break // Converged
		}
	}

	// Build communities from labels, ordered by their smallest member
	byLabel := make(map[int][]graph.VertexID)
	order := make([]int, 0)
	for _, v := range vertices {
		label := labels[v]
		if _, ok := byLabel[label]; !ok {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], v)
	}
	sets := make([][]graph.VertexID, 0, len(order))
	for _, label := range order {
		sets = append(sets, byLabel[label])
	}

	res := newDetectionResult(g, sets)
	res.Modularity = CalculateModularity(g, res.NodeCommunity)
	return res
}
