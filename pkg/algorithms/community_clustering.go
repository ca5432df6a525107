package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
	"github.com/dd0wney/cluso-capgraph/pkg/parallel"
)

// ClusteringCoefficient computes local clustering coefficient for all nodes
// Measures how close a node's neighbors are to being a complete graph.
// The coefficient is read off the node's egonet: links among the neighbors
// over the number of possible neighbor pairs. Vertices are processed on
// GOMAXPROCS workers.
func ClusteringCoefficient(g *graph.Graph) (map[graph.VertexID]float64, error) {
	return ClusteringCoefficientWorkers(g, 0)
}

// ClusteringCoefficientWorkers is ClusteringCoefficient on the given number of
// workers. The graph must not be modified while it runs.
func ClusteringCoefficientWorkers(g *graph.Graph, workers int) (map[graph.VertexID]float64, error) {
	coefficients, err := parallel.Map(workers, g.Vertices(), func(nodeID graph.VertexID) float64 {
		return localCoefficient(g, nodeID)
	})
	if err != nil {
		return nil, fmt.Errorf("clustering coefficient: %w", err)
	}
	return coefficients, nil
}

func localCoefficient(g *graph.Graph, nodeID graph.VertexID) float64 {
	ego := g.Egonet(nodeID)

	neighbors := make([]graph.VertexID, 0, ego.NumVertices())
	for _, v := range ego.Vertices() {
		if v != nodeID {
			neighbors = append(neighbors, v)
		}
	}

	k := len(neighbors)
	if k < 2 {
		return 0.0
	}

	// Count undirected links between distinct neighbors
	links := make(map[graph.EdgeKey]bool)
	for _, u := range neighbors {
		for _, v := range ego.Vertex(u).Neighbors() {
			if v != nodeID && v != u {
				links[graph.EdgeKey{From: u, To: v}.Canonical()] = true
			}
		}
	}

	possible := k * (k - 1) / 2
	return float64(len(links)) / float64(possible)
}

// AverageCoefficient averages coefficients computed by ClusteringCoefficient.
// An empty map averages to 0.
func AverageCoefficient(coefficients map[graph.VertexID]float64) float64 {
	if len(coefficients) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, coef := range coefficients {
		sum += coef
	}

	return sum / float64(len(coefficients))
}
