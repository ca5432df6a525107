package algorithms

import (
	"cmp"
	"slices"
	"testing"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// undirected builds a graph from undirected vertex pairs.
func undirected(pairs ...[2]graph.VertexID) *graph.Graph {
	g := graph.NewGraph()
	for _, p := range pairs {
		g.AddUndirectedEdge(p[0], p[1])
	}
	return g
}

// directed builds a graph from directed arcs.
func directed(arcs ...[2]graph.VertexID) *graph.Graph {
	g := graph.NewGraph()
	for _, a := range arcs {
		g.AddEdge(a[0], a[1])
	}
	return g
}

// fourCycle is 1-2-3-4-1.
func fourCycle() *graph.Graph {
	return undirected([2]graph.VertexID{1, 2}, [2]graph.VertexID{2, 3}, [2]graph.VertexID{3, 4}, [2]graph.VertexID{4, 1})
}

// twoTriangles is {1,2,3} and {4,5,6} joined by the bridge 3-4.
func twoTriangles() *graph.Graph {
	return undirected(
		[2]graph.VertexID{1, 2}, [2]graph.VertexID{2, 3}, [2]graph.VertexID{1, 3},
		[2]graph.VertexID{4, 5}, [2]graph.VertexID{5, 6}, [2]graph.VertexID{4, 6},
		[2]graph.VertexID{3, 4},
	)
}

func equalIDs(a, b []graph.VertexID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalPartitions(a, b [][]graph.VertexID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalIDs(a[i], b[i]) {
			return false
		}
	}
	return true
}

// assertPartition checks that sets cover every vertex of g exactly once.
func assertPartition(t *testing.T, g *graph.Graph, sets [][]graph.VertexID) {
	t.Helper()
	seen := make(map[graph.VertexID]int)
	for _, set := range sets {
		for _, v := range set {
			seen[v]++
		}
	}
	for _, v := range g.Vertices() {
		if seen[v] != 1 {
			t.Errorf("vertex %d appears %d times in partition", v, seen[v])
		}
	}
	if len(seen) != g.NumVertices() {
		t.Errorf("partition covers %d ids, graph has %d vertices", len(seen), g.NumVertices())
	}
}

// sortedPartition orders sets by their smallest member, each set ascending.
func sortedPartition(sets [][]graph.VertexID) [][]graph.VertexID {
	out := make([][]graph.VertexID, 0, len(sets))
	for _, set := range sets {
		out = append(out, slices.Sorted(slices.Values(set)))
	}
	slices.SortFunc(out, func(a, b []graph.VertexID) int {
		return cmp.Compare(a[0], b[0])
	})
	return out
}
