package algorithms

import (
	"slices"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// SCCResult holds the result of Kosaraju's strongly connected components algorithm.
// It embeds CommunityDetectionResult for compatibility with the existing community
// infrastructure. Modularity is always 0.0 since SCCs are structural, not quality-optimized.
type SCCResult struct {
	*CommunityDetectionResult
	// Components holds one vertex-only graph per component, in discovery order.
	Components     []*graph.Graph
	LargestSCC     *Community
	SingletonCount int
}

// CondensationEdge represents a directed edge in the condensation DAG, where each
// SCC has been contracted to a single node.
type CondensationEdge struct {
	FromSCCID int
	ToSCCID   int
	EdgeCount int
}

// dfsFrame is one level of the explicit depth-first stack.
type dfsFrame struct {
	vertex    graph.VertexID
	neighbors []graph.VertexID
	next      int
}

// StronglyConnectedComponents finds all SCCs with Kosaraju's two-pass algorithm
// in O(V+E) time, starting the first pass in ascending vertex order. Only
// outgoing arcs are followed.
func StronglyConnectedComponents(g *graph.Graph) *SCCResult {
	return StronglyConnectedComponentsInOrder(g, g.Vertices())
}

// StronglyConnectedComponentsInOrder runs Kosaraju's algorithm with the first
// pass rooted in the given order. Unknown ids are ignored and vertices missing
// from order are visited afterwards in ascending order. Component membership
// does not depend on the order.
func StronglyConnectedComponentsInOrder(g *graph.Graph, order []graph.VertexID) *SCCResult {
	roots := make([]graph.VertexID, 0, g.NumVertices())
	listed := make(map[graph.VertexID]bool, len(order))
	for _, v := range order {
		if g.HasVertex(v) && !listed[v] {
			listed[v] = true
			roots = append(roots, v)
		}
	}
	for _, v := range g.Vertices() {
		if !listed[v] {
			roots = append(roots, v)
		}
	}

	finished, _ := depthFirstForest(g, roots)

	slices.Reverse(finished)
	_, trees := depthFirstForest(g.Transpose(), finished)

	components := make([]*graph.Graph, 0, len(trees))
	for _, tree := range trees {
		slices.Sort(tree)
		component := graph.NewGraph()
		for _, v := range tree {
			component.AddVertex(v)
		}
		components = append(components, component)
	}

	detection := newDetectionResult(g, trees)

	var largestSCC *Community
	singletonCount := 0
	for _, c := range detection.Communities {
		if c.Size == 1 {
			singletonCount++
		}
		if largestSCC == nil || c.Size > largestSCC.Size {
			largestSCC = c
		}
	}

	return &SCCResult{
		CommunityDetectionResult: detection,
		Components:               components,
		LargestSCC:               largestSCC,
		SingletonCount:           singletonCount,
	}
}

// depthFirstForest runs a depth-first search from each unvisited root in turn.
// It returns every vertex in post-order (a vertex is finished only after all of
// its descendants) and the vertex set of each search tree.
func depthFirstForest(g *graph.Graph, roots []graph.VertexID) (finished []graph.VertexID, trees [][]graph.VertexID) {
	visited := make(map[graph.VertexID]bool, g.NumVertices())
	finished = make([]graph.VertexID, 0, g.NumVertices())

	for _, root := range roots {
		if visited[root] || !g.HasVertex(root) {
			continue
		}

		var tree []graph.VertexID
		visited[root] = true
		stack := []dfsFrame{{vertex: root, neighbors: g.Vertex(root).Neighbors()}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.neighbors) {
				n := top.neighbors[top.next]
				top.next++
				if !visited[n] {
					visited[n] = true
					stack = append(stack, dfsFrame{vertex: n, neighbors: g.Vertex(n).Neighbors()})
				}
				continue
			}

			finished = append(finished, top.vertex)
			tree = append(tree, top.vertex)
			stack = stack[:len(stack)-1]
		}

		trees = append(trees, tree)
	}

	return finished, trees
}

// Condensation builds the condensation DAG from an SCC result. Each SCC becomes
// a single node; arcs between SCCs are aggregated with their count.
// Runs in O(E) time over all original arcs.
func Condensation(g *graph.Graph, scc *SCCResult) []CondensationEdge {
	type edgeKey struct{ from, to int }
	counts := make(map[edgeKey]int)

	for nodeID, sccID := range scc.NodeCommunity {
		n := g.Vertex(nodeID)
		if n == nil {
			continue
		}
		for _, to := range n.Neighbors() {
			targetSCC, ok := scc.NodeCommunity[to]
			if !ok || targetSCC == sccID {
				continue
			}
			counts[edgeKey{sccID, targetSCC}]++
		}
	}

	result := make([]CondensationEdge, 0, len(counts))
	for key, count := range counts {
		result = append(result, CondensationEdge{
			FromSCCID: key.from,
			ToSCCID:   key.to,
			EdgeCount: count,
		})
	}
	slices.SortFunc(result, func(a, b CondensationEdge) int {
		if a.FromSCCID != b.FromSCCID {
			return a.FromSCCID - b.FromSCCID
		}
		return a.ToSCCID - b.ToSCCID
	})

	return result
}
