package algorithms

import (
	"container/list"
	"slices"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// ConnectedComponents finds all weakly connected components in the graph
func ConnectedComponents(g *graph.Graph) *CommunityDetectionResult {
	visited := make(map[graph.VertexID]bool)
	components := make([][]graph.VertexID, 0)

	// BFS to find each component
	for _, startNode := range g.Vertices() {
		if visited[startNode] {
			continue
		}

		component := make([]graph.VertexID, 0)
		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(graph.VertexID)
			if !ok {
				continue
			}
			component = append(component, nodeID)

			// Get all neighbors (both incoming and outgoing)
			node := g.Vertex(nodeID)
			for _, next := range append(node.Neighbors(), node.Predecessors()...) {
				if !visited[next] {
					visited[next] = true
					queue.PushBack(next)
				}
			}
		}

		slices.Sort(component)
		components = append(components, component)
	}

	return newDetectionResult(g, components)
}
