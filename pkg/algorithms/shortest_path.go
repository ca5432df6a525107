package algorithms

import (
	"container/heap"
	"slices"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// PathResult is the outcome of a single shortest-path search.
type PathResult struct {
	// Path lists the vertices from start to goal inclusive; empty when not found.
	Path []graph.VertexID
	// Parents maps each relaxed vertex to its predecessor on the best known path.
	Parents  map[graph.VertexID]graph.VertexID
	Distance float64
	Found    bool
	// Disconnected is set when both endpoints exist but no path joins them.
	Disconnected bool
}

// pathItem is a priority queue entry. Entries go stale when a vertex is
// improved after being pushed; stale entries are skipped on pop.
type pathItem struct {
	vertex   graph.VertexID
	distance float64
	hops     int
}

// pathQueue is a min-heap ordered by distance, then hop count, then vertex id.
type pathQueue []pathItem

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].distance != pq[j].distance {
		return pq[i].distance < pq[j].distance
	}
	if pq[i].hops != pq[j].hops {
		return pq[i].hops < pq[j].hops
	}
	return pq[i].vertex < pq[j].vertex
}

func (pq pathQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *pathQueue) Push(x any) { *pq = append(*pq, x.(pathItem)) }

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// ShortestPath finds the shortest path from start to goal with Dijkstra's
// algorithm, accumulating edge lengths into each node's distance. Among paths
// of equal length the one with fewer hops wins, so zero-length edges still
// yield hop-minimal paths.
//
// All node distances are reset before the search. When both endpoints exist
// but goal is unreachable the graph is marked disconnected (multiclustering)
// and an empty path is returned. Unknown endpoints return an empty result
// without touching the flag.
func ShortestPath(g *graph.Graph, start, goal graph.VertexID) *PathResult {
	res := &PathResult{
		Path:     []graph.VertexID{},
		Parents:  make(map[graph.VertexID]graph.VertexID),
		Distance: graph.Infinity,
	}
	if !g.HasVertex(start) || !g.HasVertex(goal) {
		return res
	}

	g.ResetDistances()

	visited := make(map[graph.VertexID]bool, g.NumVertices())
	hops := map[graph.VertexID]int{start: 0}
	g.Vertex(start).SetDistance(0)

	pq := &pathQueue{{vertex: start}}
	heap.Init(pq)

	found := false
	for pq.Len() > 0 {
		item := heap.Pop(pq).(pathItem)
		if visited[item.vertex] {
			continue
		}
		visited[item.vertex] = true

		if item.vertex == goal {
			found = true
			break
		}

		current := g.Vertex(item.vertex)
		for _, next := range current.Neighbors() {
			if visited[next] {
				continue
			}
			nextNode := g.Vertex(next)
			d := current.DistanceVia(next)
			h := hops[item.vertex] + 1

			// Relax only on strict improvement of (distance, hops).
			if d < nextNode.Distance() || (d == nextNode.Distance() && h < hops[next]) {
				nextNode.SetDistance(d)
				hops[next] = h
				res.Parents[next] = item.vertex
				heap.Push(pq, pathItem{vertex: next, distance: d, hops: h})
			}
		}
	}

	if !found {
		g.MarkDisconnected()
		res.Disconnected = true
		return res
	}

	res.Found = true
	res.Distance = g.Vertex(goal).Distance()
	res.Path = reconstructPath(start, goal, res.Parents)
	return res
}

// reconstructPath walks parent pointers back from goal and reverses them.
func reconstructPath(start, goal graph.VertexID, parents map[graph.VertexID]graph.VertexID) []graph.VertexID {
	path := []graph.VertexID{goal}
	for node := goal; node != start; {
		node = parents[node]
		path = append(path, node)
	}
	slices.Reverse(path)
	return path
}
