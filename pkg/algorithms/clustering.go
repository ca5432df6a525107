package algorithms

import (
	"cmp"
	"slices"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// TrafficEdge is an undirected edge with the number of all-pairs shortest
// paths that traverse it. From is always the smaller endpoint.
type TrafficEdge struct {
	From    graph.VertexID `json:"from"`
	To      graph.VertexID `json:"to"`
	Traffic int            `json:"traffic"`
}

// Key returns the canonical key of the edge.
func (t TrafficEdge) Key() graph.EdgeKey {
	return graph.EdgeKey{From: t.From, To: t.To}
}

// ClusterResult describes an edge-cutting run.
type ClusterResult struct {
	// Removed lists the cut edges with the traffic they carried when cut.
	Removed    []TrafficEdge
	Iterations int
	// Remaining is the traffic ranking computed after the last cut.
	Remaining []TrafficEdge
	// Multiclustering reports that the graph is no longer connected.
	Multiclustering bool
	// Clusters is the vertex partition, filled only when Multiclustering is set.
	Clusters [][]graph.VertexID
}

// AllPairsTraffic runs a shortest-path search for each unordered vertex pair
// and counts, per undirected edge, how many of those paths traverse it.
// Traffic is tracked separately from edge weights. The result is sorted by
// traffic descending, ties broken by key.
//
// Pairs with no path mark the graph as disconnected.
func AllPairsTraffic(g *graph.Graph) []TrafficEdge {
	vertices := g.Vertices()
	traffic := make(map[graph.EdgeKey]int)

	for i, from := range vertices {
		for _, to := range vertices[i+1:] {
			res := ShortestPath(g, from, to)
			if !res.Found {
				continue
			}
			for j := 1; j < len(res.Path); j++ {
				key := graph.EdgeKey{From: res.Path[j-1], To: res.Path[j]}.Canonical()
				traffic[key]++
			}
		}
	}

	ranked := make([]TrafficEdge, 0, len(traffic))
	for key, count := range traffic {
		ranked = append(ranked, TrafficEdge{From: key.From, To: key.To, Traffic: count})
	}
	slices.SortFunc(ranked, func(a, b TrafficEdge) int {
		if c := cmp.Compare(b.Traffic, a.Traffic); c != 0 {
			return c
		}
		return graph.CompareKeys(a.Key(), b.Key())
	})
	return ranked
}

// Cut removes up to k of the highest-traffic edges, one per iteration, and
// recomputes the traffic ranking after each removal since every cut can change
// shortest paths globally. An iteration stops the run when the top edge carries
// less than minTraffic. Removal deletes both arcs of the pair.
//
// The run also stops as soon as a shortest-path search fails. The remaining
// ranking is then merged into clusters, recorded on the graph and returned.
// k <= 0 leaves the graph untouched.
func Cut(g *graph.Graph, k, minTraffic int) *ClusterResult {
	res := &ClusterResult{Multiclustering: g.Multiclustering()}
	if k <= 0 {
		return res
	}

	queue := AllPairsTraffic(g)
	for res.Iterations < k && !g.Multiclustering() && len(queue) > 0 {
		top := queue[0]
		if top.Traffic < minTraffic {
			break
		}
		g.RemoveUndirectedEdge(top.From, top.To)
		res.Removed = append(res.Removed, top)
		res.Iterations++
		queue = AllPairsTraffic(g)
	}

	res.Remaining = queue
	res.Multiclustering = g.Multiclustering()
	if res.Multiclustering {
		res.Clusters = MergeClusters(g, queue)
		g.SetClusters(res.Clusters)
	}
	return res
}

// MergeClusters unions the endpoints of each edge in order and returns the
// resulting partition of g's vertices. Vertices touched by no edge form
// singleton clusters. Clusters are sorted internally and by smallest member.
func MergeClusters(g *graph.Graph, edges []TrafficEdge) [][]graph.VertexID {
	vertices := g.Vertices()

	// Disjoint-set with path compression and union by rank.
	parent := make(map[graph.VertexID]graph.VertexID, len(vertices))
	rank := make(map[graph.VertexID]int, len(vertices))
	for _, v := range vertices {
		parent[v] = v
	}

	find := func(u graph.VertexID) graph.VertexID {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	union := func(u, v graph.VertexID) {
		rootU, rootV := find(u), find(v)
		if rootU == rootV {
			return
		}
		if rank[rootU] < rank[rootV] {
			parent[rootU] = rootV
		} else {
			parent[rootV] = rootU
			if rank[rootU] == rank[rootV] {
				rank[rootU]++
			}
		}
	}

	for _, e := range edges {
		if _, ok := parent[e.From]; !ok {
			continue
		}
		if _, ok := parent[e.To]; !ok {
			continue
		}
		union(e.From, e.To)
	}

	groups := make(map[graph.VertexID][]graph.VertexID)
	for _, v := range vertices {
		root := find(v)
		groups[root] = append(groups[root], v)
	}

	clusters := make([][]graph.VertexID, 0, len(groups))
	for _, members := range groups {
		clusters = append(clusters, members)
	}
	slices.SortFunc(clusters, func(a, b []graph.VertexID) int {
		return cmp.Compare(a[0], b[0])
	})
	return clusters
}
