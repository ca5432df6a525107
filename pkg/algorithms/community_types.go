package algorithms

import "github.com/dd0wney/cluso-capgraph/pkg/graph"

// Community represents a detected community or component
type Community struct {
	ID      int
	Nodes   []graph.VertexID
	Size    int
	Density float64 // Edge density within community, when the members are still vertices of the graph
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	Modularity    float64                // Quality measure of the partitioning
	NodeCommunity map[graph.VertexID]int // Node ID -> Community ID
}

// Partition returns the member lists in community order.
func (r *CommunityDetectionResult) Partition() [][]graph.VertexID {
	out := make([][]graph.VertexID, len(r.Communities))
	for i, c := range r.Communities {
		out[i] = c.Nodes
	}
	return out
}

// newDetectionResult numbers the given vertex sets in order and indexes them.
func newDetectionResult(g *graph.Graph, sets [][]graph.VertexID) *CommunityDetectionResult {
	res := &CommunityDetectionResult{
		Communities:   make([]*Community, 0, len(sets)),
		NodeCommunity: make(map[graph.VertexID]int),
	}
	for i, nodes := range sets {
		c := &Community{
			ID:    i,
			Nodes: nodes,
			Size:  len(nodes),
		}
		if g != nil {
			c.Density = density(g, nodes)
		}
		for _, v := range nodes {
			res.NodeCommunity[v] = i
		}
		res.Communities = append(res.Communities, c)
	}
	return res
}

// density is the share of possible undirected links present among nodes.
// Members no longer present in g contribute nothing.
func density(g *graph.Graph, nodes []graph.VertexID) float64 {
	if len(nodes) < 2 {
		return 0.0
	}
	in := make(map[graph.VertexID]bool, len(nodes))
	for _, v := range nodes {
		in[v] = true
	}
	links := make(map[graph.EdgeKey]bool)
	for _, v := range nodes {
		n := g.Vertex(v)
		if n == nil {
			continue
		}
		for _, to := range n.Neighbors() {
			if to != v && in[to] {
				links[graph.EdgeKey{From: v, To: to}.Canonical()] = true
			}
		}
	}
	possible := len(nodes) * (len(nodes) - 1) / 2
	return float64(len(links)) / float64(possible)
}
