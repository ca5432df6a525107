package graph

// Egonet returns the subgraph induced by center and its direct neighbors.
// Every arc of g whose endpoints both lie in that set is copied with its weight
// and length. An unknown center yields an empty graph.
func (g *Graph) Egonet(center VertexID) *Graph {
	en := NewGraph()
	c, ok := g.vertices[center]
	if !ok {
		return en
	}

	en.AddVertex(center)
	for to := range c.edges {
		en.AddVertex(to)
	}

	for id := range en.vertices {
		for to, e := range g.vertices[id].edges {
			if !en.HasVertex(to) {
				continue
			}
			en.AddEdge(id, to)
			copied := en.vertices[id].edges[to]
			copied.Weight = e.Weight
			copied.Length = e.Length
		}
	}
	return en
}

// Export returns every vertex mapped to its neighbor ids in ascending order,
// ignoring weights. It does not modify the graph.
func (g *Graph) Export() map[VertexID][]VertexID {
	out := make(map[VertexID][]VertexID, len(g.vertices))
	for id, n := range g.vertices {
		out[id] = n.Neighbors()
	}
	return out
}
