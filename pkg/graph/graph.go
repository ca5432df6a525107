package graph

import "slices"

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		vertices: make(map[VertexID]*Node),
	}
}

// AddVertex creates a vertex if it does not exist yet.
func (g *Graph) AddVertex(id VertexID) {
	if _, ok := g.vertices[id]; ok {
		return
	}
	g.vertices[id] = newNode(id)
}

// AddEdge creates the directed arc from -> to with default weight and length,
// creating missing endpoints. The reverse arc is not added. Adding an arc that
// already exists leaves the graph unchanged.
func (g *Graph) AddEdge(from, to VertexID) {
	g.AddVertex(from)
	g.AddVertex(to)
	start := g.vertices[from]
	if _, ok := start.edges[to]; ok {
		return
	}
	start.edges[to] = &Edge{From: from, To: to, Weight: DefaultWeight, Length: DefaultLength}
	g.vertices[to].in[from] = struct{}{}
	g.arcs++
}

// AddUndirectedEdge adds both arcs between a and b.
func (g *Graph) AddUndirectedEdge(a, b VertexID) {
	g.AddEdge(a, b)
	g.AddEdge(b, a)
}

// SetEdgeWeight changes the weight of an existing arc.
func (g *Graph) SetEdgeWeight(from, to VertexID, weight int) error {
	if weight < 1 {
		return &GraphError{Op: "SetEdgeWeight", Edge: &EdgeKey{From: from, To: to}, Cause: ErrInvalidWeight}
	}
	e, err := g.edge("SetEdgeWeight", from, to)
	if err != nil {
		return err
	}
	e.Weight = weight
	return nil
}

// SetEdgeLength changes the length of an existing arc.
func (g *Graph) SetEdgeLength(from, to VertexID, length float64) error {
	if length < 0 {
		return &GraphError{Op: "SetEdgeLength", Edge: &EdgeKey{From: from, To: to}, Cause: ErrInvalidLength}
	}
	e, err := g.edge("SetEdgeLength", from, to)
	if err != nil {
		return err
	}
	e.Length = length
	return nil
}

func (g *Graph) edge(op string, from, to VertexID) (*Edge, error) {
	start, ok := g.vertices[from]
	if !ok {
		return nil, VertexNotFoundError(op, from)
	}
	e, ok := start.edges[to]
	if !ok {
		return nil, EdgeNotFoundError(op, from, to)
	}
	return e, nil
}

// Edge returns the arc from -> to if it exists.
func (g *Graph) Edge(from, to VertexID) (*Edge, bool) {
	start, ok := g.vertices[from]
	if !ok {
		return nil, false
	}
	return start.Edge(to)
}

// RemoveEdge deletes the arc from -> to. It reports whether an arc was removed.
func (g *Graph) RemoveEdge(from, to VertexID) bool {
	start, ok := g.vertices[from]
	if !ok {
		return false
	}
	if _, ok := start.edges[to]; !ok {
		return false
	}
	delete(start.edges, to)
	if end, ok := g.vertices[to]; ok {
		delete(end.in, from)
	}
	g.arcs--
	return true
}

// RemoveUndirectedEdge deletes both arcs between a and b and returns how many
// arcs were removed.
func (g *Graph) RemoveUndirectedEdge(a, b VertexID) int {
	removed := 0
	if g.RemoveEdge(a, b) {
		removed++
	}
	if a != b && g.RemoveEdge(b, a) {
		removed++
	}
	return removed
}

// Vertex returns the node with the given id, or nil.
func (g *Graph) Vertex(id VertexID) *Node {
	return g.vertices[id]
}

// HasVertex reports whether the vertex exists.
func (g *Graph) HasVertex(id VertexID) bool {
	_, ok := g.vertices[id]
	return ok
}

// Vertices returns all vertex ids in ascending order.
func (g *Graph) Vertices() []VertexID {
	return sortedIDs(g.vertices)
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int {
	return len(g.vertices)
}

// NumEdges returns the logical edge count, i.e. half the arc count.
func (g *Graph) NumEdges() int {
	return g.arcs / 2
}

// NumArcs returns the raw directed arc count.
func (g *Graph) NumArcs() int {
	return g.arcs
}

// TotalWeight returns the sum of all arc weights (2m for a symmetric graph).
func (g *Graph) TotalWeight() int {
	total := 0
	for _, n := range g.vertices {
		total += n.WeightedDegree()
	}
	return total
}

// ResetDistances sets every node distance back to Infinity.
func (g *Graph) ResetDistances() {
	for _, n := range g.vertices {
		n.distance = Infinity
	}
}

// Multiclustering reports whether a shortest-path search has failed on this
// graph, i.e. edge removal has disconnected it.
func (g *Graph) Multiclustering() bool {
	return g.multiclustering
}

// MarkDisconnected sets the multiclustering flag. It is never cleared.
func (g *Graph) MarkDisconnected() {
	g.multiclustering = true
}

// Clusters returns the partition recorded by the last clustering run.
func (g *Graph) Clusters() [][]VertexID {
	out := make([][]VertexID, len(g.clusters))
	for i, c := range g.clusters {
		out[i] = slices.Clone(c)
	}
	return out
}

// SetClusters records a vertex partition.
func (g *Graph) SetClusters(clusters [][]VertexID) {
	g.clusters = make([][]VertexID, len(clusters))
	for i, c := range clusters {
		g.clusters[i] = slices.Clone(c)
	}
}

// Stats returns size counters for the graph.
func (g *Graph) Stats() Stats {
	return Stats{
		Vertices:        g.NumVertices(),
		Edges:           g.NumEdges(),
		Arcs:            g.arcs,
		Multiclustering: g.multiclustering,
		Clusters:        len(g.clusters),
	}
}

// Transpose returns a new graph with every arc reversed. Weights and lengths
// are carried over.
func (g *Graph) Transpose() *Graph {
	out := NewGraph()
	for id, n := range g.vertices {
		out.AddVertex(id)
		for to, e := range n.edges {
			out.AddEdge(to, id)
			rev := out.vertices[to].edges[id]
			rev.Weight = e.Weight
			rev.Length = e.Length
		}
	}
	return out
}

// Clone returns a deep copy of the graph, including node state and flags.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		vertices:        make(map[VertexID]*Node, len(g.vertices)),
		arcs:            g.arcs,
		multiclustering: g.multiclustering,
	}
	for id, n := range g.vertices {
		out.vertices[id] = n.clone()
	}
	out.SetClusters(g.clusters)
	return out
}

// ReplaceVertices swaps the whole vertex set for the given nodes. Arcs whose
// target is not among the new nodes are dropped; predecessor sets and the arc
// counter are rebuilt.
func (g *Graph) ReplaceVertices(nodes []*Node) {
	g.vertices = make(map[VertexID]*Node, len(nodes))
	for _, n := range nodes {
		g.vertices[n.id] = n
	}
	g.arcs = 0
	for _, n := range g.vertices {
		n.in = make(map[VertexID]struct{})
	}
	for id, n := range g.vertices {
		for to := range n.edges {
			target, ok := g.vertices[to]
			if !ok {
				delete(n.edges, to)
				continue
			}
			target.in[id] = struct{}{}
			g.arcs++
		}
	}
}
