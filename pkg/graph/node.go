package graph

import (
	"maps"
	"slices"
)

func newNode(id VertexID) *Node {
	return &Node{
		id:        id,
		edges:     make(map[VertexID]*Edge),
		in:        make(map[VertexID]struct{}),
		distance:  Infinity,
		community: NoCommunity,
		absorbed:  map[VertexID]struct{}{id: {}},
	}
}

// ID returns the vertex id.
func (n *Node) ID() VertexID {
	return n.id
}

// Edge returns the outgoing arc to the given neighbor. The edge is owned by
// the node; callers may adjust its weight or length but must not retarget it.
func (n *Node) Edge(to VertexID) (*Edge, bool) {
	e, ok := n.edges[to]
	return e, ok
}

// HasNeighbor reports whether an arc to the given vertex exists.
func (n *Node) HasNeighbor(to VertexID) bool {
	_, ok := n.edges[to]
	return ok
}

// Edges returns the outgoing arcs ordered by target id.
func (n *Node) Edges() []*Edge {
	out := make([]*Edge, 0, len(n.edges))
	for _, to := range n.Neighbors() {
		out = append(out, n.edges[to])
	}
	return out
}

// Neighbors returns the targets of the outgoing arcs in ascending order.
func (n *Node) Neighbors() []VertexID {
	return sortedIDs(n.edges)
}

// Predecessors returns the sources of the incoming arcs in ascending order.
func (n *Node) Predecessors() []VertexID {
	return sortedIDs(n.in)
}

// OutDegree returns the number of outgoing arcs.
func (n *Node) OutDegree() int {
	return len(n.edges)
}

// WeightedDegree returns the sum of the outgoing arc weights. A self-loop
// contributes its weight once.
func (n *Node) WeightedDegree() int {
	total := 0
	for _, e := range n.edges {
		total += e.Weight
	}
	return total
}

// Distance returns the tentative shortest-path distance.
func (n *Node) Distance() float64 {
	return n.distance
}

// SetDistance sets the tentative shortest-path distance.
func (n *Node) SetDistance(d float64) {
	n.distance = d
}

// DistanceVia returns the distance of the neighbor when reached through this
// node, or Infinity if no arc leads there.
func (n *Node) DistanceVia(to VertexID) float64 {
	e, ok := n.edges[to]
	if !ok {
		return Infinity
	}
	return n.distance + e.Length
}

// Community returns the id of the community that currently claims the node.
func (n *Node) Community() CommunityID {
	return n.community
}

// SetCommunity records the community that claims the node.
func (n *Node) SetCommunity(c CommunityID) {
	n.community = c
}

// Absorbed returns the original vertex ids this node stands for, ascending.
func (n *Node) Absorbed() []VertexID {
	return sortedIDs(n.absorbed)
}

// Absorb adds original vertex ids to the node.
func (n *Node) Absorb(ids ...VertexID) {
	for _, id := range ids {
		n.absorbed[id] = struct{}{}
	}
}

// NewContractedNode creates a detached node standing for the given original
// vertices. It becomes part of a graph through ReplaceVertices.
func NewContractedNode(id VertexID, absorbed []VertexID) *Node {
	n := newNode(id)
	n.absorbed = make(map[VertexID]struct{}, len(absorbed))
	n.Absorb(absorbed...)
	if len(absorbed) == 0 {
		n.absorbed[id] = struct{}{}
	}
	return n
}

// Connect adds or reinforces an arc from a detached node. Weights of repeated
// calls for the same target are summed.
func (n *Node) Connect(to VertexID, weight int) {
	if e, ok := n.edges[to]; ok {
		e.Weight += weight
		return
	}
	n.edges[to] = &Edge{From: n.id, To: to, Weight: weight, Length: DefaultLength}
}

func (n *Node) clone() *Node {
	c := &Node{
		id:        n.id,
		edges:     make(map[VertexID]*Edge, len(n.edges)),
		in:        maps.Clone(n.in),
		distance:  n.distance,
		community: n.community,
		absorbed:  maps.Clone(n.absorbed),
	}
	for to, e := range n.edges {
		c.edges[to] = e.Clone()
	}
	return c
}

func sortedIDs[V any](m map[VertexID]V) []VertexID {
	out := make([]VertexID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
