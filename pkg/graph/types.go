package graph

import "math"

// VertexID identifies a vertex within a Graph.
type VertexID int

// CommunityID identifies the community a node currently belongs to.
// NoCommunity means the node has not been assigned yet.
type CommunityID int

// NoCommunity marks a node that no community has claimed.
const NoCommunity CommunityID = -1

// DefaultWeight is the weight given to newly inserted edges.
const DefaultWeight = 1

// DefaultLength is the length given to newly inserted edges.
const DefaultLength = 0.0

// Infinity is the distance of a node not yet reached by a search.
var Infinity = math.Inf(1)

// EdgeKey identifies a directed arc.
type EdgeKey struct {
	From VertexID
	To   VertexID
}

// Reverse returns the key of the opposite arc.
func (k EdgeKey) Reverse() EdgeKey {
	return EdgeKey{From: k.To, To: k.From}
}

// Canonical orders the endpoints so that both arcs of a pair share a key.
func (k EdgeKey) Canonical() EdgeKey {
	if k.From > k.To {
		return k.Reverse()
	}
	return k
}

// Edge is a directed arc owned by its source node.
type Edge struct {
	From   VertexID
	To     VertexID
	Weight int     // used for degree and modularity, >= 1
	Length float64 // used for distance accumulation, >= 0
}

// Key returns the arc identity.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// Clone creates a copy of an edge
func (e *Edge) Clone() *Edge {
	clone := *e
	return &clone
}

// Node is a vertex with its outgoing arcs.
type Node struct {
	id        VertexID
	edges     map[VertexID]*Edge
	in        map[VertexID]struct{}
	distance  float64
	community CommunityID
	absorbed  map[VertexID]struct{}
}

// Graph is a mutable directed graph keyed by vertex id.
//
// Graph is not safe for concurrent use. Several analyses assume that every arc
// has a matching reverse arc; AddEdge does not insert it, so callers that want
// undirected semantics use AddUndirectedEdge or call AddEdge twice.
type Graph struct {
	vertices        map[VertexID]*Node
	arcs            int
	multiclustering bool
	clusters        [][]VertexID
}

// Stats summarizes the size of a graph.
type Stats struct {
	Vertices        int  `json:"vertices"`
	Edges           int  `json:"edges"`
	Arcs            int  `json:"arcs"`
	Multiclustering bool `json:"multiclustering"`
	Clusters        int  `json:"clusters"`
}
