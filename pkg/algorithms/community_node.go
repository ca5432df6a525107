package algorithms

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// CommunityNode aggregates a set of vertices during community detection.
//
// Every outgoing arc of a member is tracked in exactly one of two sets:
// internal when its target is also a member, external otherwise. Both sets
// are kept current on every add and remove.
type CommunityNode struct {
	id             graph.CommunityID
	representative graph.VertexID
	g              *graph.Graph
	members        map[graph.VertexID]struct{}
	internal       map[graph.EdgeKey]struct{}
	external       map[graph.EdgeKey]struct{}
	contracted     *graph.Node
}

func newCommunityNode(g *graph.Graph, id graph.CommunityID, representative graph.VertexID) *CommunityNode {
	return &CommunityNode{
		id:             id,
		representative: representative,
		g:              g,
		members:        make(map[graph.VertexID]struct{}),
		internal:       make(map[graph.EdgeKey]struct{}),
		external:       make(map[graph.EdgeKey]struct{}),
	}
}

// ID returns the community id.
func (c *CommunityNode) ID() graph.CommunityID {
	return c.id
}

// Representative returns the member whose id the contracted node will carry.
func (c *CommunityNode) Representative() graph.VertexID {
	return c.representative
}

// Contains reports whether v is a member.
func (c *CommunityNode) Contains(v graph.VertexID) bool {
	_, ok := c.members[v]
	return ok
}

// Members returns the member ids in ascending order.
func (c *CommunityNode) Members() []graph.VertexID {
	return slices.Sorted(maps.Keys(c.members))
}

// Size returns the number of members.
func (c *CommunityNode) Size() int {
	return len(c.members)
}

// Empty reports whether the community has no members.
func (c *CommunityNode) Empty() bool {
	return len(c.members) == 0
}

// InternalEdges returns the arcs between members, ordered by key.
func (c *CommunityNode) InternalEdges() []graph.EdgeKey {
	return sortedKeys(c.internal)
}

// ExternalEdges returns the arcs leaving the community, ordered by key.
func (c *CommunityNode) ExternalEdges() []graph.EdgeKey {
	return sortedKeys(c.external)
}

// Contracted returns the node produced by the last contraction, if any.
func (c *CommunityNode) Contracted() *graph.Node {
	return c.contracted
}

// add makes v a member and files its arcs. Arcs from existing members into v
// turn from external to internal.
func (c *CommunityNode) add(v graph.VertexID) {
	node := c.g.Vertex(v)
	c.members[v] = struct{}{}
	node.SetCommunity(c.id)

	for _, to := range node.Neighbors() {
		key := graph.EdgeKey{From: v, To: to}
		if c.Contains(to) {
			c.internal[key] = struct{}{}
		} else {
			c.external[key] = struct{}{}
		}
	}
	for _, from := range node.Predecessors() {
		if from == v || !c.Contains(from) {
			continue
		}
		key := graph.EdgeKey{From: from, To: v}
		delete(c.external, key)
		c.internal[key] = struct{}{}
	}
}

// remove drops v and its arcs. Arcs from remaining members into v turn from
// internal to external. If v was the representative, the smallest remaining
// member takes over.
func (c *CommunityNode) remove(v graph.VertexID) {
	node := c.g.Vertex(v)
	delete(c.members, v)

	for _, to := range node.Neighbors() {
		key := graph.EdgeKey{From: v, To: to}
		delete(c.internal, key)
		delete(c.external, key)
	}
	for _, from := range node.Predecessors() {
		if from == v || !c.Contains(from) {
			continue
		}
		key := graph.EdgeKey{From: from, To: v}
		delete(c.internal, key)
		c.external[key] = struct{}{}
	}

	if v == c.representative && len(c.members) > 0 {
		c.representative = slices.Min(c.Members())
	}
}

func (c *CommunityNode) weightOf(keys map[graph.EdgeKey]struct{}) int {
	total := 0
	for key := range keys {
		if e, ok := c.g.Edge(key.From, key.To); ok {
			total += e.Weight
		}
	}
	return total
}

// InternalWeight is the summed weight of arcs between members. Each undirected
// link counts once per direction.
func (c *CommunityNode) InternalWeight() int {
	return c.weightOf(c.internal)
}

// ExternalWeight is the summed weight of arcs leaving the community.
func (c *CommunityNode) ExternalWeight() int {
	return c.weightOf(c.external)
}

// InternalLinks is the number of undirected internal links, self-loops included.
func (c *CommunityNode) InternalLinks() int {
	links := make(map[graph.EdgeKey]bool, len(c.internal))
	for key := range c.internal {
		links[key.Canonical()] = true
	}
	return len(links)
}

// TotalWeight is the summed weighted degree of the members.
func (c *CommunityNode) TotalWeight() int {
	return c.InternalWeight() + c.ExternalWeight()
}

// LinksFrom sums the weights of arcs from v to members other than v.
func (c *CommunityNode) LinksFrom(v graph.VertexID) int {
	node := c.g.Vertex(v)
	if node == nil {
		return 0
	}
	total := 0
	for _, e := range node.Edges() {
		if e.To != v && c.Contains(e.To) {
			total += e.Weight
		}
	}
	return total
}

// LinksTo sums the weights of arcs from members other than v into v.
func (c *CommunityNode) LinksTo(v graph.VertexID) int {
	node := c.g.Vertex(v)
	if node == nil {
		return 0
	}
	total := 0
	for _, from := range node.Predecessors() {
		if from == v || !c.Contains(from) {
			continue
		}
		if e, ok := c.g.Edge(from, v); ok {
			total += e.Weight
		}
	}
	return total
}

// DeltaModularity is the modularity gained by inserting v, currently alone in
// its own community, into this community. totalWeight is the sum of all arc
// weights in the graph (2m).
func (c *CommunityNode) DeltaModularity(totalWeight float64, v graph.VertexID) float64 {
	node := c.g.Vertex(v)
	if node == nil {
		return 0
	}
	return modularityGain(
		totalWeight,
		float64(c.InternalWeight()),
		float64(c.TotalWeight()),
		float64(node.WeightedDegree()),
		float64(c.LinksFrom(v)+c.LinksTo(v)),
	)
}

// modularityGain is the standard Louvain insertion gain
//
//	[(in + kIn)/2m - ((tot + ki)/2m)^2] - [in/2m - (tot/2m)^2 - (ki/2m)^2]
//
// where in and tot are the community's internal and total weight, ki the
// vertex degree and kIn the weight of links between the vertex and the
// community counted in both directions.
func modularityGain(m2, in, tot, ki, kIn float64) float64 {
	if m2 == 0 {
		return 0
	}
	after := (in+kIn)/m2 - ((tot+ki)/m2)*((tot+ki)/m2)
	before := in/m2 - (tot/m2)*(tot/m2) - (ki/m2)*(ki/m2)
	return after - before
}

// contract builds a detached node standing for all members. Internal arcs
// collapse into one self-loop carrying their summed weight; external arcs
// collapse into one arc per neighboring community. representativeOf maps a
// vertex to the representative of its community.
func (c *CommunityNode) contract(representativeOf func(graph.VertexID) graph.VertexID) *graph.Node {
	var absorbed []graph.VertexID
	for _, v := range c.Members() {
		absorbed = append(absorbed, c.g.Vertex(v).Absorbed()...)
	}
	node := graph.NewContractedNode(c.representative, absorbed)

	for _, key := range c.InternalEdges() {
		e, _ := c.g.Edge(key.From, key.To)
		node.Connect(c.representative, e.Weight)
	}
	for _, key := range c.ExternalEdges() {
		e, _ := c.g.Edge(key.From, key.To)
		node.Connect(representativeOf(key.To), e.Weight)
	}

	c.contracted = node
	return node
}

// String renders the community with its members, the original vertices they
// stand for and the internal/external tallies.
func (c *CommunityNode) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "C%d rep=%d members=%v", c.id, c.representative, c.Members())

	var absorbed []graph.VertexID
	for _, v := range c.Members() {
		absorbed = append(absorbed, c.g.Vertex(v).Absorbed()...)
	}
	slices.Sort(absorbed)
	fmt.Fprintf(&b, " absorbed=%v", absorbed)
	fmt.Fprintf(&b, " internal=%d/%d external=%d/%d",
		len(c.internal), c.InternalWeight(), len(c.external), c.ExternalWeight())
	return b.String()
}

func sortedKeys(m map[graph.EdgeKey]struct{}) []graph.EdgeKey {
	out := make([]graph.EdgeKey, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	slices.SortFunc(out, graph.CompareKeys)
	return out
}
