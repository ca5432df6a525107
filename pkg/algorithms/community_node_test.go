package algorithms

import (
	"math"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// checkInvariant verifies that every outgoing arc of every member is filed
// exactly once, as internal when its target is a member and external
// otherwise, and that members point back at the community.
func checkInvariant(t *testing.T, c *CommunityNode) {
	t.Helper()
	arcs := 0
	for _, m := range c.Members() {
		node := c.g.Vertex(m)
		if node.Community() != c.ID() {
			t.Errorf("C%d: member %d claims community %d", c.ID(), m, node.Community())
		}
		for _, to := range node.Neighbors() {
			arcs++
			key := graph.EdgeKey{From: m, To: to}
			_, isInternal := c.internal[key]
			_, isExternal := c.external[key]
			if isInternal == isExternal {
				t.Errorf("C%d: arc %v internal=%v external=%v", c.ID(), key, isInternal, isExternal)
			}
			if isInternal != c.Contains(to) {
				t.Errorf("C%d: arc %v misfiled", c.ID(), key)
			}
		}
	}
	if got := len(c.internal) + len(c.external); got != arcs {
		t.Errorf("C%d: %d filed arcs, members own %d", c.ID(), got, arcs)
	}
	if !c.Empty() && !c.Contains(c.Representative()) {
		t.Errorf("C%d: representative %d is not a member", c.ID(), c.Representative())
	}
}

func TestCommunityNode_AddTracksArcs(t *testing.T) {
	g := twoTriangles()
	c := newCommunityNode(g, 0, 1)

	for _, v := range []graph.VertexID{1, 2, 3} {
		c.add(v)
		checkInvariant(t, c)
	}

	if c.InternalWeight() != 6 {
		t.Errorf("Expected internal weight 6, got %d", c.InternalWeight())
	}
	if c.ExternalWeight() != 1 {
		t.Errorf("Expected external weight 1, got %d", c.ExternalWeight())
	}
	if c.TotalWeight() != 7 {
		t.Errorf("Expected total weight 7, got %d", c.TotalWeight())
	}
	if c.InternalLinks() != 3 {
		t.Errorf("Expected 3 internal links, got %d", c.InternalLinks())
	}
	if c.LinksFrom(4) != 1 || c.LinksTo(4) != 1 {
		t.Errorf("Expected one link each way with 4, got from=%d to=%d", c.LinksFrom(4), c.LinksTo(4))
	}
	if c.LinksFrom(5) != 0 {
		t.Errorf("Expected no link with 5, got %d", c.LinksFrom(5))
	}
}

func TestCommunityNode_RemoveReassignsRepresentative(t *testing.T) {
	g := twoTriangles()
	c := newCommunityNode(g, 0, 1)
	for _, v := range []graph.VertexID{1, 2, 3} {
		c.add(v)
	}

	c.remove(1)
	checkInvariant(t, c)

	if c.Representative() != 2 {
		t.Errorf("Expected representative 2, got %d", c.Representative())
	}
	if c.InternalWeight() != 2 {
		t.Errorf("Expected internal weight 2, got %d", c.InternalWeight())
	}
	// 2->1, 3->1 and 3->4 now leave the community.
	if len(c.ExternalEdges()) != 3 {
		t.Errorf("Expected 3 external arcs, got %v", c.ExternalEdges())
	}

	c.remove(2)
	c.remove(3)
	if !c.Empty() {
		t.Errorf("Expected empty community, got %v", c.Members())
	}
	if len(c.InternalEdges())+len(c.ExternalEdges()) != 0 {
		t.Error("Expected no arcs left on an empty community")
	}
}

func TestCommunityNode_DeltaModularity(t *testing.T) {
	g := twoTriangles()
	c := newCommunityNode(g, 0, 1)
	c.add(1)
	c.add(2)

	// in=2, tot=4, ki=3, kIn=4 over 2m=14
	expected := 4.0/14 - 2*4.0*3.0/(14*14)
	if got := c.DeltaModularity(14, 3); math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected gain %v, got %v", expected, got)
	}
	if got := c.DeltaModularity(14, 99); got != 0 {
		t.Errorf("Expected 0 for unknown vertex, got %v", got)
	}
	if got := modularityGain(0, 1, 2, 3, 4); got != 0 {
		t.Errorf("Expected 0 gain on weightless graph, got %v", got)
	}
}

func TestCommunityNode_Contract(t *testing.T) {
	g := twoTriangles()
	c := newCommunityNode(g, 0, 1)
	for _, v := range []graph.VertexID{1, 2, 3} {
		c.add(v)
	}

	node := c.contract(func(v graph.VertexID) graph.VertexID {
		if v >= 4 {
			return 5
		}
		return 1
	})

	if node.ID() != 1 {
		t.Errorf("Expected contracted id 1, got %d", node.ID())
	}
	if e, ok := node.Edge(1); !ok || e.Weight != 6 {
		t.Errorf("Expected self-loop of weight 6, got %+v", e)
	}
	if e, ok := node.Edge(5); !ok || e.Weight != 1 {
		t.Errorf("Expected arc to 5 of weight 1, got %+v", e)
	}
	if !equalIDs(node.Absorbed(), []graph.VertexID{1, 2, 3}) {
		t.Errorf("Expected absorbed [1 2 3], got %v", node.Absorbed())
	}
	if c.Contracted() != node {
		t.Error("Expected community to keep its contracted node")
	}
}

func TestCommunityNode_String(t *testing.T) {
	g := twoTriangles()
	c := newCommunityNode(g, 4, 4)
	c.add(4)
	c.add(5)

	s := c.String()
	for _, want := range []string{"C4", "rep=4", "members=[4 5]", "absorbed=[4 5]", "internal=2/2", "external=3/3"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in %q", want, s)
		}
	}
}
