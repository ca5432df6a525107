package algorithms

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// moveEpsilon is the smallest modularity gain treated as an improvement.
const moveEpsilon = 1e-12

// LevelInfo summarizes one contraction level of a detection run.
type LevelInfo struct {
	Level       int     `json:"level"`
	Vertices    int     `json:"vertices"`
	Communities int     `json:"communities"`
	Moves       int     `json:"moves"`
	Modularity  float64 `json:"modularity"`
}

// LouvainResult is the outcome of Detect. Communities are reported as sets of
// original vertex ids.
type LouvainResult struct {
	*CommunityDetectionResult
	Levels []LevelInfo
	Moves  int
}

// Louvain runs modularity-driven community detection on a graph, contracting
// it level by level. Aggregate replaces the graph's vertex set; clone the
// graph first if the original is still needed.
type Louvain struct {
	g           *graph.Graph
	communities map[graph.CommunityID]*CommunityNode
	nextID      graph.CommunityID
	levels      int
}

// NewLouvain binds a detector to g.
func NewLouvain(g *graph.Graph) *Louvain {
	return &Louvain{
		g:           g,
		communities: make(map[graph.CommunityID]*CommunityNode),
	}
}

// Graph returns the graph the detector works on.
func (l *Louvain) Graph() *graph.Graph {
	return l.g
}

// Level returns the number of contractions performed so far.
func (l *Louvain) Level() int {
	return l.levels
}

// Community returns the community with the given id, or nil.
func (l *Louvain) Community(id graph.CommunityID) *CommunityNode {
	return l.communities[id]
}

// Communities returns the non-empty communities ordered by id.
func (l *Louvain) Communities() []*CommunityNode {
	out := make([]*CommunityNode, 0, len(l.communities))
	for _, id := range slices.Sorted(maps.Keys(l.communities)) {
		if c := l.communities[id]; !c.Empty() {
			out = append(out, c)
		}
	}
	return out
}

// CommunityCount returns the number of non-empty communities.
func (l *Louvain) CommunityCount() int {
	count := 0
	for _, c := range l.communities {
		if !c.Empty() {
			count++
		}
	}
	return count
}

// communityOf returns the community that holds v, or nil when v is unassigned.
func (l *Louvain) communityOf(v graph.VertexID) *CommunityNode {
	node := l.g.Vertex(v)
	if node == nil {
		return nil
	}
	c, ok := l.communities[node.Community()]
	if !ok || !c.Contains(v) {
		return nil
	}
	return c
}

// AssignSingletonCommunities puts every unassigned vertex into a community of
// its own. Vertices that already belong to a community keep it.
func (l *Louvain) AssignSingletonCommunities() {
	for _, v := range l.g.Vertices() {
		if l.communityOf(v) == nil {
			l.singleton(v)
		}
	}
}

func (l *Louvain) singleton(v graph.VertexID) *CommunityNode {
	c := newCommunityNode(l.g, l.nextID, v)
	l.nextID++
	l.communities[c.id] = c
	c.add(v)
	return c
}

// LocalMovePass visits the communities in id order. For each it looks at the
// neighbors of its members that sit elsewhere and have not moved yet in this
// pass, and pulls in the one with the largest positive modularity gain.
// Communities left empty are dropped at the end. It returns the number of
// moves.
func (l *Louvain) LocalMovePass() int {
	l.AssignSingletonCommunities()
	m2 := float64(l.g.TotalWeight())
	if m2 == 0 {
		return 0
	}

	moved := make(map[graph.VertexID]bool)
	moves := 0
	for _, id := range slices.Sorted(maps.Keys(l.communities)) {
		c := l.communities[id]
		if c.Empty() {
			continue
		}

		best, bestGain, found := graph.VertexID(0), moveEpsilon, false
		for _, v := range l.candidates(c, moved) {
			if gain := l.moveGain(m2, c, v); gain > bestGain {
				best, bestGain, found = v, gain, true
			}
		}
		if !found {
			continue
		}

		l.move(best, c)
		moved[best] = true
		moves++
	}

	l.prune()
	return moves
}

// candidates lists, ascending, the vertices adjacent to c in either direction
// that are neither members nor already moved.
func (l *Louvain) candidates(c *CommunityNode, moved map[graph.VertexID]bool) []graph.VertexID {
	seen := make(map[graph.VertexID]bool)
	for _, m := range c.Members() {
		node := l.g.Vertex(m)
		for _, v := range append(node.Neighbors(), node.Predecessors()...) {
			if !c.Contains(v) && !moved[v] {
				seen[v] = true
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// moveGain is the change in modularity when v leaves its community for c.
func (l *Louvain) moveGain(m2 float64, c *CommunityNode, v graph.VertexID) float64 {
	from := l.communityOf(v)
	node := l.g.Vertex(v)
	ki := float64(node.WeightedDegree())

	selfLoop := 0
	if e, ok := node.Edge(v); ok {
		selfLoop = e.Weight
	}
	kIn := float64(from.LinksFrom(v) + from.LinksTo(v))
	in := float64(from.InternalWeight()-selfLoop) - kIn
	tot := float64(from.TotalWeight()) - ki

	return c.DeltaModularity(m2, v) - modularityGain(m2, in, tot, ki, kIn)
}

// move detaches v from its community and lets c absorb it.
func (l *Louvain) move(v graph.VertexID, c *CommunityNode) {
	if from := l.communityOf(v); from != nil {
		from.remove(v)
	}
	c.add(v)
}

func (l *Louvain) prune() {
	for id, c := range l.communities {
		if c.Empty() {
			delete(l.communities, id)
		}
	}
}

// Modularity returns the modularity of the current partition:
// the sum over communities of in/2m - (tot/2m)^2. Unassigned vertices count
// as singletons. A graph without weight has modularity 0.
func (l *Louvain) Modularity() float64 {
	m2 := float64(l.g.TotalWeight())
	if m2 == 0 {
		return 0
	}

	q := 0.0
	for _, c := range l.communities {
		if c.Empty() {
			continue
		}
		q += communityModularity(m2, float64(c.InternalWeight()), float64(c.TotalWeight()))
	}
	for _, v := range l.g.Vertices() {
		if l.communityOf(v) != nil {
			continue
		}
		node := l.g.Vertex(v)
		selfLoop := 0
		if e, ok := node.Edge(v); ok {
			selfLoop = e.Weight
		}
		q += communityModularity(m2, float64(selfLoop), float64(node.WeightedDegree()))
	}
	return q
}

func communityModularity(m2, in, tot float64) float64 {
	return in/m2 - (tot/m2)*(tot/m2)
}

// Aggregate contracts every community into a single vertex carrying the id of
// its representative. Internal arcs become a self-loop with their summed
// weight; arcs to another community become one arc with their summed weight.
// The graph's vertex set is replaced and every new vertex starts in its own
// community.
func (l *Louvain) Aggregate() {
	l.AssignSingletonCommunities()
	l.prune()

	representativeOf := func(v graph.VertexID) graph.VertexID {
		return l.communityOf(v).Representative()
	}
	communities := l.Communities()
	nodes := make([]*graph.Node, 0, len(communities))
	for _, c := range communities {
		nodes = append(nodes, c.contract(representativeOf))
	}

	l.g.ReplaceVertices(nodes)
	l.communities = make(map[graph.CommunityID]*CommunityNode, len(nodes))
	l.nextID = 0
	l.levels++
	l.AssignSingletonCommunities()
}

// Partition returns the current communities as sorted sets of original vertex
// ids, ordered by their smallest member.
func (l *Louvain) Partition() [][]graph.VertexID {
	communities := l.Communities()
	out := make([][]graph.VertexID, 0, len(communities))
	for _, c := range communities {
		var ids []graph.VertexID
		for _, v := range c.Members() {
			ids = append(ids, l.g.Vertex(v).Absorbed()...)
		}
		slices.Sort(ids)
		out = append(out, ids)
	}
	slices.SortFunc(out, func(a, b []graph.VertexID) int {
		return cmp.Compare(a[0], b[0])
	})
	return out
}

// Detect runs local-move passes until nothing moves, contracts the graph and
// repeats. It stops once there are at most floor communities, a level no
// longer shrinks the graph, or maxLevels contractions have been done
// (maxLevels <= 0 means no limit).
func (l *Louvain) Detect(floor, maxLevels int) *LouvainResult {
	original := l.g.Clone()
	l.AssignSingletonCommunities()
	res := &LouvainResult{}

	for {
		vertices := l.g.NumVertices()
		levelMoves := 0
		for l.CommunityCount() > floor {
			n := l.LocalMovePass()
			if n == 0 {
				break
			}
			levelMoves += n
		}
		res.Moves += levelMoves

		count := l.CommunityCount()
		res.Levels = append(res.Levels, LevelInfo{
			Level:       l.levels,
			Vertices:    vertices,
			Communities: count,
			Moves:       levelMoves,
			Modularity:  l.Modularity(),
		})

		if count >= vertices || count <= floor {
			break
		}
		if maxLevels > 0 && l.levels+1 >= maxLevels {
			break
		}
		l.Aggregate()
	}

	res.CommunityDetectionResult = newDetectionResult(original, l.Partition())
	res.Modularity = l.Modularity()
	return res
}

// Summary renders the current level and its communities, one per line.
func (l *Louvain) Summary() string {
	var b strings.Builder
	communities := l.Communities()
	fmt.Fprintf(&b, "level %d: %d vertices, %d communities, modularity %.4f\n",
		l.levels, l.g.NumVertices(), len(communities), l.Modularity())
	for _, c := range communities {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// CalculateModularity returns the modularity of an arbitrary partition of g,
// given as vertex -> community label. Vertices without a label count as
// singletons.
func CalculateModularity(g *graph.Graph, nodeCommunity map[graph.VertexID]int) float64 {
	m2 := float64(g.TotalWeight())
	if m2 == 0 {
		return 0
	}

	type tally struct{ in, tot int }
	labelled := make(map[int]*tally)
	unlabelled := make(map[graph.VertexID]*tally)
	get := func(v graph.VertexID) *tally {
		label, ok := nodeCommunity[v]
		if !ok {
			if unlabelled[v] == nil {
				unlabelled[v] = &tally{}
			}
			return unlabelled[v]
		}
		if labelled[label] == nil {
			labelled[label] = &tally{}
		}
		return labelled[label]
	}
	same := func(a, b graph.VertexID) bool {
		la, okA := nodeCommunity[a]
		lb, okB := nodeCommunity[b]
		if !okA || !okB {
			return a == b
		}
		return la == lb
	}

	for _, v := range g.Vertices() {
		t := get(v)
		for _, e := range g.Vertex(v).Edges() {
			t.tot += e.Weight
			if same(v, e.To) {
				t.in += e.Weight
			}
		}
	}

	q := 0.0
	for _, t := range labelled {
		q += communityModularity(m2, float64(t.in), float64(t.tot))
	}
	for _, t := range unlabelled {
		q += communityModularity(m2, float64(t.in), float64(t.tot))
	}
	return q
}
