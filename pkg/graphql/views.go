package graphql

import (
	"github.com/dd0wney/cluso-capgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// The views below are detached copies of graph and result data, so resolvers
// never touch the engine's graph outside its lock. Vertex ids are plain ints
// because graphql.Int only coerces builtin integer types.

type edgeView struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight int     `json:"weight"`
	Length float64 `json:"length"`
}

type vertexView struct {
	ID             int        `json:"id"`
	Community      *int       `json:"community"`
	Absorbed       []int      `json:"absorbed"`
	Neighbors      []int      `json:"neighbors"`
	Predecessors   []int      `json:"predecessors"`
	Degree         int        `json:"degree"`
	WeightedDegree int        `json:"weightedDegree"`
	Edges          []edgeView `json:"edges"`
}

type graphView struct {
	Stats    graph.Stats  `json:"stats"`
	Vertices []vertexView `json:"vertices"`
}

type adjacencyView struct {
	Vertex    int   `json:"vertex"`
	Neighbors []int `json:"neighbors"`
}

type pathView struct {
	Found        bool     `json:"found"`
	Disconnected bool     `json:"disconnected"`
	Path         []int    `json:"path"`
	Hops         int      `json:"hops"`
	Distance     *float64 `json:"distance"`
}

type communityView struct {
	ID      int     `json:"id"`
	Size    int     `json:"size"`
	Nodes   []int   `json:"nodes"`
	Density float64 `json:"density"`
}

type sccView struct {
	Count      int             `json:"count"`
	Singletons int             `json:"singletons"`
	Largest    *communityView  `json:"largest"`
	Components []communityView `json:"components"`
}

type trafficView struct {
	From    int `json:"from"`
	To      int `json:"to"`
	Traffic int `json:"traffic"`
}

type cutView struct {
	Removed         []trafficView `json:"removed"`
	Iterations      int           `json:"iterations"`
	Multiclustering bool          `json:"multiclustering"`
	Clusters        [][]int       `json:"clusters"`
}

type levelView struct {
	Level       int     `json:"level"`
	Vertices    int     `json:"vertices"`
	Communities int     `json:"communities"`
	Moves       int     `json:"moves"`
	Modularity  float64 `json:"modularity"`
}

type detectionView struct {
	Modularity  float64         `json:"modularity"`
	Moves       int             `json:"moves"`
	Levels      []levelView     `json:"levels"`
	Communities []communityView `json:"communities"`
}

func ints(ids []graph.VertexID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func newVertexView(n *graph.Node) vertexView {
	v := vertexView{
		ID:             int(n.ID()),
		Absorbed:       ints(n.Absorbed()),
		Neighbors:      ints(n.Neighbors()),
		Predecessors:   ints(n.Predecessors()),
		Degree:         n.OutDegree(),
		WeightedDegree: n.WeightedDegree(),
	}
	if c := n.Community(); c != graph.NoCommunity {
		id := int(c)
		v.Community = &id
	}
	for _, e := range n.Edges() {
		v.Edges = append(v.Edges, edgeView{From: int(e.From), To: int(e.To), Weight: e.Weight, Length: e.Length})
	}
	return v
}

func newGraphView(g *graph.Graph) graphView {
	view := graphView{Stats: g.Stats(), Vertices: make([]vertexView, 0, g.NumVertices())}
	for _, id := range g.Vertices() {
		view.Vertices = append(view.Vertices, newVertexView(g.Vertex(id)))
	}
	return view
}

func newPathView(res *algorithms.PathResult) pathView {
	view := pathView{
		Found:        res.Found,
		Disconnected: res.Disconnected,
		Path:         ints(res.Path),
	}
	if res.Found {
		d := res.Distance
		view.Distance = &d
		view.Hops = len(res.Path) - 1
	}
	return view
}

func newCommunityView(c *algorithms.Community) communityView {
	return communityView{ID: c.ID, Size: c.Size, Nodes: ints(c.Nodes), Density: c.Density}
}

func newCommunityViews(cs []*algorithms.Community) []communityView {
	out := make([]communityView, len(cs))
	for i, c := range cs {
		out[i] = newCommunityView(c)
	}
	return out
}

func newSCCView(res *algorithms.SCCResult) sccView {
	view := sccView{
		Count:      len(res.Communities),
		Singletons: res.SingletonCount,
		Components: newCommunityViews(res.Communities),
	}
	if res.LargestSCC != nil {
		largest := newCommunityView(res.LargestSCC)
		view.Largest = &largest
	}
	return view
}

func newCutView(res *algorithms.ClusterResult) cutView {
	view := cutView{
		Iterations:      res.Iterations,
		Multiclustering: res.Multiclustering,
		Removed:         make([]trafficView, len(res.Removed)),
		Clusters:        make([][]int, len(res.Clusters)),
	}
	for i, e := range res.Removed {
		view.Removed[i] = trafficView{From: int(e.From), To: int(e.To), Traffic: e.Traffic}
	}
	for i, c := range res.Clusters {
		view.Clusters[i] = ints(c)
	}
	return view
}

func newDetectionView(res *algorithms.LouvainResult) detectionView {
	view := detectionView{
		Modularity:  res.Modularity,
		Moves:       res.Moves,
		Communities: newCommunityViews(res.Communities),
		Levels:      make([]levelView, len(res.Levels)),
	}
	for i, l := range res.Levels {
		view.Levels[i] = levelView(l)
	}
	return view
}
