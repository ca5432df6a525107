package graphql

import (
	"slices"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

func (b *Builder) resolveStats(p graphql.ResolveParams) (any, error) {
	return b.engine.Stats(), nil
}

func (b *Builder) resolveVertex(p graphql.ResolveParams) (any, error) {
	id, err := vertexArg(p, "id")
	if err != nil {
		return nil, err
	}
	var view *vertexView
	b.engine.View(func(g *graph.Graph) {
		if n := g.Vertex(id); n != nil {
			v := newVertexView(n)
			view = &v
		}
	})
	if view == nil {
		return nil, nil
	}
	return view, nil
}

func (b *Builder) resolveEgonet(p graphql.ResolveParams) (any, error) {
	center, err := vertexArg(p, "center")
	if err != nil {
		return nil, err
	}
	return newGraphView(b.engine.Egonet(center)), nil
}

func (b *Builder) resolveShortestPath(p graphql.ResolveParams) (any, error) {
	from, err := vertexArg(p, "from")
	if err != nil {
		return nil, err
	}
	to, err := vertexArg(p, "to")
	if err != nil {
		return nil, err
	}
	return newPathView(b.engine.ShortestPath(from, to)), nil
}

func (b *Builder) resolveSCC(p graphql.ResolveParams) (any, error) {
	return newSCCView(b.engine.StronglyConnectedComponents()), nil
}

func (b *Builder) resolveComponents(p graphql.ResolveParams) (any, error) {
	return newCommunityViews(b.engine.Components().Communities), nil
}

func (b *Builder) resolveAdjacency(p graphql.ResolveParams) (any, error) {
	adjacency := b.engine.Export()
	out := make([]adjacencyView, 0, len(adjacency))
	for v, neighbors := range adjacency {
		out = append(out, adjacencyView{Vertex: int(v), Neighbors: ints(neighbors)})
	}
	slices.SortFunc(out, func(a, b adjacencyView) int { return a.Vertex - b.Vertex })
	return out, nil
}

func (b *Builder) resolveModularity(p graphql.ResolveParams) (any, error) {
	return b.engine.Modularity(), nil
}

// resolveClusteringCoefficient returns the coefficient of one vertex, or the
// graph average when no vertex is given.
func (b *Builder) resolveClusteringCoefficient(p graphql.ResolveParams) (any, error) {
	coefficients, avg, err := b.engine.ClusteringCoefficients()
	if err != nil {
		return nil, err
	}
	v, ok := p.Args["vertex"].(int)
	if !ok {
		return avg, nil
	}
	c, ok := coefficients[graph.VertexID(v)]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (b *Builder) resolveRuns(p graphql.ResolveParams) (any, error) {
	return b.engine.Runs(), nil
}

func (b *Builder) resolveCut(p graphql.ResolveParams) (any, error) {
	opts := b.engine.Options()
	res, err := b.engine.Cut(intArg(p, "k", opts.MaxCuts), intArg(p, "minTraffic", opts.MinTraffic))
	if err != nil {
		return nil, err
	}
	return newCutView(res), nil
}

func (b *Builder) resolveDetectCommunities(p graphql.ResolveParams) (any, error) {
	opts := b.engine.Options()
	res, err := b.engine.DetectCommunities(intArg(p, "floor", opts.Floor), intArg(p, "maxLevels", opts.MaxLevels))
	if err != nil {
		return nil, err
	}
	return newDetectionView(res), nil
}
