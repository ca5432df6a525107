// Package graphql exposes an analysis engine through an in-process GraphQL
// schema.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-capgraph/pkg/analysis"
	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

func createStatsType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"vertices":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"edges":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"arcs":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"multiclustering": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"clusters":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
}

func createEdgeType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"from":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"to":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"weight": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"length": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		},
	})
}

func createVertexType(edgeType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Vertex",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"community":      &graphql.Field{Type: graphql.Int},
			"absorbed":       &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"neighbors":      &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"predecessors":   &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"degree":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"weightedDegree": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"edges":          &graphql.Field{Type: graphql.NewList(edgeType)},
		},
	})
}

func createGraphType(statsType, vertexType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Graph",
		Fields: graphql.Fields{
			"stats":    &graphql.Field{Type: statsType},
			"vertices": &graphql.Field{Type: graphql.NewList(vertexType)},
		},
	})
}

func createCommunityType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Community",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"size":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"nodes":   &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"density": &graphql.Field{Type: graphql.Float},
		},
	})
}

// Builder assembles the schema for one engine.
type Builder struct {
	engine *analysis.Engine

	statsType     *graphql.Object
	edgeType      *graphql.Object
	vertexType    *graphql.Object
	graphType     *graphql.Object
	communityType *graphql.Object
}

// GenerateSchema builds the query and mutation schema over engine.
func GenerateSchema(engine *analysis.Engine) (graphql.Schema, error) {
	b := &Builder{engine: engine}
	b.statsType = createStatsType()
	b.edgeType = createEdgeType()
	b.vertexType = createVertexType(b.edgeType)
	b.graphType = createGraphType(b.statsType, b.vertexType)
	b.communityType = createCommunityType()

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    b.queryType(),
		Mutation: b.mutationType(),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func (b *Builder) queryType() *graphql.Object {
	pathType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Path",
		Fields: graphql.Fields{
			"found":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"disconnected": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"path":         &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"hops":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"distance":     &graphql.Field{Type: graphql.Float},
		},
	})
	sccType := graphql.NewObject(graphql.ObjectConfig{
		Name: "StronglyConnectedComponents",
		Fields: graphql.Fields{
			"count":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"singletons": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"largest":    &graphql.Field{Type: b.communityType},
			"components": &graphql.Field{Type: graphql.NewList(b.communityType)},
		},
	})
	adjacencyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Adjacency",
		Fields: graphql.Fields{
			"vertex":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"neighbors": &graphql.Field{Type: graphql.NewList(graphql.Int)},
		},
	})
	runType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Run",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"analysis": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"durationMs": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if r, ok := p.Source.(analysis.Run); ok {
						return float64(r.Duration.Microseconds()) / 1000, nil
					}
					return nil, nil
				},
			},
		},
	})

	vertexArgs := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"stats": &graphql.Field{
				Type:    b.statsType,
				Resolve: b.resolveStats,
			},
			"vertex": &graphql.Field{
				Type:    b.vertexType,
				Args:    vertexArgs,
				Resolve: b.resolveVertex,
			},
			"egonet": &graphql.Field{
				Type: b.graphType,
				Args: graphql.FieldConfigArgument{
					"center": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: b.resolveEgonet,
			},
			"shortestPath": &graphql.Field{
				Type: pathType,
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: b.resolveShortestPath,
			},
			"scc": &graphql.Field{
				Type:    sccType,
				Resolve: b.resolveSCC,
			},
			"components": &graphql.Field{
				Type:    graphql.NewList(b.communityType),
				Resolve: b.resolveComponents,
			},
			"adjacency": &graphql.Field{
				Type:    graphql.NewList(adjacencyType),
				Resolve: b.resolveAdjacency,
			},
			"modularity": &graphql.Field{
				Type:    graphql.Float,
				Resolve: b.resolveModularity,
			},
			"clusteringCoefficient": &graphql.Field{
				Type: graphql.Float,
				Args: graphql.FieldConfigArgument{
					"vertex": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: b.resolveClusteringCoefficient,
			},
			"runs": &graphql.Field{
				Type:    graphql.NewList(runType),
				Resolve: b.resolveRuns,
			},
		},
	})
}

func (b *Builder) mutationType() *graphql.Object {
	trafficType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrafficEdge",
		Fields: graphql.Fields{
			"from":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"to":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"traffic": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
	cutType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CutResult",
		Fields: graphql.Fields{
			"removed":         &graphql.Field{Type: graphql.NewList(trafficType)},
			"iterations":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"multiclustering": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"clusters":        &graphql.Field{Type: graphql.NewList(graphql.NewList(graphql.Int))},
		},
	})
	levelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Level",
		Fields: graphql.Fields{
			"level":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"vertices":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"communities": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"moves":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"modularity":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		},
	})
	detectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CommunityDetection",
		Fields: graphql.Fields{
			"modularity":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"moves":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"levels":      &graphql.Field{Type: graphql.NewList(levelType)},
			"communities": &graphql.Field{Type: graphql.NewList(b.communityType)},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"cut": &graphql.Field{
				Type: cutType,
				Args: graphql.FieldConfigArgument{
					"k":          &graphql.ArgumentConfig{Type: graphql.Int},
					"minTraffic": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: b.resolveCut,
			},
			"detectCommunities": &graphql.Field{
				Type: detectionType,
				Args: graphql.FieldConfigArgument{
					"floor":     &graphql.ArgumentConfig{Type: graphql.Int},
					"maxLevels": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: b.resolveDetectCommunities,
			},
		},
	})
}

// intArg returns the named argument, or def when it was not supplied.
func intArg(p graphql.ResolveParams, name string, def int) int {
	if v, ok := p.Args[name].(int); ok {
		return v
	}
	return def
}

func vertexArg(p graphql.ResolveParams, name string) (graph.VertexID, error) {
	v, ok := p.Args[name].(int)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return graph.VertexID(v), nil
}
