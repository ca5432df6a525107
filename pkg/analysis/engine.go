// Package analysis runs graph analyses with logging, metrics and run ids.
package analysis

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-capgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-capgraph/pkg/graph"
	"github.com/dd0wney/cluso-capgraph/pkg/logging"
	"github.com/dd0wney/cluso-capgraph/pkg/metrics"
	"github.com/dd0wney/cluso-capgraph/pkg/validation"
)

// Analysis names used in logs and metric labels.
const (
	AnalysisStats       = "stats"
	AnalysisEgonet      = "egonet"
	AnalysisSCC         = "scc"
	AnalysisPath        = "shortest_path"
	AnalysisExport      = "export"
	AnalysisCut         = "cut"
	AnalysisCommunities = "communities"
	AnalysisComponents  = "components"
	AnalysisClustering  = "clustering_coefficient"
	AnalysisPropagation = "label_propagation"
)

// errNoResult ends a run that completed without an answer. The run succeeds
// and is logged at warn level.
var errNoResult = errors.New("no result")

// Options carries the defaults and checks applied by the engine.
type Options struct {
	RequireSymmetric bool
	MaxCuts          int
	MinTraffic       int
	Floor            int
	MaxLevels        int
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{MaxCuts: 1, Floor: 1}
}

// Run identifies one analysis execution.
type Run struct {
	ID       string        `json:"id"`
	Analysis string        `json:"analysis"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Engine owns a graph and runs analyses on it one at a time.
type Engine struct {
	g       *graph.Graph
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry

	communities *algorithms.LouvainResult
	runs        []Run
	mu          sync.Mutex
}

// New creates an engine over g. With RequireSymmetric set, a graph with
// unpaired arcs is rejected with an error wrapping graph.ErrAsymmetricGraph.
// A nil logger or registry disables that concern.
func New(g *graph.Graph, opts Options, logger logging.Logger, reg *metrics.Registry) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	if opts.RequireSymmetric {
		if err := g.ValidateSymmetric(); err != nil {
			logger.Error("graph rejected", logging.Error(err), logging.Count(len(g.Asymmetries())))
			return nil, fmt.Errorf("analysis engine: %w", err)
		}
	}

	e := &Engine{
		g:       g,
		opts:    opts,
		logger:  logger.With(logging.Component("analysis")),
		metrics: reg,
	}
	e.refreshGraphMetrics()
	return e, nil
}

// Graph returns the graph the engine works on.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// View calls fn with the graph while holding the engine lock. fn must not
// retain the graph or call back into the engine.
func (e *Engine) View(fn func(g *graph.Graph)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.g)
}

// Options returns the engine defaults.
func (e *Engine) Options() Options {
	return e.opts
}

// Metrics returns the registry the engine records into.
func (e *Engine) Metrics() *metrics.Registry {
	return e.metrics
}

// Runs returns the analyses executed so far, oldest first.
func (e *Engine) Runs() []Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Run(nil), e.runs...)
}

// run executes fn under the engine lock with a fresh run id, logging and
// recording its outcome.
func (e *Engine) run(name string, fn func(log logging.Logger) ([]logging.Field, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := Run{ID: uuid.New().String(), Analysis: name, Started: time.Now()}
	log := e.logger.With(logging.RunID(r.ID), logging.Analysis(name))
	log.Debug("analysis started")
	timer := logging.StartTimer(log, "analysis finished")

	fields, err := fn(log)
	r.Duration = timer.Elapsed()
	e.runs = append(e.runs, r)

	level := logging.InfoLevel
	if errors.Is(err, errNoResult) {
		level, err = logging.WarnLevel, nil
	}
	if err != nil {
		timer.EndError(err)
		e.metrics.RecordAnalysis(name, metrics.StatusError, r.Duration)
		return err
	}
	timer.EndWithLevel(level, fields...)
	e.metrics.RecordAnalysis(name, metrics.StatusSuccess, r.Duration)
	e.refreshGraphMetrics()
	return nil
}

func (e *Engine) refreshGraphMetrics() {
	stats := e.g.Stats()
	e.metrics.UpdateGraphMetrics(stats.Vertices, stats.Edges, stats.Multiclustering)
}

// Stats returns the graph's size counters.
func (e *Engine) Stats() graph.Stats {
	var stats graph.Stats
	_ = e.run(AnalysisStats, func(log logging.Logger) ([]logging.Field, error) {
		stats = e.g.Stats()
		return []logging.Field{logging.Int("vertices", stats.Vertices), logging.Int("edges", stats.Edges)}, nil
	})
	return stats
}

// Egonet returns the one-hop neighborhood of center. Unknown centers yield an
// empty graph.
func (e *Engine) Egonet(center graph.VertexID) *graph.Graph {
	var ego *graph.Graph
	_ = e.run(AnalysisEgonet, func(log logging.Logger) ([]logging.Field, error) {
		if !e.g.HasVertex(center) {
			log.Warn("egonet of unknown vertex", logging.Vertex(int(center)))
		}
		ego = e.g.Egonet(center)
		return []logging.Field{logging.Vertex(int(center)), logging.Count(ego.NumVertices())}, nil
	})
	return ego
}

// StronglyConnectedComponents runs Kosaraju's algorithm.
func (e *Engine) StronglyConnectedComponents() *algorithms.SCCResult {
	var res *algorithms.SCCResult
	_ = e.run(AnalysisSCC, func(log logging.Logger) ([]logging.Field, error) {
		res = algorithms.StronglyConnectedComponents(e.g)
		return []logging.Field{logging.Count(len(res.Components)), logging.Int("singletons", res.SingletonCount)}, nil
	})
	return res
}

// ShortestPath runs Dijkstra from start to goal. A failed search between
// known vertices marks the graph as disconnected.
func (e *Engine) ShortestPath(start, goal graph.VertexID) *algorithms.PathResult {
	var res *algorithms.PathResult
	_ = e.run(AnalysisPath, func(log logging.Logger) ([]logging.Field, error) {
		res = algorithms.ShortestPath(e.g, start, goal)
		if !res.Found {
			e.metrics.RecordPathFailure()
			return []logging.Field{logging.Arc(int(start), int(goal)), logging.Bool("disconnected", res.Disconnected)}, errNoResult
		}
		return []logging.Field{logging.Int("hops", len(res.Path)-1), logging.Float64("distance", res.Distance)}, nil
	})
	return res
}

// Export returns the adjacency of every vertex.
func (e *Engine) Export() map[graph.VertexID][]graph.VertexID {
	var out map[graph.VertexID][]graph.VertexID
	_ = e.run(AnalysisExport, func(log logging.Logger) ([]logging.Field, error) {
		out = e.g.Export()
		return []logging.Field{logging.Count(len(out))}, nil
	})
	return out
}

// Cut removes up to k high-traffic edges from the engine's graph. Negative
// arguments are rejected and recorded as a failed run.
func (e *Engine) Cut(k, minTraffic int) (*algorithms.ClusterResult, error) {
	var res *algorithms.ClusterResult
	err := e.run(AnalysisCut, func(log logging.Logger) ([]logging.Field, error) {
		req := &validation.CutRequest{K: k, MinTraffic: minTraffic}
		if err := validation.ValidateCutRequest(req); err != nil {
			return nil, fmt.Errorf("cut: %w", err)
		}
		res = algorithms.Cut(e.g, k, minTraffic)
		for _, edge := range res.Removed {
			log.Debug("edge cut", logging.Arc(int(edge.From), int(edge.To)), logging.Int("traffic", edge.Traffic))
		}
		e.metrics.RecordCut(len(res.Removed), len(res.Clusters))
		return []logging.Field{
			logging.Int("removed", len(res.Removed)),
			logging.Bool("multiclustering", res.Multiclustering),
			logging.Int("clusters", len(res.Clusters)),
		}, nil
	})
	return res, err
}

// CutDefault runs Cut with the configured defaults.
func (e *Engine) CutDefault() (*algorithms.ClusterResult, error) {
	return e.Cut(e.opts.MaxCuts, e.opts.MinTraffic)
}

// DetectCommunities runs Louvain on a copy of the graph, so the engine's graph
// is left uncontracted.
func (e *Engine) DetectCommunities(floor, maxLevels int) (*algorithms.LouvainResult, error) {
	var res *algorithms.LouvainResult
	err := e.run(AnalysisCommunities, func(log logging.Logger) ([]logging.Field, error) {
		req := &validation.CommunityRequest{Floor: floor, MaxLevels: maxLevels}
		if err := validation.ValidateCommunityRequest(req); err != nil {
			return nil, fmt.Errorf("detect communities: %w", err)
		}
		louvain := algorithms.NewLouvain(e.g.Clone())
		res = louvain.Detect(floor, maxLevels)
		for _, level := range res.Levels {
			log.Debug("level done",
				logging.Int("level", level.Level),
				logging.Int("communities", level.Communities),
				logging.Int("moves", level.Moves),
				logging.Float64("modularity", level.Modularity))
		}
		e.communities = res
		e.metrics.RecordCommunities(len(res.Communities), len(res.Levels), res.Moves, res.Modularity)
		return []logging.Field{
			logging.Count(len(res.Communities)),
			logging.Float64("modularity", res.Modularity),
			logging.Int("levels", len(res.Levels)),
		}, nil
	})
	return res, err
}

// DetectCommunitiesDefault runs DetectCommunities with the configured defaults.
func (e *Engine) DetectCommunitiesDefault() (*algorithms.LouvainResult, error) {
	return e.DetectCommunities(e.opts.Floor, e.opts.MaxLevels)
}

// LastCommunities returns the result of the latest detection, or nil.
func (e *Engine) LastCommunities() *algorithms.LouvainResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.communities
}

// Modularity returns the modularity of the latest detected partition measured
// on the current graph, or of the all-singletons partition if none ran.
func (e *Engine) Modularity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	labels := map[graph.VertexID]int{}
	if e.communities != nil {
		labels = e.communities.NodeCommunity
	}
	return algorithms.CalculateModularity(e.g, labels)
}

// Components returns the weakly connected components.
func (e *Engine) Components() *algorithms.CommunityDetectionResult {
	var res *algorithms.CommunityDetectionResult
	_ = e.run(AnalysisComponents, func(log logging.Logger) ([]logging.Field, error) {
		res = algorithms.ConnectedComponents(e.g)
		return []logging.Field{logging.Count(len(res.Communities))}, nil
	})
	return res
}

// ClusteringCoefficients returns the local clustering coefficient per vertex
// and their average.
func (e *Engine) ClusteringCoefficients() (map[graph.VertexID]float64, float64, error) {
	var (
		coefficients map[graph.VertexID]float64
		avg          float64
	)
	err := e.run(AnalysisClustering, func(log logging.Logger) ([]logging.Field, error) {
		var err error
		if coefficients, err = algorithms.ClusteringCoefficient(e.g); err != nil {
			return nil, err
		}
		avg = algorithms.AverageCoefficient(coefficients)
		return []logging.Field{logging.Float64("average", avg)}, nil
	})
	return coefficients, avg, err
}

// LabelPropagation runs label propagation for at most maxIterations rounds.
func (e *Engine) LabelPropagation(maxIterations int) (*algorithms.CommunityDetectionResult, error) {
	var res *algorithms.CommunityDetectionResult
	err := e.run(AnalysisPropagation, func(log logging.Logger) ([]logging.Field, error) {
		if maxIterations < 1 || maxIterations > validation.MaxIteration {
			return nil, fmt.Errorf("label propagation: iterations must be in [1, %d], got %d", validation.MaxIteration, maxIterations)
		}
		res = algorithms.LabelPropagation(e.g, maxIterations)
		return []logging.Field{logging.Count(len(res.Communities)), logging.Float64("modularity", res.Modularity)}, nil
	})
	return res, err
}
