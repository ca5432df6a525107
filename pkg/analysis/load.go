package analysis

import (
	"fmt"
	"io"

	"github.com/dd0wney/cluso-capgraph/pkg/config"
	"github.com/dd0wney/cluso-capgraph/pkg/graph"
	"github.com/dd0wney/cluso-capgraph/pkg/loader"
	"github.com/dd0wney/cluso-capgraph/pkg/logging"
	"github.com/dd0wney/cluso-capgraph/pkg/metrics"
)

// OptionsFromConfig maps the clustering, community and graph sections of cfg
// to engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RequireSymmetric: cfg.Graph.RequireSymmetric,
		MaxCuts:          cfg.Clustering.MaxCuts,
		MinTraffic:       cfg.Clustering.MinTraffic,
		Floor:            cfg.Community.Floor,
		MaxLevels:        cfg.Community.MaxLevels,
	}
}

func loaderOptions(cfg *config.Config) loader.Options {
	return loader.Options{Symmetric: cfg.Loader.Symmetric, DefaultLength: cfg.Loader.DefaultLength}
}

// FromReader reads an edge list from r and builds an engine over it.
func FromReader(r io.Reader, cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*Engine, error) {
	return build(cfg, logger, reg, "", func(g *graph.Graph) (*loader.Result, error) {
		return loader.Load(r, g, loaderOptions(cfg))
	})
}

// FromFile reads the edge list at path and builds an engine over it.
func FromFile(path string, cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*Engine, error) {
	return build(cfg, logger, reg, path, func(g *graph.Graph) (*loader.Result, error) {
		return loader.LoadFile(path, g, loaderOptions(cfg))
	})
}

func build(cfg *config.Config, logger logging.Logger, reg *metrics.Registry, path string, load func(*graph.Graph) (*loader.Result, error)) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	log := logger.With(logging.Component("loader"))
	if path != "" {
		log = log.With(logging.Path(path))
	}

	g := graph.NewGraph()
	timer := logging.StartTimer(log, "graph loaded")
	res, err := load(g)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("load graph: %w", err)
	}
	reg.RecordLoad(res.Edges, res.Skipped)
	timer.End(
		logging.Int("lines", res.Lines),
		logging.Int("edges", res.Edges),
		logging.Int("skipped", res.Skipped),
		logging.Int("vertices", g.NumVertices()),
	)

	return New(g, OptionsFromConfig(cfg), logger, reg)
}
