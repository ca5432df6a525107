package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-capgraph/pkg/analysis"
	"github.com/dd0wney/cluso-capgraph/pkg/graph"
	"github.com/dd0wney/cluso-capgraph/pkg/graphql"
)

type command struct {
	run func(e *analysis.Engine, args []string, out *printer) error
}

var commands = map[string]command{
	"stats":        {run: runStats},
	"egonet":       {run: runEgonet},
	"scc":          {run: runSCC},
	"path":         {run: runPath},
	"cut":          {run: runCut},
	"communities":  {run: runCommunities},
	"propagation":  {run: runPropagation},
	"components":   {run: runComponents},
	"coefficients": {run: runCoefficients},
	"export":       {run: runExport},
	"query":        {run: runQuery},
}

func parseVertex(s string) (graph.VertexID, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: vertex %q is not an integer", errUsage, s)
	}
	return graph.VertexID(id), nil
}

// subFlags parses command flags, reporting problems as usage errors.
func subFlags(name string, args []string, define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	define(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, name, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected argument %q", errUsage, name, fs.Arg(0))
	}
	return nil
}

func runStats(e *analysis.Engine, args []string, out *printer) error {
	stats := e.Stats()
	if out.json {
		return out.writeJSON(stats)
	}
	out.title("Graph")
	out.fields([][2]string{
		{"vertices", strconv.Itoa(stats.Vertices)},
		{"edges", strconv.Itoa(stats.Edges)},
		{"arcs", strconv.Itoa(stats.Arcs)},
		{"multiclustering", strconv.FormatBool(stats.Multiclustering)},
	})
	return nil
}

func runEgonet(e *analysis.Engine, args []string, out *printer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: egonet <vertex>", errUsage)
	}
	center, err := parseVertex(args[0])
	if err != nil {
		return err
	}
	ego := e.Egonet(center)
	adjacency := ego.Export()
	if out.json {
		return out.writeJSON(adjacency)
	}
	out.title(fmt.Sprintf("Egonet of %d", center))
	out.adjacency(adjacency)
	return nil
}

func runSCC(e *analysis.Engine, args []string, out *printer) error {
	res := e.StronglyConnectedComponents()
	if out.json {
		return out.writeJSON(res.Partition())
	}
	out.title(fmt.Sprintf("%d strongly connected components", len(res.Communities)))
	out.partition(res.Partition())
	out.note(fmt.Sprintf("%d singletons", res.SingletonCount))
	return nil
}

func runPath(e *analysis.Engine, args []string, out *printer) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: path <from> <to>", errUsage)
	}
	from, err := parseVertex(args[0])
	if err != nil {
		return err
	}
	to, err := parseVertex(args[1])
	if err != nil {
		return err
	}

	res := e.ShortestPath(from, to)
	if out.json {
		return out.writeJSON(map[string]any{
			"found":    res.Found,
			"path":     res.Path,
			"distance": distanceOrNil(res.Found, res.Distance),
		})
	}
	out.title(fmt.Sprintf("Path %d → %d", from, to))
	if !res.Found {
		out.failure("no path")
		return nil
	}
	out.success(joinIDs(res.Path, " → "))
	out.fields([][2]string{
		{"hops", strconv.Itoa(len(res.Path) - 1)},
		{"distance", strconv.FormatFloat(res.Distance, 'g', -1, 64)},
	})
	return nil
}

func distanceOrNil(found bool, d float64) any {
	if !found {
		return nil
	}
	return d
}

func runCut(e *analysis.Engine, args []string, out *printer) error {
	opts := e.Options()
	k, minTraffic := opts.MaxCuts, opts.MinTraffic
	if err := subFlags("cut", args, func(fs *flag.FlagSet) {
		fs.IntVar(&k, "k", k, "maximum edges to remove")
		fs.IntVar(&minTraffic, "min-traffic", minTraffic, "stop when the busiest edge carries less traffic")
	}); err != nil {
		return err
	}

	res, err := e.Cut(k, minTraffic)
	if err != nil {
		return err
	}
	if out.json {
		return out.writeJSON(res)
	}
	out.title(fmt.Sprintf("Cut %d edges", len(res.Removed)))
	rows := make([][]string, len(res.Removed))
	for i, edge := range res.Removed {
		rows[i] = []string{strconv.Itoa(int(edge.From)), strconv.Itoa(int(edge.To)), strconv.Itoa(edge.Traffic)}
	}
	out.table([]string{"from", "to", "traffic"}, rows)
	if res.Multiclustering {
		out.success(fmt.Sprintf("graph split into %d clusters", len(res.Clusters)))
		out.partition(res.Clusters)
	} else {
		out.note("graph still connected")
	}
	return nil
}

func runCommunities(e *analysis.Engine, args []string, out *printer) error {
	opts := e.Options()
	floor, maxLevels := opts.Floor, opts.MaxLevels
	if err := subFlags("communities", args, func(fs *flag.FlagSet) {
		fs.IntVar(&floor, "floor", floor, "stop once this many communities remain")
		fs.IntVar(&maxLevels, "max-levels", maxLevels, "maximum contraction levels, 0 for no limit")
	}); err != nil {
		return err
	}

	res, err := e.DetectCommunities(floor, maxLevels)
	if err != nil {
		return err
	}
	if out.json {
		return out.writeJSON(map[string]any{
			"modularity":  res.Modularity,
			"levels":      res.Levels,
			"communities": res.Partition(),
		})
	}
	out.title(fmt.Sprintf("%d communities", len(res.Communities)))
	rows := make([][]string, len(res.Levels))
	for i, l := range res.Levels {
		rows[i] = []string{
			strconv.Itoa(l.Level),
			strconv.Itoa(l.Vertices),
			strconv.Itoa(l.Communities),
			strconv.Itoa(l.Moves),
			strconv.FormatFloat(l.Modularity, 'f', 4, 64),
		}
	}
	out.table([]string{"level", "vertices", "communities", "moves", "modularity"}, rows)
	out.partition(res.Partition())
	out.fields([][2]string{{"modularity", strconv.FormatFloat(res.Modularity, 'f', 4, 64)}})
	return nil
}

func runPropagation(e *analysis.Engine, args []string, out *printer) error {
	iterations := 100
	if err := subFlags("propagation", args, func(fs *flag.FlagSet) {
		fs.IntVar(&iterations, "iterations", iterations, "maximum label propagation rounds")
	}); err != nil {
		return err
	}

	res, err := e.LabelPropagation(iterations)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if out.json {
		return out.writeJSON(map[string]any{"modularity": res.Modularity, "communities": res.Partition()})
	}
	out.title(fmt.Sprintf("%d label communities", len(res.Communities)))
	out.partition(res.Partition())
	out.fields([][2]string{{"modularity", strconv.FormatFloat(res.Modularity, 'f', 4, 64)}})
	return nil
}

func runComponents(e *analysis.Engine, args []string, out *printer) error {
	res := e.Components()
	if out.json {
		return out.writeJSON(res.Partition())
	}
	out.title(fmt.Sprintf("%d connected components", len(res.Communities)))
	out.partition(res.Partition())
	return nil
}

func runCoefficients(e *analysis.Engine, args []string, out *printer) error {
	coefficients, avg, err := e.ClusteringCoefficients()
	if err != nil {
		return err
	}
	if out.json {
		return out.writeJSON(map[string]any{"average": avg, "vertices": coefficients})
	}
	out.title("Clustering coefficients")
	ids := make([]graph.VertexID, 0, len(coefficients))
	for id := range coefficients {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{strconv.Itoa(int(id)), strconv.FormatFloat(coefficients[id], 'f', 4, 64)}
	}
	out.table([]string{"vertex", "coefficient"}, rows)
	out.fields([][2]string{{"average", strconv.FormatFloat(avg, 'f', 4, 64)}})
	return nil
}

func runExport(e *analysis.Engine, args []string, out *printer) error {
	adjacency := e.Export()
	if out.json {
		return out.writeJSON(adjacency)
	}
	out.adjacency(adjacency)
	return nil
}

func runQuery(e *analysis.Engine, args []string, out *printer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: query <graphql>", errUsage)
	}
	x, err := graphql.NewExecutor(e, nil, 0)
	if err != nil {
		return err
	}
	result := x.Execute(context.Background(), strings.Join(args, " "), nil)
	if err := out.writeJSON(result); err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("query failed: %s", result.Errors[0].Message)
	}
	return nil
}

func joinIDs(ids []graph.VertexID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, sep)
}
