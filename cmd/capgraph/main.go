package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/cluso-capgraph/pkg/analysis"
	"github.com/dd0wney/cluso-capgraph/pkg/config"
	"github.com/dd0wney/cluso-capgraph/pkg/logging"
	"github.com/dd0wney/cluso-capgraph/pkg/metrics"
)

const version = "0.3.0"

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the global flags.
type options struct {
	configPath string
	graphPath  string
	directed   bool
	jsonOut    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("capgraph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.StringVar(&opts.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "YAML configuration file")
	fs.StringVar(&opts.graphPath, "graph", "", "edge list to load")
	fs.BoolVar(&opts.directed, "directed", false, "insert only the listed arcs")
	fs.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	command := fs.Arg(0)
	switch command {
	case "", "help":
		printUsage(stdout)
		return 0
	case "version":
		fmt.Fprintf(stdout, "capgraph %s\n", version)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "capgraph: %v\n", err)
		return 1
	}
	if opts.directed {
		cfg.Loader.Symmetric = false
	}
	logger := cfg.NewLoggerTo(stderr)
	defer logger.Sync()

	if err := execute(command, fs.Args()[1:], opts, cfg, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "capgraph: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func execute(command string, args []string, opts *options, cfg *config.Config, logger logging.Logger, stdout io.Writer) error {
	cmd, ok := commands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
	if opts.graphPath == "" {
		return fmt.Errorf("%w: -graph is required", errUsage)
	}

	reg := metrics.NewRegistry()
	engine, err := analysis.FromFile(opts.graphPath, cfg, logger, reg)
	if err != nil {
		return err
	}

	out := newPrinter(stdout, opts.jsonOut)
	if err := cmd.run(engine, args, out); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		reg.UpdateSystemMetrics()
		return writeMetrics(reg, cfg.Metrics.Output, stdout)
	}
	return nil
}

func writeMetrics(reg *metrics.Registry, output string, stdout io.Writer) error {
	if output == "-" {
		return reg.WriteText(stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create metrics output: %w", err)
	}
	if err := reg.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printUsage(w io.Writer) {
	usage := `capgraph - analyze weighted graphs from edge lists

Usage:
  capgraph [flags] <command> [arguments]

Commands:
  stats                          Vertex, edge and arc counts
  egonet <vertex>                Neighborhood of one vertex
  scc                            Strongly connected components
  path <from> <to>               Shortest path between two vertices
  cut [-k N] [-min-traffic N]    Remove high-traffic edges until the graph splits
  communities [-floor N] [-max-levels N]
                                 Louvain community detection
  propagation [-iterations N]    Label propagation communities
  components                     Weakly connected components
  coefficients                   Local clustering coefficients
  export                         Adjacency of every vertex
  query <graphql>                Run a GraphQL request
  version                        Print the version

Flags:
  -config FILE    YAML configuration (default $CAPGRAPH_CONFIG)
  -graph FILE     Edge list: "from to [weight [length]]" per line
  -directed       Do not add reverse arcs
  -json           Print results as JSON
`
	fmt.Fprint(w, usage)
}
