// Package loader reads whitespace-separated edge lists into a graph.
//
// Each non-blank line holds "from to [weight [length]]". Text after '#' is a
// comment. Missing weights default to 1, missing lengths to the configured
// default.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
	"github.com/dd0wney/cluso-capgraph/pkg/validation"
)

// ErrMalformedLine is returned for lines that cannot be parsed.
var ErrMalformedLine = errors.New("malformed edge line")

// LineError reports the offending line of an edge list.
type LineError struct {
	Line  int
	Text  string
	Cause error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Cause)
}

func (e *LineError) Unwrap() error {
	return e.Cause
}

// Options controls how lines become arcs.
type Options struct {
	// Symmetric inserts the reverse arc for every line.
	Symmetric bool
	// DefaultLength is used when a line has no length column.
	DefaultLength float64
}

// Result summarizes a load.
type Result struct {
	Lines   int `json:"lines"`
	Edges   int `json:"edges"`
	Skipped int `json:"skipped"`
}

// Load reads an edge list from r into g. It stops at the first malformed line
// and returns a *LineError wrapping ErrMalformedLine; arcs read before that
// line stay in g.
func Load(r io.Reader, g *graph.Graph, opts Options) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		res.Lines++
		text := scanner.Text()
		line := text
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			res.Skipped++
			continue
		}

		req, err := parseFields(fields, opts.DefaultLength)
		if err == nil {
			err = validation.ValidateEdgeRequest(req)
			if err != nil {
				err = fmt.Errorf("%w: %v", ErrMalformedLine, err)
			}
		}
		if err != nil {
			return res, &LineError{Line: res.Lines, Text: text, Cause: err}
		}

		addArc(g, req)
		if opts.Symmetric {
			addArc(g, &validation.EdgeRequest{From: req.To, To: req.From, Weight: req.Weight, Length: req.Length})
		}
		res.Edges++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read edge list: %w", err)
	}
	return res, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, g *graph.Graph, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list: %w", err)
	}
	defer f.Close()

	res, err := Load(f, g, opts)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func parseFields(fields []string, defaultLength float64) (*validation.EdgeRequest, error) {
	if len(fields) < 2 || len(fields) > 4 {
		return nil, fmt.Errorf("%w: want 2 to 4 columns, got %d", ErrMalformedLine, len(fields))
	}

	req := &validation.EdgeRequest{Weight: graph.DefaultWeight, Length: defaultLength}
	var err error
	if req.From, err = strconv.Atoi(fields[0]); err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrMalformedLine, err)
	}
	if req.To, err = strconv.Atoi(fields[1]); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrMalformedLine, err)
	}
	if len(fields) > 2 {
		if req.Weight, err = strconv.Atoi(fields[2]); err != nil {
			return nil, fmt.Errorf("%w: weight: %v", ErrMalformedLine, err)
		}
	}
	if len(fields) > 3 {
		if req.Length, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return nil, fmt.Errorf("%w: length: %v", ErrMalformedLine, err)
		}
	}
	return req, nil
}

// addArc inserts one arc. Repeated lines keep the first arc's attributes.
func addArc(g *graph.Graph, req *validation.EdgeRequest) {
	from, to := graph.VertexID(req.From), graph.VertexID(req.To)
	if g.Vertex(from) != nil && g.Vertex(from).HasNeighbor(to) {
		return
	}
	g.AddEdge(from, to)
	// Both values were validated above.
	_ = g.SetEdgeWeight(from, to, req.Weight)
	_ = g.SetEdgeLength(from, to, req.Length)
}
