package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoTriangles = `# two triangles joined by 3-4
1 2
2 3
1 3
3 4
4 5
5 6
4 6
`

func writeGraph(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write graph: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHelpAndVersion(t *testing.T) {
	code, out, _ := runCLI(t, "help")
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Errorf("help: code %d, output %q", code, out)
	}

	code, out, _ = runCLI(t, "version")
	if code != 0 || !strings.HasPrefix(out, "capgraph ") {
		t.Errorf("version: code %d, output %q", code, out)
	}
}

func TestUsageErrors(t *testing.T) {
	graph := writeGraph(t, twoTriangles)

	tests := []struct {
		name string
		args []string
	}{
		{"missing graph", []string{"stats"}},
		{"unknown command", []string{"-graph", graph, "frobnicate"}},
		{"bad vertex", []string{"-graph", graph, "egonet", "x"}},
		{"path arity", []string{"-graph", graph, "path", "1"}},
		{"bad sub flag", []string{"-graph", graph, "cut", "-k", "many"}},
		{"negative cut", []string{"-graph", graph, "cut", "-k", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code == 0 {
				t.Errorf("Expected failure, got exit 0")
			}
			if !strings.Contains(stderr, "capgraph:") {
				t.Errorf("Expected error on stderr, got %q", stderr)
			}
		})
	}
}

func TestStatsJSON(t *testing.T) {
	graph := writeGraph(t, twoTriangles)

	code, out, stderr := runCLI(t, "-graph", graph, "-json", "stats")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var stats struct {
		Vertices int `json:"vertices"`
		Edges    int `json:"edges"`
		Arcs     int `json:"arcs"`
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("Failed to decode %q: %v", out, err)
	}
	if stats.Vertices != 6 || stats.Edges != 7 || stats.Arcs != 14 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDirectedFlag(t *testing.T) {
	graph := writeGraph(t, "1 2\n2 3\n")

	code, out, stderr := runCLI(t, "-graph", graph, "-directed", "-json", "scc")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var partition [][]int
	if err := json.Unmarshal([]byte(out), &partition); err != nil {
		t.Fatalf("Failed to decode %q: %v", out, err)
	}
	if len(partition) != 3 {
		t.Errorf("directed chain should have 3 components, got %v", partition)
	}
}

func TestPathReport(t *testing.T) {
	graph := writeGraph(t, twoTriangles)

	code, out, stderr := runCLI(t, "-graph", graph, "path", "1", "6")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, "1 → 3 → 4 → 6") {
		t.Errorf("Expected path in output, got:\n%s", out)
	}

	code, out, _ = runCLI(t, "-graph", graph, "path", "1", "99")
	if code != 0 || !strings.Contains(out, "no path") {
		t.Errorf("unknown target: code %d, output:\n%s", code, out)
	}
}

func TestCutJSON(t *testing.T) {
	graph := writeGraph(t, twoTriangles)

	code, out, stderr := runCLI(t, "-graph", graph, "-json", "cut", "-k", "3")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var res struct {
		Removed []struct {
			From    int `json:"from"`
			To      int `json:"to"`
			Traffic int `json:"traffic"`
		}
		Multiclustering bool
		Clusters        [][]int
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Failed to decode %q: %v", out, err)
	}
	if len(res.Removed) != 1 || res.Removed[0].From != 3 || res.Removed[0].To != 4 {
		t.Errorf("removed = %+v", res.Removed)
	}
	if !res.Multiclustering || len(res.Clusters) != 2 {
		t.Errorf("cut = %+v", res)
	}
}

func TestCommunitiesReport(t *testing.T) {
	graph := writeGraph(t, twoTriangles)

	code, out, stderr := runCLI(t, "-graph", graph, "communities", "-floor", "1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	for _, want := range []string{"2 communities", "1 2 3", "4 5 6", "0.3571"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestExportAndEgonet(t *testing.T) {
	graph := writeGraph(t, twoTriangles)

	code, out, stderr := runCLI(t, "-graph", graph, "-json", "egonet", "1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var ego map[string][]int
	if err := json.Unmarshal([]byte(out), &ego); err != nil {
		t.Fatalf("Failed to decode %q: %v", out, err)
	}
	if len(ego) != 3 || len(ego["1"]) != 2 {
		t.Errorf("egonet = %v", ego)
	}

	code, out, _ = runCLI(t, "-graph", graph, "export")
	if code != 0 {
		t.Fatalf("export: exit %d", code)
	}
	found := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Join(strings.Fields(line), " ") == "4: 3 5 6" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected adjacency of 4 in output:\n%s", out)
	}
}

func TestQueryCommand(t *testing.T) {
	graph := writeGraph(t, twoTriangles)

	code, out, stderr := runCLI(t, "-graph", graph, "query", "{ stats { vertices } }")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var res struct {
		Data struct {
			Stats struct{ Vertices int }
		}
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Failed to decode %q: %v", out, err)
	}
	if res.Data.Stats.Vertices != 6 {
		t.Errorf("vertices = %d, want 6", res.Data.Stats.Vertices)
	}

	code, _, _ = runCLI(t, "-graph", graph, "query", "{ nope }")
	if code != 1 {
		t.Errorf("invalid query: exit %d, want 1", code)
	}
}

func TestMetricsOutput(t *testing.T) {
	dir := t.TempDir()
	graph := writeGraph(t, twoTriangles)
	metricsPath := filepath.Join(dir, "metrics.prom")
	configPath := filepath.Join(dir, "capgraph.yaml")
	cfg := "metrics:\n  enabled: true\n  output: " + metricsPath + "\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	code, _, stderr := runCLI(t, "-config", configPath, "-graph", graph, "cut")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}
	for _, want := range []string{"capgraph_edges_cut_total 1", "capgraph_analyses_total"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "capgraph.yaml")
	if err := os.WriteFile(configPath, []byte("community:\n  floor: 0\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	code, _, stderr := runCLI(t, "-config", configPath, "-graph", writeGraph(t, twoTriangles), "stats")
	if code != 1 || !strings.Contains(stderr, "invalid configuration") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}
