package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-capgraph/pkg/config"
	"github.com/dd0wney/cluso-capgraph/pkg/graph"
	"github.com/dd0wney/cluso-capgraph/pkg/logging"
	"github.com/dd0wney/cluso-capgraph/pkg/metrics"
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

func newTestEngine(t *testing.T) (*Engine, *metrics.Registry) {
	t.Helper()
	reg := metrics.NewRegistry()
	e, err := FromReader(strings.NewReader(twoTriangles), config.Default(), logging.NewNopLogger(), reg)
	require.NoError(t, err)
	return e, reg
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestFromReader(t *testing.T) {
	e, reg := newTestEngine(t)

	stats := e.Stats()
	assert.Equal(t, 6, stats.Vertices)
	assert.Equal(t, 7, stats.Edges)
	assert.Equal(t, 14, stats.Arcs)
	assert.False(t, stats.Multiclustering)

	assert.Equal(t, 7.0, counterValue(t, reg.LoaderLinesTotal.WithLabelValues("edge")))
	assert.Equal(t, 1.0, counterValue(t, reg.LoaderLinesTotal.WithLabelValues("skipped")))
	assert.Equal(t, 6.0, gaugeValue(t, reg.GraphVerticesTotal))
}

func TestFromReaderMalformed(t *testing.T) {
	_, err := FromReader(strings.NewReader("1 2\n1 x\n"), config.Default(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestNewRequireSymmetric(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge(1, 2)

	_, err := New(g, Options{RequireSymmetric: true}, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrAsymmetricGraph)

	e, err := New(g, DefaultOptions(), nil, nil)
	require.NoError(t, err)
	assert.Same(t, g, e.Graph())
}

func TestEngineEgonet(t *testing.T) {
	e, _ := newTestEngine(t)

	ego := e.Egonet(3)
	assert.Equal(t, []graph.VertexID{1, 2, 3, 4}, ego.Vertices())

	assert.Equal(t, 0, e.Egonet(42).NumVertices())
}

func TestEngineSCC(t *testing.T) {
	e, _ := newTestEngine(t)

	res := e.StronglyConnectedComponents()
	assert.Len(t, res.Components, 1)
	assert.Equal(t, 0, res.SingletonCount)
}

func TestEngineShortestPath(t *testing.T) {
	e, reg := newTestEngine(t)

	res := e.ShortestPath(1, 6)
	require.True(t, res.Found)
	assert.Equal(t, []graph.VertexID{1, 3, 4, 6}, res.Path)
	assert.Equal(t, 0.0, counterValue(t, reg.ShortestPathFailures))

	res = e.ShortestPath(1, 99)
	assert.False(t, res.Found)
	assert.False(t, e.Graph().Multiclustering())
	assert.Equal(t, 1.0, counterValue(t, reg.ShortestPathFailures))
}

func TestEngineCut(t *testing.T) {
	e, reg := newTestEngine(t)

	res, err := e.Cut(1, 0)
	require.NoError(t, err)
	require.Len(t, res.Removed, 1)
	assert.Equal(t, graph.VertexID(3), res.Removed[0].From)
	assert.Equal(t, graph.VertexID(4), res.Removed[0].To)
	assert.Equal(t, 9, res.Removed[0].Traffic)
	assert.True(t, res.Multiclustering)
	assert.Equal(t, [][]graph.VertexID{{1, 2, 3}, {4, 5, 6}}, res.Clusters)

	assert.Equal(t, 1.0, counterValue(t, reg.EdgesCutTotal))
	assert.Equal(t, 1.0, gaugeValue(t, reg.GraphMulticlustering))
	assert.Equal(t, 6, e.Stats().Edges)

	// Further cuts stop immediately once the graph is split.
	res, err = e.CutDefault()
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
}

func TestEngineCutRejectsNegative(t *testing.T) {
	e, reg := newTestEngine(t)

	_, err := e.Cut(-1, 0)
	assert.Error(t, err)
	_, err = e.Cut(1, -5)
	assert.Error(t, err)

	assert.Equal(t, 7, e.Graph().NumEdges())
	assert.Equal(t, 0.0, counterValue(t, reg.EdgesCutTotal))
}

func TestEngineDetectCommunities(t *testing.T) {
	e, reg := newTestEngine(t)

	assert.InDelta(t, -34.0/196.0, e.Modularity(), 1e-9)

	res, err := e.DetectCommunitiesDefault()
	require.NoError(t, err)
	assert.Equal(t, [][]graph.VertexID{{1, 2, 3}, {4, 5, 6}}, res.Partition())
	assert.InDelta(t, 5.0/14.0, res.Modularity, 1e-9)
	assert.Same(t, res, e.LastCommunities())

	// Detection works on a copy.
	assert.Equal(t, 6, e.Graph().NumVertices())
	assert.InDelta(t, 5.0/14.0, e.Modularity(), 1e-9)

	assert.Equal(t, 2.0, gaugeValue(t, reg.CommunitiesTotal))
	assert.InDelta(t, 5.0/14.0, gaugeValue(t, reg.CommunityModularity), 1e-9)
}

func TestEngineDetectCommunitiesRejectsBadFloor(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.DetectCommunities(0, 0)
	assert.Error(t, err)
	_, err = e.DetectCommunities(1, 65)
	assert.Error(t, err)
	assert.Nil(t, e.LastCommunities())
}

func TestEngineComponentsAndCoefficients(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Len(t, e.Components().Communities, 1)

	coefficients, avg, err := e.ClusteringCoefficients()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, coefficients[1], 1e-9)
	assert.InDelta(t, 1.0/3.0, coefficients[3], 1e-9)
	assert.False(t, math.IsNaN(avg))

	assert.InDelta(t, (4.0+2.0/3.0)/6.0, avg, 1e-9)

	lp, err := e.LabelPropagation(10)
	require.NoError(t, err)
	assert.NotEmpty(t, lp.Communities)

	_, err = e.LabelPropagation(0)
	assert.Error(t, err)
}

func TestEngineRuns(t *testing.T) {
	e, reg := newTestEngine(t)

	e.Stats()
	e.Export()
	_, _ = e.Cut(-1, 0)
	e.ShortestPath(1, 2)

	runs := e.Runs()
	require.Len(t, runs, 4)
	seen := map[string]bool{}
	for _, r := range runs {
		_, err := uuid.Parse(r.ID)
		assert.NoError(t, err)
		assert.False(t, seen[r.ID], "duplicate run id %s", r.ID)
		seen[r.ID] = true
	}
	assert.Equal(t, AnalysisStats, runs[0].Analysis)
	assert.Equal(t, AnalysisCut, runs[2].Analysis)
	assert.Equal(t, AnalysisPath, runs[3].Analysis)

	assert.Equal(t, 1.0, counterValue(t, reg.AnalysesTotal.WithLabelValues(AnalysisExport, metrics.StatusSuccess)))
	assert.Equal(t, 1.0, counterValue(t, reg.AnalysesTotal.WithLabelValues(AnalysisCut, metrics.StatusError)))
}

func TestEngineLogsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)

	e, err := FromReader(strings.NewReader(twoTriangles), config.Default(), logger, nil)
	require.NoError(t, err)
	e.ShortestPath(1, 6)

	var finished map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "analysis finished" {
			finished = entry
		}
	}
	require.NotNil(t, finished)
	assert.Equal(t, AnalysisPath, finished["analysis"])
	assert.Equal(t, "analysis", finished["component"])
	assert.Equal(t, e.Runs()[0].ID, finished["run_id"])
	assert.Equal(t, float64(3), finished["hops"])
}

func TestEngineMissingPathLogsWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)
	reg := metrics.NewRegistry()

	e, err := FromReader(strings.NewReader(twoTriangles), config.Default(), logger, reg)
	require.NoError(t, err)
	buf.Reset()
	e.ShortestPath(1, 99)

	var finished map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &finished))
	assert.Equal(t, "analysis finished", finished["msg"])
	assert.Equal(t, "WARN", finished["level"])
	assert.Equal(t, false, finished["disconnected"])
	assert.Equal(t, 1.0, counterValue(t, reg.AnalysesTotal.WithLabelValues(AnalysisPath, metrics.StatusSuccess)))
	assert.Equal(t, 0.0, counterValue(t, reg.AnalysesTotal.WithLabelValues(AnalysisPath, metrics.StatusError)))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Clustering.MaxCuts = 4
	cfg.Community.Floor = 2
	cfg.Graph.RequireSymmetric = true

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, Options{RequireSymmetric: true, MaxCuts: 4, Floor: 2}, opts)
}

func TestEngineView(t *testing.T) {
	e, _ := newTestEngine(t)

	var degree int
	e.View(func(g *graph.Graph) {
		degree = g.Vertex(3).OutDegree()
	})
	assert.Equal(t, 3, degree)
}
