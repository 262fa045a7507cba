package frontier

import (
	"testing"

	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, name string) metrics.Metric {
	t.Helper()
	m, ok := metrics.Lookup(name)
	require.True(t, ok)
	return m
}

func rec(algorithm string, values map[string]float64) model.MetricRecord {
	return model.MetricRecord{
		Algorithm: algorithm,
		Dataset:   "test-dataset",
		Metrics:   values,
	}
}

func TestReduce_TradeOffCurveKeepsAllPoints(t *testing.T) {
	// Three points, each better on a different axis: none dominates
	// another, so all three belong to the frontier.
	records := []model.MetricRecord{
		rec("a", map[string]float64{"k-nn": 0.5, "qps": 100}),
		rec("a", map[string]float64{"k-nn": 0.9, "qps": 10}),
		rec("a", map[string]float64{"k-nn": 0.6, "qps": 90}),
	}

	ps := Reduce(records, mustLookup(t, "k-nn"), mustLookup(t, "qps"))

	require.Len(t, ps.All, 3)
	require.Len(t, ps.Frontier, 3)
	assert.Equal(t, []Point{
		{X: 0.5, Y: 100, Algorithm: "a"},
		{X: 0.6, Y: 90, Algorithm: "a"},
		{X: 0.9, Y: 10, Algorithm: "a"},
	}, ps.Frontier)
}

func TestReduce_DominatedPointDropped(t *testing.T) {
	records := []model.MetricRecord{
		rec("a", map[string]float64{"k-nn": 0.5, "qps": 100}),
		rec("a", map[string]float64{"k-nn": 0.4, "qps": 50}), // dominated by the first
		rec("a", map[string]float64{"k-nn": 0.9, "qps": 10}),
	}

	ps := Reduce(records, mustLookup(t, "k-nn"), mustLookup(t, "qps"))

	require.Len(t, ps.Frontier, 2)
	require.Len(t, ps.All, 3)
	for _, p := range ps.Frontier {
		assert.NotEqual(t, 0.4, p.X)
	}
}

func TestReduce_MissingMetricDropsRecord(t *testing.T) {
	records := []model.MetricRecord{
		rec("a", map[string]float64{"k-nn": 0.5, "qps": 100}),
		rec("a", map[string]float64{"k-nn": 0.8}), // no qps
	}

	ps := Reduce(records, mustLookup(t, "k-nn"), mustLookup(t, "qps"))

	assert.Len(t, ps.All, 1)
	assert.Len(t, ps.Frontier, 1)
}

func TestReduce_EmptyInput(t *testing.T) {
	ps := Reduce(nil, mustLookup(t, "k-nn"), mustLookup(t, "qps"))
	assert.Empty(t, ps.Frontier)
	assert.Empty(t, ps.All)
}

func TestReduce_AllPointsIdentical(t *testing.T) {
	records := []model.MetricRecord{
		rec("a", map[string]float64{"k-nn": 0.7, "qps": 50}),
		rec("a", map[string]float64{"k-nn": 0.7, "qps": 50}),
		rec("a", map[string]float64{"k-nn": 0.7, "qps": 50}),
	}

	ps := Reduce(records, mustLookup(t, "k-nn"), mustLookup(t, "qps"))

	require.Len(t, ps.Frontier, 1)
	assert.Equal(t, 0.7, ps.Frontier[0].X)
	assert.Len(t, ps.All, 3)
}

func TestReduce_TieOnXKeepsBetterY(t *testing.T) {
	records := []model.MetricRecord{
		rec("a", map[string]float64{"k-nn": 0.7, "qps": 50}),
		rec("a", map[string]float64{"k-nn": 0.7, "qps": 80}),
	}

	ps := Reduce(records, mustLookup(t, "k-nn"), mustLookup(t, "qps"))

	require.Len(t, ps.Frontier, 1)
	assert.Equal(t, 80.0, ps.Frontier[0].Y)
}

func TestReduce_LowerIsBetterAxis(t *testing.T) {
	// qps vs p95: higher-is-better x, lower-is-better y.
	records := []model.MetricRecord{
		rec("a", map[string]float64{"qps": 100, "p95": 5}),
		rec("a", map[string]float64{"qps": 200, "p95": 8}),
		rec("a", map[string]float64{"qps": 150, "p95": 9}), // dominated by qps=200
	}

	ps := Reduce(records, mustLookup(t, "qps"), mustLookup(t, "p95"))

	require.Len(t, ps.Frontier, 2)
	assert.Equal(t, []Point{
		{X: 100, Y: 5, Algorithm: "a"},
		{X: 200, Y: 8, Algorithm: "a"},
	}, ps.Frontier)
}

func TestReduce_FrontierMonotonicAndNonDominated(t *testing.T) {
	xm, ym := mustLookup(t, "k-nn"), mustLookup(t, "qps")

	records := []model.MetricRecord{
		rec("a", map[string]float64{"k-nn": 0.50, "qps": 900}),
		rec("a", map[string]float64{"k-nn": 0.55, "qps": 950}),
		rec("a", map[string]float64{"k-nn": 0.70, "qps": 600}),
		rec("a", map[string]float64{"k-nn": 0.70, "qps": 700}),
		rec("a", map[string]float64{"k-nn": 0.85, "qps": 650}),
		rec("a", map[string]float64{"k-nn": 0.90, "qps": 100}),
		rec("a", map[string]float64{"k-nn": 0.95, "qps": 90}),
		rec("a", map[string]float64{"k-nn": 0.30, "qps": 10}),
	}

	ps := Reduce(records, xm, ym)
	require.NotEmpty(t, ps.Frontier)

	// Strictly monotonic in x, weakly monotonic (degrading) in y along
	// ascending x.
	for i := 1; i < len(ps.Frontier); i++ {
		assert.Greater(t, ps.Frontier[i].X, ps.Frontier[i-1].X)
		assert.Less(t, ps.Frontier[i].Y, ps.Frontier[i-1].Y)
	}

	// No raw point may dominate a frontier point.
	for _, f := range ps.Frontier {
		for _, p := range ps.All {
			assert.False(t, Dominates(p, f, xm, ym),
				"point (%v,%v) dominates frontier point (%v,%v)", p.X, p.Y, f.X, f.Y)
		}
	}
}

func TestDominates(t *testing.T) {
	xm, ym := mustLookup(t, "k-nn"), mustLookup(t, "qps")

	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"strictly better both", Point{X: 0.9, Y: 100}, Point{X: 0.5, Y: 50}, true},
		{"equal both", Point{X: 0.9, Y: 100}, Point{X: 0.9, Y: 100}, false},
		{"better x worse y", Point{X: 0.9, Y: 10}, Point{X: 0.5, Y: 50}, false},
		{"equal x better y", Point{X: 0.9, Y: 100}, Point{X: 0.9, Y: 50}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dominates(tt.a, tt.b, xm, ym))
		})
	}
}

func TestGroupByAlgorithm(t *testing.T) {
	records := []model.MetricRecord{
		rec("hnsw", map[string]float64{"k-nn": 0.9}),
		rec("annoy", map[string]float64{"k-nn": 0.8}),
		rec("hnsw", map[string]float64{"k-nn": 0.7}),
	}

	grouped, order := GroupByAlgorithm(records)

	assert.Equal(t, []string{"hnsw", "annoy"}, order)
	assert.Len(t, grouped["hnsw"], 2)
	assert.Len(t, grouped["annoy"], 1)
}

func TestGroupByPrefix(t *testing.T) {
	groups := GroupByPrefix([]string{"hnsw-m16", "hnsw-m32", "annoy", "faiss-ivf"}, "-")

	assert.Equal(t, []string{"hnsw-m16", "hnsw-m32"}, groups["hnsw"])
	assert.Equal(t, []string{"annoy"}, groups["annoy"])
	assert.Equal(t, []string{"faiss-ivf"}, groups["faiss"])
}
