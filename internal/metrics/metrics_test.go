package metrics

import (
	"testing"

	"github.com/DjordjeVuckovic/ann-bench/internal/metriccache"
	"github.com/DjordjeVuckovic/ann-bench/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(algorithm string, distances [][]float64, times []float64) model.RunRecord {
	neighbors := make([][]int, len(distances))
	for i, ds := range distances {
		neighbors[i] = make([]int, len(ds))
		for j := range ds {
			neighbors[i][j] = i*100 + j
		}
	}
	return model.RunRecord{
		ID:          uuid.New(),
		Algorithm:   algorithm,
		Dataset:     "test-dataset",
		Params:      map[string]any{"ef": 10},
		Neighbors:   neighbors,
		Distances:   distances,
		Times:       times,
		BuildTime:   -1,
		IndexSizeKB: -1,
		DistComps:   -1,
		Candidates:  -1,
	}
}

func TestRecall_PerfectRun(t *testing.T) {
	gt := &model.GroundTruth{
		Distances: [][]float64{
			{0.1, 0.2, 0.3},
			{0.4, 0.5, 0.6},
		},
	}
	run := newRun("flat", [][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}, []float64{0.001, 0.001})

	e := NewEngine(WithK(3))
	v, ok := e.Compute("k-nn", &run, gt)
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-12)
}

func TestRecall_Bounds(t *testing.T) {
	gt := &model.GroundTruth{
		Distances: [][]float64{
			{0.1, 0.2, 0.3, 0.4, 0.5},
			{0.1, 0.2, 0.3, 0.4, 0.5},
		},
	}

	tests := []struct {
		name      string
		distances [][]float64
	}{
		{
			name: "all misses",
			distances: [][]float64{
				{9, 9, 9, 9, 9},
				{9, 9, 9, 9, 9},
			},
		},
		{
			name: "partial hits",
			distances: [][]float64{
				{0.1, 9, 9, 9, 9},
				{0.1, 0.2, 9, 9, 9},
			},
		},
		{
			name: "more returned than k",
			distances: [][]float64{
				{0.1, 0.2, 0.3, 0.4, 0.5, 0.01, 0.02},
				{0.1, 0.2, 0.3, 0.4, 0.5, 0.01, 0.02},
			},
		},
	}

	e := NewEngine(WithK(5))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newRun("hnsw", tt.distances, []float64{0.001, 0.001})
			v, ok := e.Compute("k-nn", &run, gt)
			require.True(t, ok)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		})
	}
}

func TestRecall_DistanceTieCountsAsCorrect(t *testing.T) {
	// The run returned a neighbor whose index differs from the true
	// k-th neighbor but whose distance ties with it. Distance-based
	// matching must count it as a hit.
	gt := &model.GroundTruth{
		Distances: [][]float64{{0.1, 0.2, 0.5}},
	}
	run := newRun("hnsw", [][]float64{{0.1, 0.2, 0.5000001}}, []float64{0.001})

	e := NewEngine(WithK(3), WithEpsilon(1e-3))
	v, ok := e.Compute("k-nn", &run, gt)
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-12)

	// With a tolerance tighter than the gap, the tie no longer counts.
	strict := NewEngine(WithK(3), WithEpsilon(1e-9))
	v, ok = strict.Compute("k-nn", &run, gt)
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, v, 1e-12)
}

func TestEpsilonRecall_RelativeThreshold(t *testing.T) {
	gt := &model.GroundTruth{
		Distances: [][]float64{{1.0, 2.0, 10.0}},
	}
	// 10.9 is within 10.0*1.1 for largeepsilon but outside 10.0*1.01.
	run := newRun("annoy", [][]float64{{1.0, 2.0, 10.9}}, []float64{0.001})

	e := NewEngine(WithK(3))

	v, ok := e.Compute("largeepsilon", &run, gt)
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-12)

	v, ok = e.Compute("epsilon", &run, gt)
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, v, 1e-12)
}

func TestQPS(t *testing.T) {
	run := newRun("flat", [][]float64{{0.1}, {0.1}}, []float64{0.001, 0.003})

	e := NewEngine()
	v, ok := e.Compute("qps", &run, &model.GroundTruth{})
	require.True(t, ok)
	assert.InDelta(t, 500.0, v, 1e-9) // 1 / mean(1ms, 3ms)
}

func TestLatencyPercentiles(t *testing.T) {
	times := []float64{0.001, 0.002, 0.003, 0.004, 0.005}
	run := newRun("flat", nil, times)
	run.Distances = nil

	e := NewEngine()
	p50, ok := e.Compute("p50", &run, &model.GroundTruth{})
	require.True(t, ok)
	assert.InDelta(t, 3.0, p50, 1e-9)

	p99, ok := e.Compute("p99", &run, &model.GroundTruth{})
	require.True(t, ok)
	assert.Greater(t, p99, p50)
	assert.LessOrEqual(t, p99, 5.0)
}

func TestOptionalCounters_AbsentNotZero(t *testing.T) {
	gt := &model.GroundTruth{Distances: [][]float64{{0.1}}}
	run := newRun("hnsw", [][]float64{{0.1}}, []float64{0.001})

	e := NewEngine(WithK(1))
	rec, err := e.ComputeRecord(&run, gt)
	require.NoError(t, err)

	_, ok := rec.Value("distcomps")
	assert.False(t, ok, "distcomps must be absent when the counter is missing")
	_, ok = rec.Value("build")
	assert.False(t, ok)
	_, ok = rec.Value("indexsize")
	assert.False(t, ok)

	run.DistComps = 250
	run.BuildTime = 12.5
	rec, err = e.ComputeRecord(&run, gt)
	require.NoError(t, err)

	v, ok := rec.Value("distcomps")
	require.True(t, ok)
	assert.InDelta(t, 250.0, v, 1e-9)
	v, ok = rec.Value("build")
	require.True(t, ok)
	assert.InDelta(t, 12.5, v, 1e-9)
}

func TestComputeRecord_MalformedRun(t *testing.T) {
	gt := &model.GroundTruth{Distances: [][]float64{{0.1}, {0.1}, {0.1}}}

	run := newRun("hnsw", [][]float64{{0.1}, {0.1}, {0.1}}, []float64{0.001, 0.001, 0.001})
	run.Neighbors = run.Neighbors[:1] // shorter than query count

	e := NewEngine(WithK(1))
	_, err := e.ComputeRecord(&run, gt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neighbors length")
}

func TestComputeAll_MalformedRunSkipped(t *testing.T) {
	gt := &model.GroundTruth{Distances: [][]float64{{0.1}, {0.1}}}

	good := newRun("hnsw", [][]float64{{0.1}, {0.1}}, []float64{0.001, 0.001})
	bad := newRun("hnsw", [][]float64{{0.1}}, []float64{0.001, 0.001})
	bad.Params = map[string]any{"ef": 20}

	e := NewEngine(WithK(1))
	records := e.ComputeAll("test-dataset", []model.RunRecord{good, bad}, gt, false)

	require.Len(t, records, 1)
	assert.Equal(t, good.Params, records[0].Params)
}

func TestComputeAll_CacheIdempotence(t *testing.T) {
	gt := &model.GroundTruth{Distances: [][]float64{{0.1, 0.2}}}
	runs := []model.RunRecord{
		newRun("hnsw", [][]float64{{0.1, 0.2}}, []float64{0.002}),
	}

	e := NewEngine(WithK(2), WithCache(metriccache.NewMemory()))

	first := e.ComputeAll("test-dataset", runs, gt, false)
	require.Len(t, first, 1)

	// Second pass must be served from cache with identical values.
	second := e.ComputeAll("test-dataset", runs, gt, false)
	require.Len(t, second, 1)
	assert.Equal(t, first, second)

	// Forced recompute overwrites but still yields the same values.
	third := e.ComputeAll("test-dataset", runs, gt, true)
	require.Len(t, third, 1)
	assert.Equal(t, first, third)
}

func TestCompute_UnknownMetric(t *testing.T) {
	run := newRun("flat", [][]float64{{0.1}}, []float64{0.001})
	e := NewEngine()

	_, ok := e.Compute("no-such-metric", &run, &model.GroundTruth{})
	assert.False(t, ok)
}

func TestNames_ContainsRequiredMetrics(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "k-nn")
	assert.Contains(t, names, "qps")
	assert.Contains(t, names, "distcomps")
}

func TestMetricOrientation(t *testing.T) {
	knn, ok := Lookup("k-nn")
	require.True(t, ok)
	assert.True(t, knn.Better(0.9, 0.5))

	p50, ok := Lookup("p50")
	require.True(t, ok)
	assert.True(t, p50.Better(1.0, 5.0))
	assert.True(t, p50.BetterOrEqual(1.0, 1.0))
}
