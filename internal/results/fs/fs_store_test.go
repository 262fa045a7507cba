package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
	"github.com/DjordjeVuckovic/ann-bench/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRun(t *testing.T, root, dataset, algorithm, name string, run map[string]any) {
	t.Helper()
	dir := filepath.Join(root, dataset, algorithm)
	require.NoError(t, os.MkdirAll(dir, 0755))
	data, err := json.Marshal(run)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

func sampleRun(algorithm string) map[string]any {
	return map[string]any{
		"algorithm": algorithm,
		"params":    map[string]any{"ef": 10},
		"neighbors": [][]int{{1, 2}},
		"distances": [][]float64{{0.1, 0.2}},
		"times":     []float64{0.001},
	}
}

func TestListDatasets(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "glove-100-angular", "hnsw", "run1", sampleRun("hnsw"))
	writeRun(t, root, "sift-128-euclidean", "annoy", "run1", sampleRun("annoy"))

	store, err := NewStore(Config{Root: root})
	require.NoError(t, err)
	defer store.Close()

	datasets, err := store.ListDatasets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"glove-100-angular", "sift-128-euclidean"}, datasets)
}

func TestIterateRuns(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "glove-100-angular", "hnsw", "run1", sampleRun("hnsw"))
	writeRun(t, root, "glove-100-angular", "hnsw", "run2", sampleRun("hnsw"))
	writeRun(t, root, "glove-100-angular", "annoy", "run1", sampleRun("annoy"))

	store, err := NewStore(Config{Root: root})
	require.NoError(t, err)
	defer store.Close()

	runs, err := results.LoadRuns(context.Background(), store, "glove-100-angular", false)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	for _, r := range runs {
		assert.Equal(t, "glove-100-angular", r.Dataset)
		assert.NotEmpty(t, r.Algorithm)
		// Optional counters absent in the files map to the sentinel.
		assert.Equal(t, float64(-1), r.DistComps)
	}
}

func TestIterateRuns_BatchSeparation(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "glove-100-angular", "hnsw", "run1", sampleRun("hnsw"))
	writeRun(t, root, filepath.Join("glove-100-angular", "batch"), "hnsw", "run1", sampleRun("hnsw"))

	store, err := NewStore(Config{Root: root})
	require.NoError(t, err)
	defer store.Close()

	normal, err := results.LoadRuns(context.Background(), store, "glove-100-angular", false)
	require.NoError(t, err)
	require.Len(t, normal, 1)
	assert.False(t, normal[0].BatchMode)

	batch, err := results.LoadRuns(context.Background(), store, "glove-100-angular", true)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.True(t, batch[0].BatchMode)
}

func TestIterateRuns_UnknownDatasetIsEmpty(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(Config{Root: root})
	require.NoError(t, err)
	defer store.Close()

	runs, err := results.LoadRuns(context.Background(), store, "no-such-dataset", false)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestIterateRuns_SkipsCorruptFiles(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "glove-100-angular", "hnsw", "good", sampleRun("hnsw"))

	dir := filepath.Join(root, "glove-100-angular", "hnsw")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644))

	store, err := NewStore(Config{Root: root})
	require.NoError(t, err)
	defer store.Close()

	runs, err := results.LoadRuns(context.Background(), store, "glove-100-angular", false)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestReadRun_StableIdentity(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "glove-100-angular", "hnsw", "run1", sampleRun("hnsw"))

	store, err := NewStore(Config{Root: root})
	require.NoError(t, err)
	defer store.Close()

	load := func() model.RunRecord {
		runs, err := results.LoadRuns(context.Background(), store, "glove-100-angular", false)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		return runs[0]
	}

	assert.Equal(t, load().ID, load().ID)
}
