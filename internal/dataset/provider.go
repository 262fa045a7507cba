package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/ann-bench/internal/apperr"
	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

// Provider supplies the precomputed exact-neighbor ground truth for a
// named dataset.
type Provider interface {
	Get(ctx context.Context, name string) (*model.GroundTruth, *model.Dataset, error)
}

// FSProvider reads ground truth from <root>/<name>.json.
type FSProvider struct {
	root string
}

func NewFSProvider(root string) *FSProvider {
	return &FSProvider{root: root}
}

type datasetFile struct {
	Metric     string      `json:"metric"`
	Dimension  int         `json:"dimension"`
	PointCount int         `json:"point_count"`
	Neighbors  [][]int     `json:"neighbors"`
	Distances  [][]float64 `json:"distances"`
}

func (p *FSProvider) Get(_ context.Context, name string) (*model.GroundTruth, *model.Dataset, error) {
	path := filepath.Join(p.root, name+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("dataset %q: %w", name, apperr.ErrDatasetNotFound)
		}
		return nil, nil, fmt.Errorf("read dataset %q: %w", name, err)
	}

	var df datasetFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, nil, fmt.Errorf("decode dataset %q: %w", name, err)
	}
	if len(df.Distances) == 0 {
		return nil, nil, fmt.Errorf("dataset %q has no ground-truth distances", name)
	}

	gt := &model.GroundTruth{
		Neighbors: df.Neighbors,
		Distances: df.Distances,
	}
	meta := &model.Dataset{
		Name:       name,
		Metric:     df.Metric,
		Dimension:  df.Dimension,
		PointCount: df.PointCount,
		QueryCount: len(df.Distances),
	}
	return gt, meta, nil
}

// StaticProvider serves fixed ground truth from memory. Test helper and
// embedding seam for callers that already hold the arrays.
type StaticProvider struct {
	datasets map[string]staticEntry
}

type staticEntry struct {
	gt   *model.GroundTruth
	meta *model.Dataset
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{datasets: make(map[string]staticEntry)}
}

func (p *StaticProvider) Add(name string, gt *model.GroundTruth, meta *model.Dataset) {
	if meta == nil {
		meta = &model.Dataset{Name: name, QueryCount: len(gt.Distances)}
	}
	p.datasets[name] = staticEntry{gt: gt, meta: meta}
}

func (p *StaticProvider) Get(_ context.Context, name string) (*model.GroundTruth, *model.Dataset, error) {
	entry, ok := p.datasets[name]
	if !ok {
		return nil, nil, fmt.Errorf("dataset %q: %w", name, apperr.ErrDatasetNotFound)
	}
	return entry.gt, entry.meta, nil
}
