package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
	"github.com/google/uuid"
)

const batchDir = "batch"

// Store reads run records from a results directory laid out as
// <root>/<dataset>/<algorithm>/<run>.json, with batch-mode runs under
// <root>/<dataset>/batch/<algorithm>/<run>.json. Files are decoded
// lazily, one at a time.
type Store struct {
	root string
}

type Config struct {
	Root string
}

func NewStore(cfg Config) (*Store, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("results root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("results root %q is not a directory", cfg.Root)
	}
	return &Store{root: cfg.Root}, nil
}

func (s *Store) ListDatasets(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) IterateRuns(ctx context.Context, dataset string, batch bool, fn func(model.RunRecord) error) error {
	dir := filepath.Join(s.root, dataset)
	if batch {
		dir = filepath.Join(dir, batchDir)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil // no runs stored for this dataset
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			// Batch runs are listed only when asked for.
			if !batch && d.Name() == batchDir && filepath.Dir(path) == filepath.Join(s.root, dataset) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		run, err := s.readRun(path, dataset, batch)
		if err != nil {
			slog.Warn("skipping unreadable run file", "path", path, "error", err)
			return nil
		}
		return fn(run)
	})
}

func (s *Store) Close() error {
	return nil
}

// runFile is the on-disk shape. Optional counters are pointers so a
// missing field stays distinguishable from zero.
type runFile struct {
	ID          uuid.UUID      `json:"id"`
	Algorithm   string         `json:"algorithm"`
	Params      map[string]any `json:"params"`
	Neighbors   [][]int        `json:"neighbors"`
	Distances   [][]float64    `json:"distances"`
	Times       []float64      `json:"times"`
	BuildTime   *float64       `json:"build_time"`
	IndexSizeKB *float64       `json:"index_size_kb"`
	DistComps   *float64       `json:"dist_comps"`
	Candidates  *float64       `json:"candidates"`
}

func (s *Store) readRun(path, dataset string, batch bool) (model.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RunRecord{}, fmt.Errorf("read run file: %w", err)
	}

	var rf runFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return model.RunRecord{}, fmt.Errorf("decode run file: %w", err)
	}

	algorithm := rf.Algorithm
	if algorithm == "" {
		algorithm = filepath.Base(filepath.Dir(path))
	}

	id := rf.ID
	if id == uuid.Nil {
		// Derive a stable identity from the file location.
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			rel = path
		}
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(rel))
	}

	return model.RunRecord{
		ID:          id,
		Algorithm:   algorithm,
		Dataset:     dataset,
		BatchMode:   batch,
		Params:      rf.Params,
		Neighbors:   rf.Neighbors,
		Distances:   rf.Distances,
		Times:       rf.Times,
		BuildTime:   optional(rf.BuildTime),
		IndexSizeKB: optional(rf.IndexSizeKB),
		DistComps:   optional(rf.DistComps),
		Candidates:  optional(rf.Candidates),
	}, nil
}

func optional(v *float64) float64 {
	if v == nil {
		return -1
	}
	return *v
}
