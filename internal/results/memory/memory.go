package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

// Store is an in-memory results store used in tests and by callers that
// assemble run records programmatically.
type Store struct {
	mu   sync.RWMutex
	runs []model.RunRecord
}

func NewStore(runs ...model.RunRecord) *Store {
	return &Store{runs: runs}
}

func (s *Store) Add(runs ...model.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, runs...)
}

func (s *Store) ListDatasets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for _, r := range s.runs {
		if !seen[r.Dataset] {
			seen[r.Dataset] = true
			names = append(names, r.Dataset)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) IterateRuns(ctx context.Context, dataset string, batch bool, fn func(model.RunRecord) error) error {
	s.mu.RLock()
	runs := make([]model.RunRecord, len(s.runs))
	copy(runs, s.runs)
	s.mu.RUnlock()

	for _, r := range runs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Dataset != dataset || r.BatchMode != batch {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
