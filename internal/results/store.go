package results

import (
	"context"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

type Type string

const (
	FS    Type = "fs"
	PG    Type = "postgres"
	InMem Type = "inmem"
)

// Store is the read-only surface over stored benchmark runs, organized
// by dataset/algorithm/run. The pipeline may iterate a dataset more
// than once.
type Store interface {
	ListDatasets(ctx context.Context) ([]string, error)
	// IterateRuns streams the run records of one dataset in storage
	// order, calling fn for each. Returning an error from fn stops the
	// iteration.
	IterateRuns(ctx context.Context, dataset string, batch bool, fn func(model.RunRecord) error) error
	Close() error
}

// LoadRuns drains IterateRuns into a slice.
func LoadRuns(ctx context.Context, s Store, dataset string, batch bool) ([]model.RunRecord, error) {
	var runs []model.RunRecord
	err := s.IterateRuns(ctx, dataset, batch, func(r model.RunRecord) error {
		runs = append(runs, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
