package plotting

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/ann-bench/internal/dataset"
	"github.com/DjordjeVuckovic/ann-bench/internal/frontier"
	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/results"
)

type DataOptions struct {
	Batch     bool
	Recompute bool
	// Algorithms restricts the chart to the named algorithms; empty
	// means all.
	Algorithms []string
}

// BuildPointSets loads one dataset's runs, computes their metrics and
// reduces each algorithm's point cloud to a frontier on the (xm, ym)
// axes. Point sets whose projection is empty are kept out of the
// result; rendering decides whether having none at all is fatal.
func BuildPointSets(ctx context.Context, store results.Store, provider dataset.Provider, engine *metrics.Engine, name string, xm, ym metrics.Metric, opts DataOptions) ([]frontier.PointSet, error) {
	runs, err := results.LoadRuns(ctx, store, name, opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("load runs for %s: %w", name, err)
	}

	gt, _, err := provider.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	records := engine.ComputeAll(name, runs, gt, opts.Recompute)

	allowed := make(map[string]bool, len(opts.Algorithms))
	for _, a := range opts.Algorithms {
		allowed[a] = true
	}

	grouped, order := frontier.GroupByAlgorithm(records)

	var sets []frontier.PointSet
	for _, algorithm := range order {
		if len(allowed) > 0 && !allowed[algorithm] {
			continue
		}
		ps := frontier.Reduce(grouped[algorithm], xm, ym)
		if len(ps.All) == 0 {
			continue
		}
		ps.Algorithm = algorithm
		sets = append(sets, ps)
	}
	return sets, nil
}
