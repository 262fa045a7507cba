package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strconv"

	"github.com/DjordjeVuckovic/ann-bench/internal/apperr"
	"github.com/DjordjeVuckovic/ann-bench/internal/dataset"
	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/model"
	"github.com/DjordjeVuckovic/ann-bench/internal/results"
	"golang.org/x/sync/errgroup"
)

// Row is one flattened result record. Reserved columns hold identity;
// everything else is a metric value. A metric a record does not carry
// has no entry at all, which the CSV writer renders as an empty cell.
type Row map[string]string

const (
	ColDataset    = "dataset"
	ColAlgorithm  = "algorithm"
	ColParameters = "parameters"
)

type Options struct {
	Batch     bool
	Recompute bool
	Workers   int
}

// Rows flattens computed MetricRecords of one dataset.
func Rows(datasetName string, records []model.MetricRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			ColDataset:    datasetName,
			ColAlgorithm:  rec.Algorithm,
			ColParameters: serializeParams(rec.Params),
		}
		for name, v := range rec.Metrics {
			row[name] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

func serializeParams(params map[string]any) string {
	if len(params) == 0 {
		return "{}"
	}
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%v", params)
	}
	return string(data)
}

// Columns returns the union of columns across rows: identity columns
// first, then metric columns sorted by name.
func Columns(rows []Row) []string {
	seen := make(map[string]bool)
	var metricCols []string
	for _, row := range rows {
		for col := range row {
			if col == ColDataset || col == ColAlgorithm || col == ColParameters {
				continue
			}
			if !seen[col] {
				seen[col] = true
				metricCols = append(metricCols, col)
			}
		}
	}
	sort.Strings(metricCols)
	return append([]string{ColDataset, ColAlgorithm, ColParameters}, metricCols...)
}

// All walks every dataset in the store, computes metrics for its runs
// and flattens them. Datasets with no runs and datasets whose ground
// truth cannot be loaded are skipped with a diagnostic; they never fail
// the rest of the export. Metric computation is parallel across
// datasets, output order follows the store's dataset listing.
func All(ctx context.Context, store results.Store, provider dataset.Provider, engine *metrics.Engine, opts Options) ([]Row, error) {
	datasets, err := store.ListDatasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	perDataset := make([][]Row, len(datasets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, name := range datasets {
		g.Go(func() error {
			rows, err := Dataset(gctx, store, provider, engine, name, opts)
			if err != nil {
				if errors.Is(err, apperr.ErrDatasetNotFound) {
					slog.Warn("skipping dataset without ground truth", "dataset", name)
					return nil
				}
				return err
			}
			perDataset[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []Row
	for _, dr := range perDataset {
		rows = append(rows, dr...)
	}
	return rows, nil
}

// Dataset computes and flattens metrics for a single dataset. A dataset
// with zero stored runs yields zero rows and no error.
func Dataset(ctx context.Context, store results.Store, provider dataset.Provider, engine *metrics.Engine, name string, opts Options) ([]Row, error) {
	runs, err := results.LoadRuns(ctx, store, name, opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("load runs for %s: %w", name, err)
	}
	if len(runs) == 0 {
		return nil, nil
	}

	gt, _, err := provider.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	records := engine.ComputeAll(name, runs, gt, opts.Recompute)
	return Rows(name, records), nil
}
