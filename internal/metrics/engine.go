package metrics

import (
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/ann-bench/internal/apperr"
	"github.com/DjordjeVuckovic/ann-bench/internal/metriccache"
	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

// Engine derives MetricRecords from raw run records. It is stateless
// apart from the cache, which memoizes records per run fingerprint.
type Engine struct {
	opts  Options
	cache metriccache.Cache
}

type EngineOption func(*Engine)

func WithK(k int) EngineOption {
	return func(e *Engine) { e.opts.K = k }
}

func WithEpsilon(eps float64) EngineOption {
	return func(e *Engine) { e.opts.Epsilon = eps }
}

func WithCache(c metriccache.Cache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		opts:  Options{K: DefaultK, Epsilon: DefaultEpsilon},
		cache: metriccache.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute derives one named metric for one run. The bool is false when
// the metric is unknown or the run lacks the raw data it needs.
func (e *Engine) Compute(name string, run *model.RunRecord, gt *model.GroundTruth) (float64, bool) {
	m, ok := registry[name]
	if !ok {
		return 0, false
	}
	return m.Compute(run, gt, e.opts)
}

// ComputeRecord derives every supported metric for one run. A run whose
// raw arrays disagree with its query count is a hard error for that run.
func (e *Engine) ComputeRecord(run *model.RunRecord, gt *model.GroundTruth) (model.MetricRecord, error) {
	if err := validateRun(run, gt); err != nil {
		return model.MetricRecord{}, err
	}

	values := make(map[string]float64)
	for name, m := range registry {
		if v, ok := m.Compute(run, gt, e.opts); ok {
			values[name] = v
		}
	}

	return model.MetricRecord{
		Algorithm: run.Algorithm,
		Dataset:   run.Dataset,
		Params:    run.Params,
		Metrics:   values,
	}, nil
}

// ComputeAll derives metrics for a batch of runs, serving cache hits
// unless recompute is set. Malformed runs are skipped with a diagnostic;
// one bad run never aborts the batch.
func (e *Engine) ComputeAll(dataset string, runs []model.RunRecord, gt *model.GroundTruth, recompute bool) []model.MetricRecord {
	out := make([]model.MetricRecord, 0, len(runs))

	for i := range runs {
		run := &runs[i]
		key := metriccache.Fingerprint(dataset, run.Algorithm, run.Params, Version)

		if !recompute {
			if rec, ok := e.cache.Get(key); ok {
				out = append(out, rec)
				continue
			}
		}

		rec, err := e.ComputeRecord(run, gt)
		if err != nil {
			slog.Warn("skipping run record",
				"dataset", dataset,
				"algorithm", run.Algorithm,
				"run", run.ID,
				"error", err,
			)
			continue
		}

		if err := e.cache.Put(key, rec); err != nil {
			slog.Warn("metric cache write failed", "run", run.ID, "error", err)
		}
		out = append(out, rec)
	}

	return out
}

func validateRun(run *model.RunRecord, gt *model.GroundTruth) error {
	nq := run.QueryCount()
	if nq == 0 && len(run.Distances) == 0 {
		return apperr.NewMalformedRecord(run.Algorithm, run.ID.String(), "no per-query measurements")
	}
	if nq > 0 && len(run.Distances) > 0 && len(run.Distances) != nq {
		return apperr.NewMalformedRecord(run.Algorithm, run.ID.String(),
			fmt.Sprintf("distances length %d, want %d", len(run.Distances), nq))
	}
	if nq > 0 && len(run.Neighbors) > 0 && len(run.Neighbors) != nq {
		return apperr.NewMalformedRecord(run.Algorithm, run.ID.String(),
			fmt.Sprintf("neighbors length %d, want %d", len(run.Neighbors), nq))
	}
	if n := len(run.Distances); n > 0 && len(gt.Distances) > 0 && len(gt.Distances) < n {
		return apperr.NewMalformedRecord(run.Algorithm, run.ID.String(),
			fmt.Sprintf("ground truth has %d queries, run has %d", len(gt.Distances), n))
	}
	return nil
}
