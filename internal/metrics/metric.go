package metrics

import (
	"sort"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

// Version tags the current metric set. It participates in cache
// fingerprints so cached records computed against an older registry are
// recomputed instead of reused.
const Version = "1"

type Orientation int

const (
	HigherIsBetter Orientation = iota
	LowerIsBetter
)

const (
	DefaultK       = 10
	DefaultEpsilon = 1e-3
)

// Options parameterize metric computation. K is the neighbor count the
// quality metrics evaluate at; Epsilon is the distance tie tolerance for
// recall (returned neighbors whose distance is within Epsilon of the
// k-th true distance count as correct).
type Options struct {
	K       int
	Epsilon float64
}

// ComputeFunc derives one scalar from a run and its ground truth. The
// second return value reports whether the run carries the raw data the
// metric needs; false means the metric is absent, not zero.
type ComputeFunc func(run *model.RunRecord, gt *model.GroundTruth, opts Options) (float64, bool)

// Metric bundles everything the pipeline needs to know about one named
// metric: how to compute it, which direction is better, and an optional
// axis range hint for plotting.
type Metric struct {
	Name        string
	Description string
	Orientation Orientation
	Lim         []float64 // optional [min, max] axis hint
	Compute     ComputeFunc
}

// Better reports whether value a beats value b on this metric's axis.
func (m Metric) Better(a, b float64) bool {
	if m.Orientation == HigherIsBetter {
		return a > b
	}
	return a < b
}

func (m Metric) BetterOrEqual(a, b float64) bool {
	return a == b || m.Better(a, b)
}

var registry = map[string]Metric{
	"k-nn": {
		Name:        "k-nn",
		Description: "Recall",
		Orientation: HigherIsBetter,
		Lim:         []float64{0.0, 1.03},
		Compute: func(run *model.RunRecord, gt *model.GroundTruth, opts Options) (float64, bool) {
			return recall(run, gt, opts.K, func(kth float64) float64 {
				return kth + opts.Epsilon
			})
		},
	},
	"epsilon": {
		Name:        "epsilon",
		Description: "Epsilon 0.01 Recall",
		Orientation: HigherIsBetter,
		Compute: func(run *model.RunRecord, gt *model.GroundTruth, opts Options) (float64, bool) {
			return recall(run, gt, opts.K, func(kth float64) float64 {
				return kth * 1.01
			})
		},
	},
	"largeepsilon": {
		Name:        "largeepsilon",
		Description: "Epsilon 0.1 Recall",
		Orientation: HigherIsBetter,
		Compute: func(run *model.RunRecord, gt *model.GroundTruth, opts Options) (float64, bool) {
			return recall(run, gt, opts.K, func(kth float64) float64 {
				return kth * 1.1
			})
		},
	},
	"qps": {
		Name:        "qps",
		Description: "Queries per second (1/s)",
		Orientation: HigherIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			return queriesPerSecond(run)
		},
	},
	"p50": {
		Name:        "p50",
		Description: "Percentile 50 (millis)",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			return latencyPercentile(run, 50)
		},
	},
	"p95": {
		Name:        "p95",
		Description: "Percentile 95 (millis)",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			return latencyPercentile(run, 95)
		},
	},
	"p99": {
		Name:        "p99",
		Description: "Percentile 99 (millis)",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			return latencyPercentile(run, 99)
		},
	},
	"distcomps": {
		Name:        "distcomps",
		Description: "Distance computations per query",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			if run.DistComps < 0 || run.QueryCount() == 0 {
				return 0, false
			}
			return run.DistComps / float64(run.QueryCount()), true
		},
	},
	"build": {
		Name:        "build",
		Description: "Build time (s)",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			if run.BuildTime < 0 {
				return 0, false
			}
			return run.BuildTime, true
		},
	},
	"candidates": {
		Name:        "candidates",
		Description: "Candidates generated per query",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			if run.Candidates < 0 {
				return 0, false
			}
			return run.Candidates, true
		},
	},
	"indexsize": {
		Name:        "indexsize",
		Description: "Index size (kB)",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			if run.IndexSizeKB <= 0 {
				return 0, false
			}
			return run.IndexSizeKB, true
		},
	},
	"queriessize": {
		Name:        "queriessize",
		Description: "Index size (kB) / Queries per second (1/s)",
		Orientation: LowerIsBetter,
		Compute: func(run *model.RunRecord, _ *model.GroundTruth, _ Options) (float64, bool) {
			qps, ok := queriesPerSecond(run)
			if !ok || run.IndexSizeKB <= 0 {
				return 0, false
			}
			return run.IndexSizeKB / qps, true
		},
	},
}

// Lookup returns the registered metric for name.
func Lookup(name string) (Metric, bool) {
	m, ok := registry[name]
	return m, ok
}

// Names returns all registered metric names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
