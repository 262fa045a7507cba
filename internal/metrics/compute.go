package metrics

import (
	"sort"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

// recall averages, over all queries, the fraction of the run's top-k
// returned neighbors whose distance falls within threshold(kth true
// distance). Matching on distance rather than index keeps ties and
// near-duplicate points from being counted as misses.
func recall(run *model.RunRecord, gt *model.GroundTruth, k int, threshold func(kth float64) float64) (float64, bool) {
	if k <= 0 || len(run.Distances) == 0 || len(gt.Distances) < len(run.Distances) {
		return 0, false
	}

	var sum float64
	n := len(run.Distances)

	for i := 0; i < n; i++ {
		trueDists := gt.Distances[i]
		kk := min(k, len(trueDists))
		if kk == 0 {
			continue
		}

		t := threshold(trueDists[kk-1])
		got := run.Distances[i]

		var within int
		for _, d := range got[:min(kk, len(got))] {
			if d <= t {
				within++
			}
		}
		sum += float64(within) / float64(kk)
	}

	return sum / float64(n), true
}

func queriesPerSecond(run *model.RunRecord) (float64, bool) {
	if len(run.Times) == 0 {
		return 0, false
	}
	var total float64
	for _, t := range run.Times {
		total += t
	}
	if total == 0 {
		return 0, false
	}
	return float64(len(run.Times)) / total, true
}

// latencyPercentile returns the p-th percentile of per-query time in
// milliseconds, linearly interpolated between samples.
func latencyPercentile(run *model.RunRecord, p float64) (float64, bool) {
	if len(run.Times) == 0 {
		return 0, false
	}
	return percentile(run.Times, p) * 1000, true
}

func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
