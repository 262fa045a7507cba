package frontier

import (
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

// Point is one run projected onto a chosen (x, y) metric pair.
type Point struct {
	X         float64
	Y         float64
	Algorithm string
	Params    map[string]any
}

// PointSet is one algorithm's point cloud split into the non-dominated
// frontier and the full raw set. Frontier is ordered monotonically along
// the improving x direction so it renders as a connected curve.
type PointSet struct {
	Algorithm string
	Frontier  []Point
	All       []Point
}

// Reduce projects records onto the (xm, ym) metric pair and collapses
// them into a Pareto frontier. Records missing either metric are
// dropped. Empty input yields an empty set, not an error.
func Reduce(records []model.MetricRecord, xm, ym metrics.Metric) PointSet {
	var ps PointSet

	for _, rec := range records {
		x, okX := rec.Value(xm.Name)
		y, okY := rec.Value(ym.Name)
		if !okX || !okY {
			continue
		}
		ps.Algorithm = rec.Algorithm
		ps.All = append(ps.All, Point{X: x, Y: y, Algorithm: rec.Algorithm, Params: rec.Params})
	}

	if len(ps.All) == 0 {
		return ps
	}

	// Sweep along improving x; keep a point only when its y improves on
	// the best seen so far. Ties on x are resolved by the sort placing
	// the better y first.
	candidates := make([]Point, len(ps.All))
	copy(candidates, ps.All)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].X != candidates[j].X {
			return xm.Better(candidates[i].X, candidates[j].X)
		}
		return ym.Better(candidates[i].Y, candidates[j].Y)
	})

	for _, p := range candidates {
		n := len(ps.Frontier)
		if n > 0 && !ym.Better(p.Y, ps.Frontier[n-1].Y) {
			continue
		}
		if n > 0 && p.X == ps.Frontier[n-1].X {
			// Same x with better y cannot happen after the sort; skip
			// duplicates outright.
			continue
		}
		ps.Frontier = append(ps.Frontier, p)
	}

	// Present the frontier in ascending x order regardless of
	// orientation, matching how the axes are drawn.
	sort.Slice(ps.Frontier, func(i, j int) bool { return ps.Frontier[i].X < ps.Frontier[j].X })

	return ps
}

// Dominates reports whether a dominates b: at least as good on both
// axes and strictly better on at least one.
func Dominates(a, b Point, xm, ym metrics.Metric) bool {
	if !xm.BetterOrEqual(a.X, b.X) || !ym.BetterOrEqual(a.Y, b.Y) {
		return false
	}
	return xm.Better(a.X, b.X) || ym.Better(a.Y, b.Y)
}

// GroupByAlgorithm partitions records per algorithm, preserving first
// appearance order of the algorithm names.
func GroupByAlgorithm(records []model.MetricRecord) (map[string][]model.MetricRecord, []string) {
	grouped := make(map[string][]model.MetricRecord)
	var order []string

	for _, rec := range records {
		if _, ok := grouped[rec.Algorithm]; !ok {
			order = append(order, rec.Algorithm)
		}
		grouped[rec.Algorithm] = append(grouped[rec.Algorithm], rec)
	}

	return grouped, order
}

// GroupByPrefix buckets algorithm names by their prefix up to the first
// sep, e.g. "hnsw-m16" and "hnsw-m32" both land in "hnsw". Purely a
// presentation concern for comparison charts.
func GroupByPrefix(names []string, sep string) map[string][]string {
	groups := make(map[string][]string)
	for _, name := range names {
		base, _, _ := strings.Cut(name, sep)
		groups[base] = append(groups[base], name)
	}
	return groups
}
