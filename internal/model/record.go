package model

import "github.com/google/uuid"

// RunRecord is one stored trial of one algorithm on one dataset with one
// parameter configuration. Records are immutable once loaded; metric
// computation never writes back into them.
type RunRecord struct {
	ID        uuid.UUID      `json:"id"`
	Algorithm string         `json:"algorithm"`
	Dataset   string         `json:"dataset"`
	BatchMode bool           `json:"batch_mode"`
	Params    map[string]any `json:"params"`

	// Per-query raw measurements. Neighbors, Distances and Times are
	// indexed by query id and must all have the same length.
	Neighbors [][]int     `json:"neighbors"`
	Distances [][]float64 `json:"distances"`
	Times     []float64   `json:"times"` // seconds per query

	// Optional whole-run measurements. Negative means "not recorded".
	BuildTime   float64 `json:"build_time"`
	IndexSizeKB float64 `json:"index_size_kb"`
	DistComps   float64 `json:"dist_comps"`
	Candidates  float64 `json:"candidates"`
}

// QueryCount returns the number of queries this run answered.
func (r *RunRecord) QueryCount() int {
	return len(r.Times)
}

// MetricRecord holds the derived metrics of exactly one RunRecord.
type MetricRecord struct {
	Algorithm string             `json:"algorithm"`
	Dataset   string             `json:"dataset"`
	Params    map[string]any     `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Value returns the named metric and whether the record carries it.
// Absent is distinct from zero: a run without a distance-computation
// counter has no distcomps metric at all.
func (m *MetricRecord) Value(name string) (float64, bool) {
	v, ok := m.Metrics[name]
	return v, ok
}

// GroundTruth is the exact nearest-neighbor answer set for one dataset.
// Distances are sorted ascending per query.
type GroundTruth struct {
	Neighbors [][]int     `json:"neighbors"`
	Distances [][]float64 `json:"distances"`
}

// Dataset carries dataset metadata next to its ground truth.
type Dataset struct {
	Name       string `json:"name"`
	Metric     string `json:"metric"`
	Dimension  int    `json:"dimension"`
	PointCount int    `json:"point_count"`
	QueryCount int    `json:"query_count"`
}
