package metriccache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
)

// Cache memoizes computed MetricRecords per run fingerprint. Computation
// is idempotent given fixed inputs, so concurrent readers plus an
// exclusive writer per key are safe.
type Cache interface {
	Get(key string) (model.MetricRecord, bool)
	Put(key string, rec model.MetricRecord) error
	Close() error
}

// Fingerprint derives the cache key for one run. The metric-set version
// is part of the key so registry changes invalidate stale entries.
func Fingerprint(dataset, algorithm string, params map[string]any, version string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00", dataset, algorithm, version)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := json.Marshal(params[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%v", params[k]))
		}
		fmt.Fprintf(h, "%s=%s\x00", k, v)
	}

	return hex.EncodeToString(h.Sum(nil))
}

type Memory struct {
	mu      sync.RWMutex
	entries map[string]model.MetricRecord
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]model.MetricRecord)}
}

func (m *Memory) Get(key string) (model.MetricRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.entries[key]
	return rec, ok
}

func (m *Memory) Put(key string, rec model.MetricRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = rec
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Nop never hits and never stores. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(string) (model.MetricRecord, bool) { return model.MetricRecord{}, false }
func (Nop) Put(string, model.MetricRecord) error  { return nil }
func (Nop) Close() error                          { return nil }
