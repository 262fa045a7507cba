package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type cliConfig struct {
	ResultsRoot  string
	DatasetsRoot string
	StoreType    string
	PgConnStr    string
	Output       string
	Batch        bool
	Recompute    bool
	CacheType    string
	CacheDir     string
	K            int
	Epsilon      float64
	Workers      int
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.ResultsRoot, "results", "results", "Root directory of stored run records (fs store)")
	flag.StringVar(&cfg.DatasetsRoot, "datasets", "data", "Directory holding dataset ground-truth files")
	flag.StringVar(&cfg.StoreType, "store", "fs", "Results store backend: fs or postgres")
	flag.StringVar(&cfg.PgConnStr, "pg", "", "PostgreSQL connection string (postgres store)")
	flag.StringVar(&cfg.Output, "output", "", "Path to the output CSV file")
	flag.BoolVar(&cfg.Batch, "batch", false, "Export batch-mode runs")
	flag.BoolVar(&cfg.Recompute, "recompute", false, "Clear the cache and recompute the metrics")
	flag.StringVar(&cfg.CacheType, "cache", "memory", "Metric cache: none, memory, or badger")
	flag.StringVar(&cfg.CacheDir, "cache-dir", ".metric-cache", "Directory for the badger metric cache")
	flag.IntVar(&cfg.K, "count", 10, "Neighbor count the quality metrics evaluate at")
	flag.Float64Var(&cfg.Epsilon, "epsilon", 1e-3, "Distance tie tolerance for recall")
	flag.IntVar(&cfg.Workers, "workers", 0, "Parallel dataset workers (0 = number of CPUs)")

	flag.Parse()
	return cfg
}

const reportsDir = "reports"

// outputPath applies the default naming: reports/data-<yymmdd>.csv, or
// the given path with the date inserted before its extension.
func (c cliConfig) outputPath(now time.Time) string {
	date := now.Format("060102")
	if c.Output == "" {
		return filepath.Join(reportsDir, fmt.Sprintf("data-%s.csv", date))
	}

	ext := filepath.Ext(c.Output)
	name := strings.TrimSuffix(c.Output, ext)
	dated := fmt.Sprintf("%s-%s%s", name, date, ext)

	if filepath.Dir(c.Output) == "." {
		return filepath.Join(reportsDir, dated)
	}
	return dated
}
