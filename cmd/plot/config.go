package main

import (
	"flag"
	"fmt"
	"path/filepath"
)

type cliConfig struct {
	Dataset      string
	XAxis        string
	YAxis        string
	XScale       string
	YScale       string
	Raw          bool
	Batch        bool
	Recompute    bool
	Algo         string
	Output       string
	OutputDir    string
	SpecPath     string
	ResultsRoot  string
	DatasetsRoot string
	StoreType    string
	PgConnStr    string
	CacheType    string
	CacheDir     string
	K            int
	Epsilon      float64
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Dataset, "dataset", "glove-100-angular", "Dataset to plot")
	flag.StringVar(&cfg.XAxis, "x-axis", "k-nn", "Metric to use on the X-axis")
	flag.StringVar(&cfg.XAxis, "x", "k-nn", "Shorthand for -x-axis")
	flag.StringVar(&cfg.YAxis, "y-axis", "qps", "Metric to use on the Y-axis")
	flag.StringVar(&cfg.YAxis, "y", "qps", "Shorthand for -y-axis")
	flag.StringVar(&cfg.XScale, "x-scale", "linear", "Scale for the X-axis: linear or log")
	flag.StringVar(&cfg.XScale, "X", "linear", "Shorthand for -x-scale")
	flag.StringVar(&cfg.YScale, "y-scale", "linear", "Scale for the Y-axis: linear or log")
	flag.StringVar(&cfg.YScale, "Y", "linear", "Shorthand for -y-scale")
	flag.BoolVar(&cfg.Raw, "raw", false, "Show raw results (not just the Pareto frontier) in faded colours")
	flag.BoolVar(&cfg.Batch, "batch", false, "Plot batch-mode runs")
	flag.BoolVar(&cfg.Recompute, "recompute", false, "Clear the cache and recompute the metrics")
	flag.StringVar(&cfg.Algo, "algo", "", "Plot this algorithm against every other algorithm group")
	flag.StringVar(&cfg.Output, "output", "", "Output image path (single-plot mode)")
	flag.StringVar(&cfg.OutputDir, "outputdir", "plots", "Output directory")
	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to a plot spec YAML (batch mode)")
	flag.StringVar(&cfg.ResultsRoot, "results", "results", "Root directory of stored run records (fs store)")
	flag.StringVar(&cfg.DatasetsRoot, "datasets", "data", "Directory holding dataset ground-truth files")
	flag.StringVar(&cfg.StoreType, "store", "fs", "Results store backend: fs or postgres")
	flag.StringVar(&cfg.PgConnStr, "pg", "", "PostgreSQL connection string (postgres store)")
	flag.StringVar(&cfg.CacheType, "cache", "memory", "Metric cache: none, memory, or badger")
	flag.StringVar(&cfg.CacheDir, "cache-dir", ".metric-cache", "Directory for the badger metric cache")
	flag.IntVar(&cfg.K, "count", 10, "Neighbor count the quality metrics evaluate at")
	flag.Float64Var(&cfg.Epsilon, "epsilon", 1e-3, "Distance tie tolerance for recall")

	flag.Parse()
	return cfg
}

func (c cliConfig) outputPath() string {
	if c.Output != "" {
		return c.Output
	}
	name := c.Dataset
	if c.Batch {
		name += "-batch"
	}
	return filepath.Join(c.OutputDir, fmt.Sprintf("%s.png", name))
}
