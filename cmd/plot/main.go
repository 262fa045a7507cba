package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/ann-bench/internal/apperr"
	"github.com/DjordjeVuckovic/ann-bench/internal/dataset"
	"github.com/DjordjeVuckovic/ann-bench/internal/frontier"
	"github.com/DjordjeVuckovic/ann-bench/internal/metriccache"
	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/plotspec"
	"github.com/DjordjeVuckovic/ann-bench/internal/plotting"
	"github.com/DjordjeVuckovic/ann-bench/internal/results"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/factory"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/fs"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/pg"
)

type plotter struct {
	store    results.Store
	provider dataset.Provider
	engine   *metrics.Engine
}

func main() {
	cfg := parseFlags()
	ctx := context.Background()

	store, err := factory.NewStore(ctx, factory.Config{
		Type: results.Type(cfg.StoreType),
		FS:   &fs.Config{Root: cfg.ResultsRoot},
		Pg:   &pg.PoolConfig{ConnStr: cfg.PgConnStr},
	})
	if err != nil {
		slog.Error("Failed to open results store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cache, err := newCache(cfg)
	if err != nil {
		slog.Error("Failed to open metric cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	pl := &plotter{
		store: store,
		engine: metrics.NewEngine(
			metrics.WithK(cfg.K),
			metrics.WithEpsilon(cfg.Epsilon),
			metrics.WithCache(cache),
		),
		provider: dataset.NewFSProvider(cfg.DatasetsRoot),
	}

	if cfg.SpecPath != "" {
		if err := pl.runSpec(ctx, cfg); err != nil {
			slog.Error("Plot spec run failed", "spec", cfg.SpecPath, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := pl.runSingle(ctx, cfg); err != nil {
		slog.Error("Plot failed", "dataset", cfg.Dataset, "error", err)
		os.Exit(1)
	}
}

func newCache(cfg cliConfig) (metriccache.Cache, error) {
	switch cfg.CacheType {
	case "none":
		return metriccache.Nop{}, nil
	case "memory":
		return metriccache.NewMemory(), nil
	case "badger":
		return metriccache.NewBadger(metriccache.BadgerConfig{Dir: cfg.CacheDir})
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.CacheType)
	}
}

func (pl *plotter) runSingle(ctx context.Context, cfg cliConfig) error {
	xm, ok := metrics.Lookup(cfg.XAxis)
	if !ok {
		return fmt.Errorf("unknown x metric %q", cfg.XAxis)
	}
	ym, ok := metrics.Lookup(cfg.YAxis)
	if !ok {
		return fmt.Errorf("unknown y metric %q", cfg.YAxis)
	}

	sets, err := plotting.BuildPointSets(ctx, pl.store, pl.provider, pl.engine, cfg.Dataset, xm, ym, plotting.DataOptions{
		Batch:     cfg.Batch,
		Recompute: cfg.Recompute,
	})
	if err != nil {
		return err
	}

	pc := plotting.Config{
		XScale:  plotting.Scale(cfg.XScale),
		YScale:  plotting.Scale(cfg.YScale),
		ShowRaw: cfg.Raw,
	}

	if cfg.Algo != "" {
		if err := pl.renderComparisons(cfg, sets, xm, ym, pc); err != nil {
			return err
		}
	}

	return renderTo(cfg.outputPath(), sets, xm, ym, pc)
}

// renderComparisons draws the chosen algorithm's variants against every
// other prefix group in turn, one chart per group.
func (pl *plotter) renderComparisons(cfg cliConfig, sets []frontier.PointSet, xm, ym metrics.Metric, pc plotting.Config) error {
	names := make([]string, len(sets))
	for i, ps := range sets {
		names[i] = ps.Algorithm
	}
	groups := frontier.GroupByPrefix(names, "-")

	base, _, _ := strings.Cut(cfg.Algo, "-")
	mine, ok := groups[base]
	if !ok {
		return fmt.Errorf("no results for algorithm %q on %s", cfg.Algo, cfg.Dataset)
	}

	for other, members := range groups {
		if other == base {
			continue
		}
		keep := make(map[string]bool, len(mine)+len(members))
		for _, n := range mine {
			keep[n] = true
		}
		for _, n := range members {
			keep[n] = true
		}

		var subset []frontier.PointSet
		for _, ps := range sets {
			if keep[ps.Algorithm] {
				subset = append(subset, ps)
			}
		}

		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s-vs-%s-%s.png", base, other, cfg.Dataset))
		if err := renderTo(path, subset, xm, ym, pc); err != nil {
			return err
		}
	}
	return nil
}

func (pl *plotter) runSpec(ctx context.Context, cfg cliConfig) error {
	spec, err := plotspec.LoadFromFile(cfg.SpecPath)
	if err != nil {
		return err
	}

	var failed int
	for _, job := range spec.Plots {
		if err := pl.runJob(ctx, cfg, spec.OutputDir, job); err != nil {
			slog.Error("Plot job failed", "dataset", job.Dataset, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d plot jobs failed", failed, len(spec.Plots))
	}
	slog.Info("Plot spec complete", "plots", len(spec.Plots), "dir", spec.OutputDir)
	return nil
}

func (pl *plotter) runJob(ctx context.Context, cfg cliConfig, outDir string, job plotspec.PlotJob) error {
	xm, _ := metrics.Lookup(job.XAxis)
	ym, _ := metrics.Lookup(job.YAxis)

	var algos []string
	if job.Algorithm != "" {
		algos = []string{job.Algorithm}
	}

	sets, err := plotting.BuildPointSets(ctx, pl.store, pl.provider, pl.engine, job.Dataset, xm, ym, plotting.DataOptions{
		Batch:      job.Batch,
		Recompute:  cfg.Recompute,
		Algorithms: algos,
	})
	if err != nil {
		return err
	}

	path := job.Output
	if path == "" {
		name := job.Dataset
		if job.Batch {
			name += "-batch"
		}
		path = fmt.Sprintf("%s.png", name)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(outDir, path)
	}

	return renderTo(path, sets, xm, ym, plotting.Config{
		XScale:  plotting.Scale(job.XScale),
		YScale:  plotting.Scale(job.YScale),
		ShowRaw: job.Raw != nil && *job.Raw,
	})
}

func renderTo(path string, sets []frontier.PointSet, xm, ym metrics.Metric, pc plotting.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := plotting.Render(f, sets, xm, ym, pc, plotting.FormatFromPath(path)); err != nil {
		if errors.Is(err, apperr.ErrNoData) {
			return fmt.Errorf("nothing to plot on %s vs %s: %w", xm.Name, ym.Name, err)
		}
		return err
	}
	slog.Info("Chart written", "path", path, "series", len(sets))
	return nil
}
