package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/ann-bench/internal/dataset"
	"github.com/DjordjeVuckovic/ann-bench/internal/export"
	"github.com/DjordjeVuckovic/ann-bench/internal/metriccache"
	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/results"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/factory"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/fs"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/pg"
)

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

	engine := metrics.NewEngine(
		metrics.WithK(cfg.K),
		metrics.WithEpsilon(cfg.Epsilon),
		metrics.WithCache(cache),
	)
	provider := dataset.NewFSProvider(cfg.DatasetsRoot)

	rows, err := export.All(ctx, store, provider, engine, export.Options{
		Batch:     cfg.Batch,
		Recompute: cfg.Recompute,
		Workers:   cfg.Workers,
	})
	if err != nil {
		slog.Error("Export failed", "error", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		slog.Warn("No results found, nothing to export")
		return
	}

	path := cfg.outputPath(time.Now())
	if err := writeCSVFile(path, rows); err != nil {
		slog.Error("Failed to write output", "path", path, "error", err)
		os.Exit(1)
	}
	slog.Info("Export written", "path", path, "rows", len(rows))
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

// writeCSVFile writes rows to a temp file next to the target and
// renames it into place, so readers never observe a half-written table.
func writeCSVFile(path string, rows []export.Row) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteCSV(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
