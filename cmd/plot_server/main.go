package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/ann-bench/internal/dataset"
	"github.com/DjordjeVuckovic/ann-bench/internal/metriccache"
	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/fs"
	"github.com/DjordjeVuckovic/ann-bench/internal/router"
	"github.com/DjordjeVuckovic/ann-bench/internal/server"
	pkgserver "github.com/DjordjeVuckovic/ann-bench/pkg/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := fs.NewStore(fs.Config{Root: cfg.ResultsRoot})
	if err != nil {
		slog.Error("Failed to open results store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cache, err := newCache(cfg.CacheDir)
	if err != nil {
		slog.Error("Failed to open metric cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	engine := metrics.NewEngine(metrics.WithCache(cache))
	provider := dataset.NewFSProvider(cfg.DatasetsRoot)

	srv := server.NewServer(cfg)
	router.NewPlotRouter(srv.Echo, store, provider, engine, pkgserver.NewOkHealthChecker()).Bind()

	slog.Info("Starting plot server", "port", cfg.Port, "results", cfg.ResultsRoot)
	if err := srv.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// newCache keeps computed metrics across requests. Without a cache dir
// it stays in memory and resets on restart.
func newCache(dir string) (metriccache.Cache, error) {
	if dir == "" {
		return metriccache.NewMemory(), nil
	}
	return metriccache.NewBadger(metriccache.BadgerConfig{Dir: dir})
}
