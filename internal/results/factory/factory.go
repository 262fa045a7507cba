package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/ann-bench/internal/results"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/fs"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/memory"
	"github.com/DjordjeVuckovic/ann-bench/internal/results/pg"
)

type Config struct {
	Type results.Type
	FS   *fs.Config
	Pg   *pg.PoolConfig
}

// NewStore creates a results.Store for the configured backend.
func NewStore(ctx context.Context, cfg Config) (results.Store, error) {
	switch cfg.Type {
	case results.FS:
		if cfg.FS == nil {
			return nil, fmt.Errorf("fs results store requires a root directory")
		}
		return fs.NewStore(*cfg.FS)

	case results.PG:
		if cfg.Pg == nil || cfg.Pg.ConnStr == "" {
			return nil, fmt.Errorf("postgres results store requires a connection string")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStore(pool), nil

	case results.InMem:
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unsupported results store type: %s", cfg.Type)
	}
}
