package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
	"github.com/google/uuid"
)

// Store reads run records from a Postgres results warehouse. Raw arrays
// and parameter mappings live in jsonb columns; one row is one run.
type Store struct {
	pool *ConnectionPool
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ListDatasets(ctx context.Context) ([]string, error) {
	rows, err := s.pool.conn.Query(ctx,
		`SELECT DISTINCT dataset FROM runs ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan dataset name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return names, nil
}

func (s *Store) IterateRuns(ctx context.Context, dataset string, batch bool, fn func(model.RunRecord) error) error {
	rows, err := s.pool.conn.Query(ctx, `
		SELECT id, algorithm, params, neighbors, distances, times,
		       build_time, index_size_kb, dist_comps, candidates
		FROM runs
		WHERE dataset = $1 AND batch_mode = $2
		ORDER BY algorithm, id
	`, dataset, batch)
	if err != nil {
		return fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			algorithm string

			paramsJSON, neighborsJSON, distancesJSON, timesJSON []byte

			buildTime, indexSize, distComps, candidates *float64
		)
		if err := rows.Scan(
			&id, &algorithm, &paramsJSON, &neighborsJSON, &distancesJSON, &timesJSON,
			&buildTime, &indexSize, &distComps, &candidates,
		); err != nil {
			return fmt.Errorf("failed to scan run: %w", err)
		}

		run := model.RunRecord{
			ID:          id,
			Algorithm:   algorithm,
			Dataset:     dataset,
			BatchMode:   batch,
			BuildTime:   optional(buildTime),
			IndexSizeKB: optional(indexSize),
			DistComps:   optional(distComps),
			Candidates:  optional(candidates),
		}
		if err := json.Unmarshal(paramsJSON, &run.Params); err != nil {
			return fmt.Errorf("failed to unmarshal params for run %s: %w", id, err)
		}
		if err := json.Unmarshal(neighborsJSON, &run.Neighbors); err != nil {
			return fmt.Errorf("failed to unmarshal neighbors for run %s: %w", id, err)
		}
		if err := json.Unmarshal(distancesJSON, &run.Distances); err != nil {
			return fmt.Errorf("failed to unmarshal distances for run %s: %w", id, err)
		}
		if err := json.Unmarshal(timesJSON, &run.Times); err != nil {
			return fmt.Errorf("failed to unmarshal times for run %s: %w", id, err)
		}

		if err := fn(run); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func optional(v *float64) float64 {
	if v == nil {
		return -1
	}
	return *v
}
