// Package postgres persists computation runs so result vectors can be
// retrieved and audited after the fact.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	// registers the postgres driver
	_ "github.com/lib/pq"

	"chanstat/domain/core"
	"chanstat/domain/run"
	"chanstat/domain/stats"
)

const schema = `
CREATE TABLE IF NOT EXISTS computation_runs (
	run_id       TEXT PRIMARY KEY,
	manifest     JSONB NOT NULL,
	result       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS computation_runs_created_at_idx
	ON computation_runs (created_at DESC);
`

// ResultRepository implements ports.ResultStorePort on postgres.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a result repository
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Connect opens a postgres connection and ensures the schema exists.
func Connect(ctx context.Context, url string) (*ResultRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	repo := NewResultRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// EnsureSchema creates the runs table when missing.
func (r *ResultRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRun stores a manifest and its result vector.
func (r *ResultRepository) SaveRun(ctx context.Context, manifest *run.Manifest, result *stats.Result) error {
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT INTO computation_runs (run_id, manifest, result, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err = r.db.ExecContext(ctx, query,
		manifest.RunID.String(),
		manifestJSON,
		resultJSON,
		manifest.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", manifest.RunID, err)
	}
	return nil
}

// GetRun retrieves one stored run by ID.
func (r *ResultRepository) GetRun(ctx context.Context, runID core.RunID) (*run.Manifest, *stats.Result, error) {
	query := `SELECT manifest, result FROM computation_runs WHERE run_id = $1`

	var manifestJSON, resultJSON []byte
	err := r.db.QueryRowxContext(ctx, query, runID.String()).Scan(&manifestJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: run %s", core.ErrResultNotFound, runID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	var manifest run.Manifest
	if err := json.Unmarshal(manifestJSON, &manifest); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	var result stats.Result
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &manifest, &result, nil
}

// ListRuns returns the most recent run manifests, newest first.
func (r *ResultRepository) ListRuns(ctx context.Context, limit int) ([]*run.Manifest, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT manifest FROM computation_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var manifests []*run.Manifest
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		var m run.Manifest
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
		}
		manifests = append(manifests, &m)
	}
	return manifests, rows.Err()
}

// Close releases the underlying connection pool.
func (r *ResultRepository) Close() error {
	return r.db.Close()
}
