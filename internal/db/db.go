// Package db provides PostgreSQL access for extraction runs, their layer
// artifacts, and stored record snapshots.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a run or artifact does not exist.
var ErrNotFound = errors.New("not found")

const (
	defaultListLimit = 50
	maxListLimit     = 500
	runColumns       = `id, document_id, status, completeness, confidence, created_at, completed_at`
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a pool and pings it.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables used by this package if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// CreateRun records the start of an extraction run for documentID.
func (db *DB) CreateRun(ctx context.Context, documentID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO extraction_runs (document_id, status) VALUES ($1, $2) RETURNING id`,
		documentID, StatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun stamps the final status and scores on a run.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, completeness, confidence int) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE extraction_runs
		 SET status = $1, completeness = $2, confidence = $3, completed_at = NOW()
		 WHERE id = $4`,
		status, completeness, confidence, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return nil
}

// SaveLayerArtifact stores content as JSON under layer, replacing any
// earlier artifact for the same run and layer.
func (db *DB) SaveLayerArtifact(ctx context.Context, runID uuid.UUID, layer string, content any) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact %s: %w", layer, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO layer_artifacts (run_id, layer, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, layer) DO UPDATE SET content = EXCLUDED.content, created_at = NOW()`,
		runID, layer, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", layer, err)
	}
	return nil
}

// LayerArtifact returns the raw JSON stored for one layer of a run.
func (db *DB) LayerArtifact(ctx context.Context, runID uuid.UUID, layer string) (json.RawMessage, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM layer_artifacts WHERE run_id = $1 AND layer = $2`,
		runID, layer,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("artifact %s for run %s: %w", layer, runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %w", layer, err)
	}
	return content, nil
}

// Run returns one run by ID.
func (db *DB) Run(ctx context.Context, runID uuid.UUID) (*Run, error) {
	rows, _ := db.pool.Query(ctx, `SELECT `+runColumns+` FROM extraction_runs WHERE id = $1`, runID)
	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Run])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// Runs lists runs newest first.
func (db *DB) Runs(ctx context.Context, filters RunFilters) ([]Run, error) {
	query, args := filters.query()
	rows, _ := db.pool.Query(ctx, query, args...)
	runs, err := pgx.CollectRows(rows, pgx.RowToStructByName[Run])
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

// query builds the SELECT for f. The limit is clamped to maxListLimit.
func (f RunFilters) query() (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		where = append(where, column+" = $"+strconv.Itoa(len(args)))
	}
	if f.DocumentID != "" {
		add("document_id", f.DocumentID)
	}
	if f.Status != "" {
		add("status", f.Status)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + runColumns + ` FROM extraction_runs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, min(limit, maxListLimit))
	sb.WriteString(" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)))
	return sb.String(), args
}
