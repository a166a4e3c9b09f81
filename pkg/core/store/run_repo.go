// Package store persists finished analysis runs to Postgres as JSONB blobs
// keyed by run id. Schema is managed elsewhere (migrations):
//
//	CREATE TABLE IF NOT EXISTS acquisition_analysis (
//	  run_id UUID PRIMARY KEY,
//	  acquirer TEXT NOT NULL,
//	  target TEXT NOT NULL,
//	  report_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"acquisition_valuation/pkg/core/pipeline"
)

// RunRepo stores and loads analysis reports on the pool it was given.
type RunRepo struct {
	pool *pgxpool.Pool
}

// NewRunRepo creates a repository backed by pool.
func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

// SaveRun upserts the report keyed by run id. This is a stateful write; the
// coordinator does not retry it.
func (r *RunRepo) SaveRun(ctx context.Context, report *pipeline.Report) error {
	if r.pool == nil {
		return fmt.Errorf("run repository has no database pool")
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO acquisition_analysis (run_id, acquirer, target, report_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id)
		DO UPDATE SET
			report_json = EXCLUDED.report_json,
			created_at = EXCLUDED.created_at;
	`

	_, err = r.pool.Exec(ctx, query, report.Run.ID, report.Run.Acquirer, report.Run.Target, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LoadRun retrieves a stored report by run id.
func (r *RunRepo) LoadRun(ctx context.Context, runID uuid.UUID) (*pipeline.Report, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("run repository has no database pool")
	}

	query := `SELECT report_json FROM acquisition_analysis WHERE run_id = $1`

	var jsonData []byte
	err := r.pool.QueryRow(ctx, query, runID).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for run %s", runID)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report pipeline.Report
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// LatestForPair returns the most recent report for an acquirer/target pair.
func (r *RunRepo) LatestForPair(ctx context.Context, acquirer, target string) (*pipeline.Report, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("run repository has no database pool")
	}

	query := `
		SELECT report_json FROM acquisition_analysis
		WHERE acquirer = $1 AND target = $2
		ORDER BY created_at DESC LIMIT 1
	`

	var jsonData []byte
	err := r.pool.QueryRow(ctx, query, acquirer, target).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for %s/%s", acquirer, target)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report pipeline.Report
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
