package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded CLI invocation.
type Run struct {
	ID          string
	CreatedAt   int64 // unix milliseconds
	CircuitFile string
	TestFile    string
	Passed      int
	Failed      int
}

// RunResult is one test case's outcome within a run.
type RunResult struct {
	TestName     string
	Status       string
	ElapsedMs    int64
	ErrorMessage string
}

// NewRunID returns a time-ordered unique run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SaveRun records a run and its per-test results in one transaction.
// A missing ID or timestamp is filled in. Returns the run ID.
func (s *Store) SaveRun(ctx context.Context, run Run, results []RunResult) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixMilli()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, circuit_file, test_file, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt, run.CircuitFile, run.TestFile, run.Passed, run.Failed)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	for seq, r := range results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO results (run_id, seq, test_name, status, elapsed_ms, error_message)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, seq, r.TestName, r.Status, r.ElapsedMs, r.ErrorMessage)
		if err != nil {
			return "", fmt.Errorf("save result %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first. Ties on timestamp
// break on id so the order stays deterministic.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, circuit_file, test_file, passed, failed
		FROM runs
		ORDER BY created_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.CircuitFile, &run.TestFile, &run.Passed, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ResultsForRun returns a run's per-test outcomes in execution order.
func (s *Store) ResultsForRun(ctx context.Context, runID string) ([]RunResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT test_name, status, elapsed_ms, error_message
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []RunResult{}
	for rows.Next() {
		var r RunResult
		if err := rows.Scan(&r.TestName, &r.Status, &r.ElapsedMs, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
