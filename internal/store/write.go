package store

import (
	"context"
	"fmt"
	"time"
)

// Run is one persisted prioritization run.
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ProjectRoot string    `json:"project_root"`
	GroupSize   int       `json:"group_size"`
	Ranking     string    `json:"ranking"`
	Tests       []RunTest `json:"tests,omitempty"`
}

// RunTest is one emitted test with the history statistics snapshotted at
// emission time. LastFailure is -1 when the test never failed.
type RunTest struct {
	Seq         int    `json:"seq"`
	TestName    string `json:"test_name"`
	Executions  int    `json:"executions"`
	Failures    int    `json:"failures"`
	LastFailure int    `json:"last_failure"`
}

// RecordRun writes a run and its emitted ordering in one transaction.
// Test sequence numbers are assigned from slice order, starting at 1.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, project_root, group_size, ranking)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.ProjectRoot, run.GroupSize, run.Ranking)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}

	for i, rt := range run.Tests {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_tests (run_id, seq, test_name, executions, failures, last_failure)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, i+1, rt.TestName, rt.Executions, rt.Failures, rt.LastFailure)
		if err != nil {
			return fmt.Errorf("record run %s test %d: %w", run.ID, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}
