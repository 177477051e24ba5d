package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("store: run not found")

// ListRuns returns all recorded runs, newest first, without their test
// orderings. Returns an empty slice (not nil) when there are none.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, project_root, group_size, ranking
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its full ordering, sorted by emission
// sequence.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, project_root, group_size, ranking
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, test_name, executions, failures, last_failure
		FROM run_tests
		WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rt RunTest
		if err := rows.Scan(&rt.Seq, &rt.TestName, &rt.Executions, &rt.Failures, &rt.LastFailure); err != nil {
			return nil, fmt.Errorf("get run %s: %w", id, err)
		}
		run.Tests = append(run.Tests, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var created string
	if err := row.Scan(&run.ID, &created, &run.ProjectRoot, &run.GroupSize, &run.Ranking); err != nil {
		return Run{}, err
	}
	ts, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return Run{}, fmt.Errorf("scan run %s: bad created_at %q: %w", run.ID, created, err)
	}
	run.CreatedAt = ts
	return run, nil
}
