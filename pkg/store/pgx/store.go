// Package pgx implements store.EvaluationStore on PostgreSQL.
package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kgeval/pkg/eval"
	"kgeval/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// EvalDBStore implements store.EvaluationStore over a pgx connection or pool.
type EvalDBStore struct {
	conn pgxIConn
}

// NewEvalDBStore creates a store over an existing connection.
func NewEvalDBStore(conn pgxIConn) *EvalDBStore {
	return &EvalDBStore{conn: conn}
}

const createRunSQL = `
INSERT INTO evaluation_runs
	(public_id, graph_key, status, dimensions, sample_size, similarity_threshold, seed)
VALUES
	($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`

func (s *EvalDBStore) CreateRun(ctx context.Context, run *store.EvaluationRun) error {
	if run.Status == "" {
		run.Status = store.StatusPending
	}

	err := s.conn.QueryRow(ctx, createRunSQL,
		run.PublicID,
		run.GraphKey,
		run.Status,
		run.Dimensions,
		run.SampleSize,
		run.SimilarityThreshold,
		run.Seed,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create evaluation run: %w", err)
	}

	return nil
}

const getRunSQL = `
SELECT id, public_id, graph_key, status, dimensions, sample_size,
	similarity_threshold, seed, result, error, created_at, updated_at
FROM evaluation_runs
WHERE public_id = $1`

func (s *EvalDBStore) GetRun(ctx context.Context, publicID string) (*store.EvaluationRun, error) {
	run, err := scanRun(s.conn.QueryRow(ctx, getRunSQL, publicID))
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, store.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation run: %w", err)
	}
	return run, nil
}

const listRunsSQL = `
SELECT id, public_id, graph_key, status, dimensions, sample_size,
	similarity_threshold, seed, result, error, created_at, updated_at
FROM evaluation_runs
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`

func (s *EvalDBStore) ListRuns(ctx context.Context, limit, offset int) ([]store.EvaluationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.Query(ctx, listRunsSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation runs: %w", err)
	}
	defer rows.Close()

	var runs []store.EvaluationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

func (s *EvalDBStore) MarkRunning(ctx context.Context, publicID string) error {
	return s.setStatus(ctx, publicID, store.StatusRunning)
}

const completeRunSQL = `
UPDATE evaluation_runs
SET status = $2, result = $3, error = '', updated_at = now()
WHERE public_id = $1`

func (s *EvalDBStore) CompleteRun(ctx context.Context, publicID string, result *eval.Result) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation result: %w", err)
	}

	tag, err := s.conn.Exec(ctx, completeRunSQL, publicID, store.StatusCompleted, encoded)
	if err != nil {
		return fmt.Errorf("failed to complete evaluation run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrRunNotFound
	}
	return nil
}

const failRunSQL = `
UPDATE evaluation_runs
SET status = $2, error = $3, updated_at = now()
WHERE public_id = $1`

func (s *EvalDBStore) FailRun(ctx context.Context, publicID string, reason string) error {
	tag, err := s.conn.Exec(ctx, failRunSQL, publicID, store.StatusFailed, reason)
	if err != nil {
		return fmt.Errorf("failed to mark evaluation run failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrRunNotFound
	}
	return nil
}

const setStatusSQL = `
UPDATE evaluation_runs
SET status = $2, updated_at = now()
WHERE public_id = $1`

func (s *EvalDBStore) setStatus(ctx context.Context, publicID string, status string) error {
	tag, err := s.conn.Exec(ctx, setStatusSQL, publicID, status)
	if err != nil {
		return fmt.Errorf("failed to update evaluation run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrRunNotFound
	}
	return nil
}

func scanRun(row pgxv5.Row) (*store.EvaluationRun, error) {
	var (
		run    store.EvaluationRun
		result []byte
	)

	err := row.Scan(
		&run.ID,
		&run.PublicID,
		&run.GraphKey,
		&run.Status,
		&run.Dimensions,
		&run.SampleSize,
		&run.SimilarityThreshold,
		&run.Seed,
		&result,
		&run.Error,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(result) > 0 {
		run.Result = &eval.Result{}
		if err := json.Unmarshal(result, run.Result); err != nil {
			return nil, fmt.Errorf("failed to decode stored result: %w", err)
		}
	}

	return &run, nil
}
