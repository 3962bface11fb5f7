// Package store defines persistence for evaluation runs.
package store

import (
	"context"
	"errors"
	"time"

	"kgeval/pkg/eval"
)

// Run lifecycle states.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ErrRunNotFound is returned when no run matches the given public ID.
var ErrRunNotFound = errors.New("evaluation run not found")

// EvaluationRun is one queued or finished evaluation of a stored graph.
type EvaluationRun struct {
	ID       int64  `json:"-"`
	PublicID string `json:"id"`

	// GraphKey locates the knowledge-graph JSON in object storage.
	GraphKey string `json:"graph_key"`

	Status string `json:"status"`

	Dimensions          []string `json:"dimensions"`
	SampleSize          int      `json:"sample_size"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
	Seed                int64    `json:"seed"`

	Result *eval.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EvaluationStore persists evaluation runs and their results.
type EvaluationStore interface {
	// CreateRun inserts a pending run and fills in its database ID and
	// timestamps.
	CreateRun(ctx context.Context, run *EvaluationRun) error

	// GetRun fetches a run by public ID. Returns ErrRunNotFound when absent.
	GetRun(ctx context.Context, publicID string) (*EvaluationRun, error)

	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context, limit, offset int) ([]EvaluationRun, error)

	// MarkRunning transitions a pending run to running.
	MarkRunning(ctx context.Context, publicID string) error

	// CompleteRun stores the result and transitions the run to completed.
	CompleteRun(ctx context.Context, publicID string, result *eval.Result) error

	// FailRun records the failure reason and transitions the run to failed.
	FailRun(ctx context.Context, publicID string, reason string) error
}
