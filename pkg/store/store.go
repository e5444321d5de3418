// Package store archives fetch runs so datasets can be revisited without
// refetching. The MongoDB backend is the only implementation; runs are
// keyed by their run ID.
package store

import (
	"context"
	"time"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

// RunInfo is the archive listing entry for one stored run.
type RunInfo struct {
	RunID     string    `json:"run_id" bson:"run_id"`
	Query     string    `json:"query,omitempty" bson:"query,omitempty"`
	FetchedAt time.Time `json:"fetched_at" bson:"fetched_at"`
	Records   int       `json:"records" bson:"records"`
}

// Store archives and retrieves fetch runs.
type Store interface {
	// SaveRun stores ds, replacing any run with the same run ID.
	SaveRun(ctx context.Context, ds *genome.Dataset) error

	// LoadRun retrieves a run by ID. Returns cache.ErrNotFound when no
	// such run exists.
	LoadRun(ctx context.Context, runID string) (*genome.Dataset, error)

	// ListRuns lists stored runs, newest first. limit caps the result
	// (0 means all).
	ListRuns(ctx context.Context, limit int) ([]RunInfo, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
