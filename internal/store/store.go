// Package store persists job records keyed by (owner, job id).
package store

import (
	"context"
	"errors"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
)

var (
	ErrNotFound = errors.New("job not found")
	ErrExists   = errors.New("job already exists")
)

// Store is the job record repository. Writes replace the whole record.
type Store interface {
	// Create stores rec and fails with ErrExists if the key is taken.
	Create(ctx context.Context, owner, id string, rec job.Record) error
	// Put stores rec, overwriting whatever was there.
	Put(ctx context.Context, owner, id string, rec job.Record) error
	// Get returns ErrNotFound for unknown keys.
	Get(ctx context.Context, owner, id string) (job.Record, error)
	Exists(ctx context.Context, owner, id string) (bool, error)
	// List returns every job of owner ordered by id.
	List(ctx context.Context, owner string) ([]job.Entry, error)
	Close() error
}

// Clone returns a copy of rec that shares no memory with it.
func Clone(rec job.Record) job.Record {
	if rec.Result != nil {
		res := *rec.Result
		rec.Result = &res
	}
	return rec
}
