package processor

import (
	"context"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
)

// Processor runs the full pipeline for one job and records the outcome.
type Processor interface {
	// Process always writes a terminal record to the store and returns it.
	Process(ctx context.Context, spec job.Spec) job.Record
}
