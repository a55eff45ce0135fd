package launcher

import (
	"context"
)

// Request is an accepted upload waiting to be processed. The launcher owns
// RawPath once Submit succeeds.
type Request struct {
	APIKey             string
	RawPath            string
	Subject            string
	TranscriptionModel string
	SummaryModel       string
}

// Handle identifies a submitted job.
type Handle struct {
	ID    string
	Owner string
	done  chan struct{}
}

// Done is closed when the job's terminal record has been written.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Launcher starts pipeline runs in the background.
type Launcher interface {
	// Submit records the job as processing and returns without waiting
	// for the pipeline.
	Submit(ctx context.Context, req Request) (*Handle, error)
	// Wait blocks until every submitted job has finished or ctx is done.
	Wait(ctx context.Context) error
}
