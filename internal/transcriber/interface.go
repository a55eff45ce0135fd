package transcriber

import (
	"context"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
)

// Request describes one chunk to transcribe.
type Request struct {
	JobID string
	Model string
	Path  string
	// Index is zero-based; Total is the number of chunks in the job.
	Index int
	Total int
	// Previous is the transcript of the preceding chunk, empty for the
	// first one.
	Previous string
}

// Transcriber turns one audio chunk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, remote gemini.Client, req Request) (string, error)
}
