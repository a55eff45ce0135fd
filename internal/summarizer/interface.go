package summarizer

import (
	"context"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
)

// Request is the input of one summary call.
type Request struct {
	JobID      string
	Model      string
	Subject    string
	Transcript string
}

// Summary is the structured answer of the summary model.
type Summary struct {
	Summary        string `json:"summary"`
	SuggestedTopic string `json:"suggestedTopic"`
}

// Summarizer turns a full lecture transcript into a summary and a title.
type Summarizer interface {
	Summarize(ctx context.Context, remote gemini.Client, req Request) (Summary, error)
}
