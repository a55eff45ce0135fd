package summarizer

import (
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/pkg/retry"
)

// Options tunes the quota retry loop. Zero values take the defaults.
type Options struct {
	Attempts  int
	BaseDelay time.Duration
	MaxJitter time.Duration
	Sleep     retry.SleepFunc
}

type implSummarizer struct {
	opts   Options
	logger logger.Logger
}

// New creates a Summarizer.
func New(opts Options, log logger.Logger) Summarizer {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 5 * time.Second
	}
	if opts.MaxJitter <= 0 {
		opts.MaxJitter = time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = retry.Sleep
	}
	return &implSummarizer{
		opts:   opts,
		logger: log,
	}
}
