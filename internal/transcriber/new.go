package transcriber

import (
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/pkg/retry"
)

const (
	defaultAttempts     = 10
	defaultBaseDelay    = 5 * time.Second
	defaultMaxJitter    = time.Second
	defaultPollInterval = 10 * time.Second
	mimeType            = "audio/mpeg"
	contextRunes        = 250
)

// Options tunes the retry and poll loops. Zero values take the defaults.
type Options struct {
	Attempts     int
	BaseDelay    time.Duration
	MaxJitter    time.Duration
	PollInterval time.Duration
	// Sleep replaces the real wait, used by tests.
	Sleep retry.SleepFunc
}

type implTranscriber struct {
	opts   Options
	logger logger.Logger
}

// New creates a Transcriber.
func New(opts Options, log logger.Logger) Transcriber {
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxJitter <= 0 {
		opts.MaxJitter = defaultMaxJitter
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Sleep == nil {
		opts.Sleep = retry.Sleep
	}
	return &implTranscriber{
		opts:   opts,
		logger: log,
	}
}
