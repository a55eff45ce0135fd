package audio

import (
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/pkg/executor"
)

// Options holds the binaries and encoding settings.
type Options struct {
	FFmpegPath     string
	FFprobePath    string
	Bitrate        string
	MinOutputBytes int64
}

type implTool struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Tool that shells out through exec.
func New(opts Options, exec executor.Executor, log logger.Logger) Tool {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = "ffprobe"
	}
	if opts.Bitrate == "" {
		opts.Bitrate = "192k"
	}
	if opts.MinOutputBytes <= 0 {
		opts.MinOutputBytes = 1024
	}
	return &implTool{
		opts:     opts,
		executor: exec,
		logger:   log,
	}
}
