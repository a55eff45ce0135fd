package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
)

const defaultSettle = 500 * time.Millisecond

// New creates a Watcher on inputDir. settle is the pause between seeing a
// file and handing it over, so writers can finish.
func New(inputDir string, handler EventHandler, log logger.Logger, settle time.Duration) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settle <= 0 {
		settle = defaultSettle
	}

	return &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
		settle:   settle,
		pending:  make(map[string]struct{}),
	}, nil
}
