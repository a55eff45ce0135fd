package watcher

import "context"

// Watcher monitors the inbox directory for new recordings.
type Watcher interface {
	// Start blocks until ctx is done or the underlying watcher fails.
	// Files already being handed over are finished before it returns.
	Start(ctx context.Context) error
	// Stop releases the fsnotify watcher.
	Stop() error
}

// EventHandler receives the path of a settled audio file in the inbox.
type EventHandler func(ctx context.Context, filePath string) error
