package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
)

var supportedFormats = []string{".mp3", ".m4a", ".wav", ".ogg", ".oga", ".opus", ".flac", ".aac", ".webm", ".mp4", ".wma", ".amr"}

type implWatcher struct {
	inputDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	settle   time.Duration
	wg       sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}
}

// Start begins monitoring the inbox directory for new recordings. Files
// already in the inbox are submitted first, so recordings dropped while the
// service was down, or interrupted by a shutdown, are not lost.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started. Monitoring: %s", w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(supportedFormats, ", "))

	if err := w.scanExisting(ctx); err != nil {
		w.logger.Error(ctx, "Failed to scan inbox: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for pending inbox files...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			// Only process CREATE events
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)
			w.dispatch(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// scanExisting dispatches the audio files present in the inbox right now.
func (w *implWatcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return err
	}

	found := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !isAudioFile(e.Name()) {
			continue
		}
		found++
		w.dispatch(ctx, filepath.Join(w.inputDir, e.Name()))
	}
	if found > 0 {
		w.logger.Info(ctx, "Found %d recording(s) already in the inbox", found)
	}
	return nil
}

// dispatch hands filePath to the handler after the settle delay. A path
// seen both by the startup scan and by fsnotify is handled once.
func (w *implWatcher) dispatch(ctx context.Context, filePath string) {
	w.mu.Lock()
	if _, ok := w.pending[filePath]; ok {
		w.mu.Unlock()
		return
	}
	w.pending[filePath] = struct{}{}
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.pending, filePath)
			w.mu.Unlock()
		}()

		// Small delay to ensure file is fully written
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return
		}

		// Already claimed by an earlier dispatch.
		if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
			return
		}

		if err := w.handler(ctx, filePath); err != nil {
			w.logger.Error(ctx, "Failed to submit %s: %v", filePath, err)
		}
	}()
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isAudioFile checks if the file has a supported audio extension. Hidden
// files are skipped so partial uploads named .name.part never match.
func isAudioFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return slices.Contains(supportedFormats, strings.ToLower(filepath.Ext(base)))
}
