package processor

import (
	"context"
	"errors"
	"os"
)

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

// cleanupDir removes a job's working directory and everything left in it
func (p *implProcessor) cleanupDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup work dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up work dir: %s", dir)
	}
}
