package audio

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Span is one planned slice of a recording.
type Span struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
}

// Chunk is an exported span on disk.
type Chunk struct {
	Span
	Path  string
	Total int
}

// Plan cuts total into consecutive spans of size; the last span holds the
// remainder. Anything shorter than size yields a single span.
func Plan(total, size time.Duration) []Span {
	if total <= 0 || size <= 0 {
		return nil
	}

	n := int(total / size)
	if total%size != 0 {
		n++
	}

	spans := make([]Span, 0, n)
	for i := 0; i < n; i++ {
		start := time.Duration(i) * size
		spans = append(spans, Span{
			Index:    i,
			Start:    start,
			Duration: min(size, total-start),
		})
	}
	return spans
}

func (t *implTool) Split(ctx context.Context, src, dir string, total time.Duration) iter.Seq2[Chunk, error] {
	spans := Plan(total, ChunkDuration)

	return func(yield func(Chunk, error) bool) {
		for _, span := range spans {
			path := filepath.Join(dir, fmt.Sprintf("chunk_%03d.mp3", span.Index))
			if err := t.export(ctx, src, path, span); err != nil {
				os.Remove(path)
				yield(Chunk{Span: span, Total: len(spans)}, fmt.Errorf("export chunk %d: %w", span.Index+1, err))
				return
			}

			more := yield(Chunk{Span: span, Path: path, Total: len(spans)}, nil)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				t.logger.Warn(ctx, "Failed to cleanup chunk %s: %v", path, err)
			}
			if !more {
				return
			}
		}
	}
}

func (t *implTool) export(ctx context.Context, src, dst string, span Span) error {
	args := []string{
		"-y",
		"-ss", seconds(span.Start),
		"-t", seconds(span.Duration),
		"-i", src,
		"-c:a", "copy",
		dst,
	}
	if _, err := t.executor.Run(ctx, t.opts.FFmpegPath, args...); err != nil {
		return err
	}
	return nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
