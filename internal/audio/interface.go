package audio

import (
	"context"
	"iter"
	"time"
)

// ChunkDuration is the fixed length of every transcription chunk except
// possibly the last.
const ChunkDuration = 15 * time.Minute

// Normalizer repairs uploaded recordings and checks that the result is
// readable.
type Normalizer interface {
	// Normalize re-encodes raw into a constant-bitrate MP3 at dst.
	Normalize(ctx context.Context, raw, dst string) error
	// Verify returns the duration of the audio at path.
	Verify(ctx context.Context, path string) (time.Duration, error)
}

// Chunker exports fixed-length slices of a normalized recording.
type Chunker interface {
	// Split yields chunks in order. Each chunk file is removed as soon as
	// the loop body returns. The sequence is single-use.
	Split(ctx context.Context, src, dir string, total time.Duration) iter.Seq2[Chunk, error]
}

// Tool does both jobs with the same ffmpeg installation.
type Tool interface {
	Normalizer
	Chunker
}
