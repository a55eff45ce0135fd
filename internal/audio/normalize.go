package audio

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
)

// Normalize re-encodes raw into an MP3 with a widened probe window.
func (t *implTool) Normalize(ctx context.Context, raw, dst string) error {
	t.logger.Info(ctx, "Repairing audio: %s", raw)

	args := []string{
		"-y",
		"-analyzeduration", "20M",
		"-probesize", "20M",
		"-i", raw,
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", t.opts.Bitrate,
		"-f", "mp3",
		dst,
	}
	if _, err := t.executor.Run(ctx, t.opts.FFmpegPath, args...); err != nil {
		return job.Errorf(job.KindRepair, err, "repair audio")
	}

	info, err := os.Stat(dst)
	if err != nil {
		return job.Errorf(job.KindEmptyOutput, err, "repaired audio missing")
	}
	if info.Size() < t.opts.MinOutputBytes {
		return job.Errorf(job.KindEmptyOutput, nil, "repaired audio is empty or too small (%d bytes)", info.Size())
	}

	t.logger.Debug(ctx, "Repaired audio: %s (%d bytes)", dst, info.Size())
	return nil
}

// Verify probes the container duration of path.
func (t *implTool) Verify(ctx context.Context, path string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	out, err := t.executor.Run(ctx, t.opts.FFprobePath, args...)
	if err != nil {
		return 0, job.Errorf(job.KindUnreadableAudio, err, "probe audio")
	}

	raw := strings.TrimSpace(out.Stdout)
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, job.Errorf(job.KindUnreadableAudio, err, "parse probed duration %q", raw)
	}
	if secs <= 0 {
		return 0, job.Errorf(job.KindUnreadableAudio, nil, "audio has no duration (%s)", raw)
	}

	d := time.Duration(secs * float64(time.Second))
	t.logger.Info(ctx, "Audio verified: %s", d.Round(time.Second))
	return d, nil
}
