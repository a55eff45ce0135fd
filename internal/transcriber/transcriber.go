package transcriber

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/pkg/retry"
)

// Transcribe uploads the chunk, waits for the remote file to become usable
// and asks the model for a transcript. Quota errors restart the whole
// upload/poll/generate cycle with exponential backoff.
func (t *implTranscriber) Transcribe(ctx context.Context, remote gemini.Client, req Request) (string, error) {
	prompt := buildPrompt(req.Index, req.Previous)

	var text string
	b := retry.Backoff{
		Attempts:  t.opts.Attempts,
		Base:      t.opts.BaseDelay,
		MaxJitter: t.opts.MaxJitter,
		Retryable: gemini.IsQuotaExhausted,
		Sleep:     t.opts.Sleep,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			t.logger.Warn(ctx, "[%s] Rate limited on chunk %d/%d (attempt %d/%d): %v. Waiting %.1fs",
				req.JobID, req.Index+1, req.Total, attempt+1, t.opts.Attempts, err, wait.Seconds())
		},
	}

	err := b.Do(ctx, func(ctx context.Context, attempt int) error {
		t.logger.Info(ctx, "[%s] Uploading chunk %d/%d (attempt %d)", req.JobID, req.Index+1, req.Total, attempt+1)
		var err error
		text, err = t.attempt(ctx, remote, req, prompt)
		return err
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return "", job.Errorf(job.KindTranscriptionExhausted, err, "transcribe chunk %d/%d", req.Index+1, req.Total)
		}
		return "", fmt.Errorf("transcribe chunk %d/%d: %w", req.Index+1, req.Total, err)
	}

	t.logger.Info(ctx, "[%s] Chunk %d/%d transcribed", req.JobID, req.Index+1, req.Total)
	return text, nil
}

func (t *implTranscriber) attempt(ctx context.Context, remote gemini.Client, req Request, prompt string) (string, error) {
	f, err := remote.UploadFile(ctx, req.Path, mimeType)
	if err != nil {
		return "", err
	}
	defer t.deleteRemote(ctx, remote, req.JobID, f.Name)

	polled := false
	err = retry.Poll(ctx, t.opts.PollInterval, t.opts.Sleep, func(ctx context.Context) (bool, error) {
		if polled {
			next, err := remote.GetFile(ctx, f.Name)
			if err != nil {
				return false, err
			}
			f = next
		}
		polled = true
		return f.State != gemini.StateProcessing, nil
	})
	if err != nil {
		return "", err
	}
	if f.State == gemini.StateFailed {
		return "", job.Errorf(job.KindRemoteProcessing, nil, "remote processing of chunk %d failed", req.Index+1)
	}

	return remote.Generate(ctx, gemini.GenerateRequest{
		Model:  req.Model,
		Prompt: prompt,
		File:   &f,
	})
}

// deleteRemote runs on a context that outlives cancellation of the attempt.
func (t *implTranscriber) deleteRemote(ctx context.Context, remote gemini.Client, jobID, name string) {
	if name == "" {
		return
	}
	if err := remote.DeleteFile(context.WithoutCancel(ctx), name); err != nil {
		t.logger.Warn(ctx, "[%s] Failed to delete remote file %s: %v", jobID, name, err)
	}
}
