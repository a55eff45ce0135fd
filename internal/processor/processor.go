package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/summarizer"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/transcriber"
)

// Process orchestrates the entire lecture pipeline: repair, verify,
// chunked transcription and summary. The raw upload and the working
// directory are gone by the time it returns.
func (p *implProcessor) Process(ctx context.Context, spec job.Spec) (rec job.Record) {
	startTime := time.Now()
	tag := spec.ID + "/" + job.ShortOwner(spec.Owner)

	p.logger.Info(ctx, "[%s] Starting processing (subject: %s)", tag, spec.Subject)

	defer p.cleanupTempFile(ctx, spec.RawPath)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(ctx, "[%s] Pipeline panic: %v\n%s", tag, r, debug.Stack())
			rec = job.Failed(fmt.Sprintf("internal error: %v", r))
		}
		p.persist(ctx, spec, tag, rec)
	}()

	res, err := p.run(ctx, spec, tag)
	if err != nil {
		p.logger.Error(ctx, "[%s] Processing failed (%s) after %s: %v", tag, job.KindOf(err), time.Since(startTime).Round(time.Second), err)
		return job.Failed(failureMessage(err))
	}

	p.logger.Info(ctx, "[%s] Processing completed in %s", tag, time.Since(startTime).Round(time.Second))
	return job.Completed(res)
}

func (p *implProcessor) run(ctx context.Context, spec job.Spec, tag string) (job.Result, error) {
	workDir, err := os.MkdirTemp(p.tempDir, spec.ID+"_")
	if err != nil {
		return job.Result{}, fmt.Errorf("create work dir: %w", err)
	}
	defer p.cleanupDir(ctx, workDir)

	// Step 1: Repair the upload into a clean MP3
	cleanPath := filepath.Join(workDir, "clean.mp3")
	if err := p.normalizer.Normalize(ctx, spec.RawPath, cleanPath); err != nil {
		return job.Result{}, err
	}

	// Step 2: Make sure the result is readable
	total, err := p.normalizer.Verify(ctx, cleanPath)
	if err != nil {
		return job.Result{}, err
	}

	remote, err := p.remote(ctx, spec.APIKey)
	if err != nil {
		return job.Result{}, fmt.Errorf("create gemini client: %w", err)
	}

	// Step 3: Transcribe chunk by chunk, feeding each one the tail of the last
	var transcripts []string
	for chunk, err := range p.chunker.Split(ctx, cleanPath, workDir, total) {
		if err != nil {
			return job.Result{}, err
		}
		p.logger.Info(ctx, "[%s] Processing chunk %d/%d", tag, chunk.Index+1, chunk.Total)

		var previous string
		if len(transcripts) > 0 {
			previous = transcripts[len(transcripts)-1]
		}
		text, err := p.transcriber.Transcribe(ctx, remote, transcriber.Request{
			JobID:    tag,
			Model:    spec.TranscriptionModel,
			Path:     chunk.Path,
			Index:    chunk.Index,
			Total:    chunk.Total,
			Previous: previous,
		})
		if err != nil {
			return job.Result{}, err
		}
		transcripts = append(transcripts, text)
	}

	transcript := strings.TrimSpace(strings.Join(transcripts, " "))
	p.logger.Info(ctx, "[%s] Transcript assembled (%d chunks, %d chars)", tag, len(transcripts), len(transcript))

	// Step 4: Summary and topic in one call
	sum, err := p.summarizer.Summarize(ctx, remote, summarizer.Request{
		JobID:      tag,
		Model:      spec.SummaryModel,
		Subject:    spec.Subject,
		Transcript: transcript,
	})
	if err != nil {
		return job.Result{}, err
	}

	return job.Result{
		Transcript:     transcript,
		Summary:        sum.Summary,
		SuggestedTopic: sum.SuggestedTopic,
	}, nil
}

// persist writes the terminal record even if ctx was cancelled.
func (p *implProcessor) persist(ctx context.Context, spec job.Spec, tag string, rec job.Record) {
	if err := p.store.Put(context.WithoutCancel(ctx), spec.Owner, spec.ID, rec); err != nil {
		p.logger.Error(ctx, "[%s] Failed to store %s record: %v", tag, rec.Status, err)
	}
}

// failureMessage is the client-visible message of a failed job. Quota
// failures carry a prefix so clients can retry later.
func failureMessage(err error) string {
	if gemini.IsQuotaExhausted(err) {
		return job.RateLimitPrefix + err.Error()
	}
	return err.Error()
}
