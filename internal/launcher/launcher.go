package launcher

import (
	"context"
	"fmt"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
)

func (l *implLauncher) Submit(ctx context.Context, req Request) (*Handle, error) {
	spec := job.Spec{
		ID:                 job.NewID(l.now()),
		Owner:              job.OwnerFromKey(req.APIKey),
		APIKey:             req.APIKey,
		RawPath:            req.RawPath,
		Subject:            req.Subject,
		TranscriptionModel: req.TranscriptionModel,
		SummaryModel:       req.SummaryModel,
	}

	if err := l.store.Create(ctx, spec.Owner, spec.ID, job.Processing()); err != nil {
		return nil, fmt.Errorf("create job %s: %w", spec.ID, err)
	}

	h := &Handle{ID: spec.ID, Owner: spec.Owner, done: make(chan struct{})}
	jobCtx := context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(h.done)

		if err := l.sem.acquire(jobCtx); err != nil {
			l.logger.Error(jobCtx, "[%s] Could not acquire slot: %v", spec.ID, err)
			return
		}
		defer l.sem.release()

		l.processor.Process(jobCtx, spec)
	}()

	l.logger.Info(ctx, "[%s/%s] Job accepted", spec.ID, job.ShortOwner(spec.Owner))
	return h, nil
}

func (l *implLauncher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
