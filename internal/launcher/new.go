package launcher

import (
	"sync"
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/processor"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
)

// Options configures a Launcher.
type Options struct {
	// MaxConcurrent caps running pipelines; 0 means unlimited.
	MaxConcurrent int
	// Now overrides the clock used for job ids.
	Now func() time.Time
}

type implLauncher struct {
	processor processor.Processor
	store     store.Store
	logger    logger.Logger
	sem       *semaphore
	now       func() time.Time
	wg        sync.WaitGroup
}

// New creates a Launcher running jobs through proc.
func New(proc processor.Processor, st store.Store, log logger.Logger, opts Options) Launcher {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &implLauncher{
		processor: proc,
		store:     st,
		logger:    log,
		sem:       newSemaphore(opts.MaxConcurrent),
		now:       now,
	}
}
