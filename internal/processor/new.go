package processor

import (
	"os"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/audio"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/summarizer"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/transcriber"
)

// Deps are the collaborators of a Processor.
type Deps struct {
	Normalizer  audio.Normalizer
	Chunker     audio.Chunker
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Remote      gemini.Factory
	Store       store.Store
	Logger      logger.Logger
	// TempDir holds the per-job working directories.
	TempDir string
}

type implProcessor struct {
	normalizer  audio.Normalizer
	chunker     audio.Chunker
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	remote      gemini.Factory
	store       store.Store
	logger      logger.Logger
	tempDir     string
}

// New creates a new Processor instance
func New(d Deps) Processor {
	tempDir := d.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &implProcessor{
		normalizer:  d.Normalizer,
		chunker:     d.Chunker,
		transcriber: d.Transcriber,
		summarizer:  d.Summarizer,
		remote:      d.Remote,
		store:       d.Store,
		logger:      d.Logger,
		tempDir:     tempDir,
	}
}
