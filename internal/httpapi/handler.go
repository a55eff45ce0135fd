package httpapi

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/launcher"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
)

const (
	defaultSubject    = "N/A"
	defaultUploadMB   = 1024
	maxSyncBodyBytes  = 1 << 20
	multipartMemBytes = 32 << 20
)

// Options carries the request defaults and limits.
type Options struct {
	TempDir            string
	MaxUploadMB        int64
	TranscriptionModel string
	SummaryModel       string
	CORSOrigins        []string
}

// Handler serves the job API.
type Handler struct {
	launcher           launcher.Launcher
	store              store.Store
	logger             logger.Logger
	tempDir            string
	maxUploadBytes     int64
	transcriptionModel string
	summaryModel       string
	corsOrigins        []string
}

// NewHandler creates a Handler.
func NewHandler(l launcher.Launcher, st store.Store, log logger.Logger, opts Options) *Handler {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = defaultUploadMB
	}
	if opts.TranscriptionModel == "" {
		opts.TranscriptionModel = "gemini-1.5-flash"
	}
	if opts.SummaryModel == "" {
		opts.SummaryModel = "gemini-1.5-pro"
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Handler{
		launcher:           l,
		store:              st,
		logger:             log,
		tempDir:            opts.TempDir,
		maxUploadBytes:     opts.MaxUploadMB << 20,
		transcriptionModel: opts.TranscriptionModel,
		summaryModel:       opts.SummaryModel,
		corsOrigins:        opts.CORSOrigins,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
