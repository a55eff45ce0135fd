package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/launcher"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/summarizer"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload stores the multipart file in the temp dir and launches a job on
// it. The response carries only the job id.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file troppo grande (massimo %d MB)", h.maxUploadBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "Nessun file fornito")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Nessun file fornito")
		return
	}
	defer file.Close()

	rawPath, err := h.saveUpload(file, header.Filename)
	if err != nil {
		h.logger.Error(ctx, "Failed to save upload: %v", err)
		writeError(w, http.StatusInternalServerError, "impossibile salvare il file")
		return
	}

	req := launcher.Request{
		APIKey:             apiKeyFromContext(ctx),
		RawPath:            rawPath,
		Subject:            formValue(r, "subject", defaultSubject),
		TranscriptionModel: formValue(r, "transcription_model", h.transcriptionModel),
		SummaryModel:       formValue(r, "summary_model", h.summaryModel),
	}
	handle, err := h.launcher.Submit(ctx, req)
	if err != nil {
		os.Remove(rawPath)
		h.logger.Error(ctx, "Failed to submit job: %v", err)
		writeError(w, http.StatusInternalServerError, "impossibile creare il job")
		return
	}

	h.logger.Info(ctx, "New job: owner=%s id=%s transcription=%s summary=%s",
		job.ShortOwner(handle.Owner), handle.ID, req.TranscriptionModel, req.SummaryModel)
	writeJSON(w, http.StatusOK, map[string]string{"lesson_id": handle.ID})
}

func (h *Handler) saveUpload(src io.Reader, filename string) (string, error) {
	ext := filepath.Ext(filepath.Base(filename))
	if ext == "" || strings.ContainsAny(ext, `*/\`) {
		ext = ".tmp"
	}

	dst, err := os.CreateTemp(h.tempDir, "upload_*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return dst.Name(), nil
}

func formValue(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

// Result returns the stored record verbatim.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := job.OwnerFromKey(apiKeyFromContext(ctx))
	id := chi.URLParam(r, "lesson_id")

	rec, err := h.store.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
			return
		}
		h.logger.Error(ctx, "Failed to read job %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "impossibile leggere il job")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ResultDocx renders a completed job as a Word document.
func (h *Handler) ResultDocx(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := job.OwnerFromKey(apiKeyFromContext(ctx))
	id := chi.URLParam(r, "lesson_id")

	rec, err := h.store.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
			return
		}
		h.logger.Error(ctx, "Failed to read job %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "impossibile leggere il job")
		return
	}
	if rec.Status != job.StatusCompleted || rec.Result == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"status": string(rec.Status), "error": "job non completato"})
		return
	}

	tmp, err := os.CreateTemp(h.tempDir, "export_*.docx")
	if err != nil {
		h.logger.Error(ctx, "Failed to create export file: %v", err)
		writeError(w, http.StatusInternalServerError, "esportazione fallita")
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := summarizer.WriteDocx(tmpPath, *rec.Result); err != nil {
		h.logger.Error(ctx, "Failed to export job %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "esportazione fallita")
		return
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "esportazione fallita")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.docx"`, id))
	http.ServeContent(w, r, id+".docx", time.Now(), f)
}

type syncRequest struct {
	KnownIDs []string `json:"known_ids"`
}

// Sync returns the terminal records among known_ids, or among all of the
// caller's jobs when the list is empty.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := job.OwnerFromKey(apiKeyFromContext(ctx))

	var req syncRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSyncBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug(ctx, "Ignoring unreadable sync body: %v", err)
		req.KnownIDs = nil
	}

	out := []job.Entry{}
	if len(req.KnownIDs) == 0 {
		entries, err := h.store.List(ctx, owner)
		if err != nil {
			h.logger.Error(ctx, "Failed to list jobs: %v", err)
			writeError(w, http.StatusInternalServerError, "impossibile leggere i job")
			return
		}
		for _, e := range entries {
			if e.Status.Terminal() {
				out = append(out, e)
			}
		}
	} else {
		for _, id := range req.KnownIDs {
			rec, err := h.store.Get(ctx, owner, id)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					h.logger.Warn(ctx, "Skipping unreadable job %s during sync: %v", id, err)
				}
				continue
			}
			if rec.Status.Terminal() {
				out = append(out, job.Entry{ID: id, Record: rec})
			}
		}
	}

	if len(out) > 0 {
		h.logger.Info(ctx, "Sync for %s: %d finished jobs", job.ShortOwner(owner), len(out))
	}
	writeJSON(w, http.StatusOK, out)
}
