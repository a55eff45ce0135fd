package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/launcher"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
)

// IntakeOptions are the job parameters applied to every inbox file.
type IntakeOptions struct {
	TempDir            string
	APIKey             string
	Subject            string
	TranscriptionModel string
	SummaryModel       string
}

// SubmitHandler moves each inbox file into the temp dir and submits it as a
// job, so the inbox only ever holds files not yet picked up.
func SubmitHandler(l launcher.Launcher, opts IntakeOptions, log logger.Logger) EventHandler {
	return func(ctx context.Context, filePath string) error {
		rawPath, err := claim(filePath, opts.TempDir)
		if err != nil {
			return fmt.Errorf("claim inbox file: %w", err)
		}

		h, err := l.Submit(ctx, launcher.Request{
			APIKey:             opts.APIKey,
			RawPath:            rawPath,
			Subject:            opts.Subject,
			TranscriptionModel: opts.TranscriptionModel,
			SummaryModel:       opts.SummaryModel,
		})
		if err != nil {
			os.Remove(rawPath)
			return fmt.Errorf("submit job: %w", err)
		}

		log.Info(ctx, "Inbox file %s submitted as %s", filepath.Base(filePath), h.ID)
		return nil
	}
}

// claim moves src to a fresh name under dir, copying when a rename crosses
// filesystems.
func claim(src, dir string) (string, error) {
	dst, err := os.CreateTemp(dir, "inbox_*"+filepath.Ext(src))
	if err != nil {
		return "", err
	}
	dstPath := dst.Name()
	dst.Close()

	if err := os.Rename(src, dstPath); err == nil {
		return dstPath, nil
	}

	if err := copyFile(src, dstPath); err != nil {
		os.Remove(dstPath)
		return "", err
	}
	if err := os.Remove(src); err != nil {
		os.Remove(dstPath)
		return "", err
	}
	return dstPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
