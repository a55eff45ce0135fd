// Package geminitest provides an in-memory gemini.Client for tests.
package geminitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
)

// Fake records every call and answers from the configured hooks. The zero
// value uploads files straight to the active state and generates "".
type Fake struct {
	mu sync.Mutex

	// States is consumed by successive GetFile calls; once drained, files
	// report active. A non-empty States makes uploads start in processing.
	States []gemini.FileState
	// UploadFunc, when set, can fail the n-th upload (zero-based).
	UploadFunc func(n int, path string) error
	// GenerateFunc answers Generate calls.
	GenerateFunc func(n int, req gemini.GenerateRequest) (string, error)
	DeleteErr    error
	FactoryErr   error

	Keys      []string
	Uploaded  []string
	Deleted   []string
	Polls     int
	Generated []gemini.GenerateRequest
}

// Factory returns a gemini.Factory handing out this fake.
func (f *Fake) Factory() gemini.Factory {
	return func(ctx context.Context, apiKey string) (gemini.Client, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.Keys = append(f.Keys, apiKey)
		if f.FactoryErr != nil {
			return nil, f.FactoryErr
		}
		return f, nil
	}
}

func (f *Fake) UploadFile(ctx context.Context, path, mimeType string) (gemini.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.Uploaded)
	f.Uploaded = append(f.Uploaded, path)
	if f.UploadFunc != nil {
		if err := f.UploadFunc(n, path); err != nil {
			return gemini.File{}, err
		}
	}

	state := gemini.StateActive
	if len(f.States) > 0 {
		state = gemini.StateProcessing
	}
	return gemini.File{
		Name:     fmt.Sprintf("files/%d", n),
		URI:      fmt.Sprintf("https://fake.invalid/files/%d", n),
		MIMEType: mimeType,
		State:    state,
	}, nil
}

func (f *Fake) GetFile(ctx context.Context, name string) (gemini.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Polls++
	state := gemini.StateActive
	if len(f.States) > 0 {
		state, f.States = f.States[0], f.States[1:]
	}
	return gemini.File{Name: name, URI: "https://fake.invalid/" + name, MIMEType: "audio/mpeg", State: state}, nil
}

func (f *Fake) DeleteFile(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, name)
	return f.DeleteErr
}

func (f *Fake) Generate(ctx context.Context, req gemini.GenerateRequest) (string, error) {
	f.mu.Lock()
	n := len(f.Generated)
	f.Generated = append(f.Generated, req)
	fn := f.GenerateFunc
	f.mu.Unlock()

	if fn == nil {
		return "", nil
	}
	return fn(n, req)
}

// QuotaError returns an error that gemini.IsQuotaExhausted accepts.
func QuotaError(msg string) error {
	return fmt.Errorf("%w: %s", gemini.ErrQuotaExhausted, msg)
}
