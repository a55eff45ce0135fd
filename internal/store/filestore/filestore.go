// Package filestore keeps one JSON file per job under <dir>/<owner>/<id>.json.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
)

const ext = ".json"

type fileStore struct {
	dir string
}

// New returns a Store rooted at dir, creating it if needed.
func New(dir string) (store.Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

// Create writes to a temp file and hard-links it into place, so a
// concurrent reader never sees a partial record and an existing one is
// never replaced.
func (s *fileStore) Create(ctx context.Context, owner, id string, rec job.Record) error {
	path, err := s.path(owner, id)
	if err != nil {
		return err
	}
	tmp, err := s.writeTemp(path, rec)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return store.ErrExists
		}
		return fmt.Errorf("link job file: %w", err)
	}
	return nil
}

// Put replaces the record atomically with a rename.
func (s *fileStore) Put(ctx context.Context, owner, id string, rec job.Record) error {
	path, err := s.path(owner, id)
	if err != nil {
		return err
	}
	tmp, err := s.writeTemp(path, rec)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace job file: %w", err)
	}
	return nil
}

func (s *fileStore) Get(ctx context.Context, owner, id string) (job.Record, error) {
	path, err := s.path(owner, id)
	if err != nil {
		return job.Record{}, store.ErrNotFound
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return job.Record{}, store.ErrNotFound
		}
		return job.Record{}, fmt.Errorf("read job file: %w", err)
	}

	var rec job.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return job.Record{}, fmt.Errorf("decode job file %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

func (s *fileStore) Exists(ctx context.Context, owner, id string) (bool, error) {
	path, err := s.path(owner, id)
	if err != nil {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat job file: %w", err)
	}
	return true, nil
}

func (s *fileStore) List(ctx context.Context, owner string) ([]job.Entry, error) {
	if !validName(owner) {
		return []job.Entry{}, nil
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, owner))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []job.Entry{}, nil
		}
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	sort.Strings(ids)

	out := make([]job.Entry, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, owner, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, job.Entry{ID: id, Record: rec})
	}
	return out, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) path(owner, id string) (string, error) {
	if !validName(owner) || !validName(id) {
		return "", fmt.Errorf("invalid job key %q/%q", owner, id)
	}
	return filepath.Join(s.dir, owner, id+ext), nil
}

// writeTemp writes rec next to path and returns the temp file name. Temp
// files start with a dot so List skips them.
func (s *fileStore) writeTemp(path string, rec job.Record) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode job: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create owner dir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp job file: %w", err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp job file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp job file: %w", err)
	}
	return f.Name(), nil
}

func validName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`) && !strings.HasPrefix(s, ".")
}
