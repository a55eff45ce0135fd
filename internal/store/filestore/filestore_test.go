package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store/storetest"
)

func newTestStore(t *testing.T) store.Store {
	s, err := New(filepath.Join(t.TempDir(), "jobs"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFileStore(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Create(context.Background(), "owner", "lesson_1", job.Processing()); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "owner", "lesson_1.json"))
	if err != nil {
		t.Fatalf("job file missing: %v", err)
	}
	if string(b) != `{"status":"processing"}` {
		t.Errorf("job file = %s", b)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "owner"))
	if len(entries) != 1 {
		t.Errorf("owner dir has %d entries, want 1 (temp files must be cleaned up)", len(entries))
	}
}

func TestRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"../escape", "a/b", "..", ".hidden", ""} {
		if err := s.Put(ctx, "owner", id, job.Processing()); err == nil {
			t.Errorf("Put(%q) error = nil", id)
		}
		if _, err := s.Get(ctx, "owner", id); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)
	ctx := context.Background()

	if err := s.Create(ctx, "owner", "lesson_1", job.Failed("x")); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "owner", "notes.txt"), []byte("hi"), 0644)
	os.WriteFile(filepath.Join(dir, "owner", ".lesson_2.json.123"), []byte("{"), 0644)

	entries, err := s.List(ctx, "owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "lesson_1" {
		t.Errorf("List() = %+v", entries)
	}
}
