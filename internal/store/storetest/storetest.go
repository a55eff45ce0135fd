// Package storetest checks that a store.Store honours the repository
// contract.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
)

const (
	ownerA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	ownerB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// Run exercises s. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"get missing", testGetMissing},
		{"create then get", testCreateGet},
		{"create existing", testCreateExisting},
		{"put overwrites", testPutOverwrites},
		{"put creates", testPutCreates},
		{"list ordered", testListOrdered},
		{"list isolates owners", testListIsolation},
		{"list unknown owner", testListUnknownOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s)
		})
	}
}

func completed() job.Record {
	return job.Completed(job.Result{
		Transcript:     "Buongiorno a tutti.",
		Summary:        "## Titolo\n* punto",
		SuggestedTopic: "Introduzione",
	})
}

func testGetMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	if _, err := s.Get(ctx, ownerA, "lesson_1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	ok, err := s.Exists(ctx, ownerA, "lesson_1")
	if err != nil || ok {
		t.Fatalf("Exists() = %v, %v, want false, nil", ok, err)
	}
}

func testCreateGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, ownerA, "lesson_1", job.Processing()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := s.Get(ctx, ownerA, "lesson_1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, job.Processing()) {
		t.Errorf("Get() = %+v, want processing", got)
	}
	if ok, _ := s.Exists(ctx, ownerA, "lesson_1"); !ok {
		t.Error("Exists() = false after Create")
	}
}

func testCreateExisting(t *testing.T, s store.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, ownerA, "lesson_1", job.Processing()); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, ownerA, "lesson_1", job.Failed("x")); !errors.Is(err, store.ErrExists) {
		t.Fatalf("second Create() error = %v, want ErrExists", err)
	}
	got, _ := s.Get(ctx, ownerA, "lesson_1")
	if got.Status != job.StatusProcessing {
		t.Errorf("rejected Create overwrote the record: %+v", got)
	}
}

func testPutOverwrites(t *testing.T, s store.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, ownerA, "lesson_1", job.Processing()); err != nil {
		t.Fatal(err)
	}
	want := completed()
	for i := 0; i < 2; i++ {
		if err := s.Put(ctx, ownerA, "lesson_1", want); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	got, err := s.Get(ctx, ownerA, "lesson_1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func testPutCreates(t *testing.T, s store.Store) {
	ctx := context.Background()
	if err := s.Put(ctx, ownerA, "lesson_9", job.Failed("boom")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, ownerA, "lesson_9")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.StatusError || got.Message != "boom" || got.Result != nil {
		t.Errorf("Get() = %+v", got)
	}
}

func testListOrdered(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, id := range []string{"lesson_1700000000300", "lesson_1700000000100", "lesson_1700000000200"} {
		if err := s.Create(ctx, ownerA, id, job.Processing()); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Put(ctx, ownerA, "lesson_1700000000200", completed()); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(ctx, ownerA)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	want := []string{"lesson_1700000000100", "lesson_1700000000200", "lesson_1700000000300"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("List() ids = %v, want %v", ids, want)
	}
	if !reflect.DeepEqual(entries[1].Record, completed()) {
		t.Errorf("entry record = %+v", entries[1].Record)
	}
}

func testListIsolation(t *testing.T, s store.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, ownerA, "lesson_1", job.Processing()); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, ownerB, "lesson_2", job.Processing()); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(ctx, ownerB)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "lesson_2" {
		t.Errorf("List(ownerB) = %+v", entries)
	}
	if _, err := s.Get(ctx, ownerB, "lesson_1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("owner B can read owner A's job: %v", err)
	}
}

func testListUnknownOwner(t *testing.T, s store.Store) {
	entries, err := s.List(context.Background(), ownerB)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %+v, want empty", entries)
	}
}
