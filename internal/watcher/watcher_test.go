package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/launcher"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
)

type recordingLauncher struct {
	mu       sync.Mutex
	requests []launcher.Request
	err      error
	got      chan launcher.Request
}

func (l *recordingLauncher) Submit(ctx context.Context, req launcher.Request) (*launcher.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.requests = append(l.requests, req)
	if l.got != nil {
		l.got <- req
	}
	return &launcher.Handle{ID: "lesson_1"}, nil
}

func (l *recordingLauncher) Wait(ctx context.Context) error { return nil }

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/inbox/lezione.mp3", true},
		{"/inbox/LEZIONE.M4A", true},
		{"/inbox/voice.ogg", true},
		{"/inbox/notes.txt", false},
		{"/inbox/.lezione.mp3", false},
		{"/inbox/noext", false},
	}
	for _, tt := range tests {
		if got := isAudioFile(tt.path); got != tt.want {
			t.Errorf("isAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSubmitHandler(t *testing.T) {
	inbox, temp := t.TempDir(), t.TempDir()
	src := filepath.Join(inbox, "lezione.m4a")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	l := &recordingLauncher{}
	handler := SubmitHandler(l, IntakeOptions{
		TempDir: temp, APIKey: "inbox-key", Subject: "Anatomia",
		TranscriptionModel: "flash", SummaryModel: "pro",
	}, logger.Nop())

	if err := handler(context.Background(), src); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("inbox file must be moved out of the inbox")
	}
	req := l.requests[0]
	if req.APIKey != "inbox-key" || req.Subject != "Anatomia" || req.TranscriptionModel != "flash" || req.SummaryModel != "pro" {
		t.Errorf("request = %+v", req)
	}
	if filepath.Dir(req.RawPath) != temp || filepath.Ext(req.RawPath) != ".m4a" {
		t.Errorf("raw path = %s", req.RawPath)
	}
	if b, _ := os.ReadFile(req.RawPath); string(b) != "audio" {
		t.Errorf("raw content = %q", b)
	}
}

func TestSubmitHandlerFailureCleansUp(t *testing.T) {
	inbox, temp := t.TempDir(), t.TempDir()
	src := filepath.Join(inbox, "a.mp3")
	os.WriteFile(src, []byte("audio"), 0644)

	l := &recordingLauncher{err: errors.New("store down")}
	if err := SubmitHandler(l, IntakeOptions{TempDir: temp}, logger.Nop())(context.Background(), src); err == nil {
		t.Fatal("handler error = nil")
	}
	entries, _ := os.ReadDir(temp)
	if len(entries) != 0 {
		t.Errorf("temp dir keeps %d files", len(entries))
	}
}

func TestWatcherSubmitsNewFiles(t *testing.T) {
	inbox, temp := t.TempDir(), t.TempDir()
	l := &recordingLauncher{got: make(chan launcher.Request, 4)}

	w, err := New(inbox, SubmitHandler(l, IntakeOptions{TempDir: temp, APIKey: "k"}, logger.Nop()), logger.Nop(), 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	os.WriteFile(filepath.Join(inbox, "skip.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(inbox, "lezione.mp3"), []byte("audio"), 0644)

	select {
	case req := <-l.got:
		if filepath.Ext(req.RawPath) != ".mp3" {
			t.Errorf("raw path = %s", req.RawPath)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("inbox file was not submitted")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
	if len(l.requests) != 1 {
		t.Errorf("submitted = %d, want 1", len(l.requests))
	}
}

func TestWatcherSubmitsFilesPresentAtStartup(t *testing.T) {
	inbox, temp := t.TempDir(), t.TempDir()
	for _, name := range []string{"lunedi.mp3", "martedi.wav", "appunti.txt", ".nascosto.mp3"} {
		if err := os.WriteFile(filepath.Join(inbox, name), []byte("audio"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(inbox, "cartella.mp3"), 0755); err != nil {
		t.Fatal(err)
	}

	l := &recordingLauncher{got: make(chan launcher.Request, 8)}
	w, err := New(inbox, SubmitHandler(l, IntakeOptions{TempDir: temp, APIKey: "k"}, logger.Nop()), logger.Nop(), 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	exts := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case req := <-l.got:
			exts[filepath.Ext(req.RawPath)] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of 2 existing recordings were submitted", i)
		}
	}
	if !exts[".mp3"] || !exts[".wav"] {
		t.Errorf("submitted extensions = %v, want .mp3 and .wav", exts)
	}

	cancel()
	<-done
	if len(l.requests) != 2 {
		t.Errorf("submitted = %d, want 2", len(l.requests))
	}
	if _, err := os.Stat(filepath.Join(inbox, "appunti.txt")); err != nil {
		t.Error("non-audio files must stay in the inbox")
	}
}

func TestWatcherLeavesFileWhenStoppedBeforeSettle(t *testing.T) {
	inbox, temp := t.TempDir(), t.TempDir()
	src := filepath.Join(inbox, "lezione.mp3")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	l := &recordingLauncher{}
	w, err := New(inbox, SubmitHandler(l, IntakeOptions{TempDir: temp, APIKey: "k"}, logger.Nop()), logger.Nop(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if len(l.requests) != 0 {
		t.Errorf("submitted = %d, want 0", len(l.requests))
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("an unsettled file must stay in the inbox for the next start")
	}
}
