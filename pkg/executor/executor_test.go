package executor

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx := context.Background()
	e := New()

	out, err := e.Run(ctx, "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out.Stdout) != "hello" {
		t.Errorf("Stdout = %q, want %q", out.Stdout, "hello")
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := New().Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatal("Run() should return error for non-zero exit")
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should include stderr", err)
	}
}

func TestTail(t *testing.T) {
	if got := tail("abc", 5); got != "abc" {
		t.Errorf("tail() = %q, want %q", got, "abc")
	}
	if got := tail("abcdef", 3); got != "...def" {
		t.Errorf("tail() = %q, want %q", got, "...def")
	}
}
