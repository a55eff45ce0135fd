package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Run runs an external command with the given arguments
func (e *implExecutor) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return out, nil
	}

	out.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
	}

	// Include stderr in error message for debugging
	if stderrStr := strings.TrimSpace(out.Stderr); stderrStr != "" {
		return out, fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, tail(stderrStr, 2048))
	}
	return out, fmt.Errorf("command '%s' failed: %w", name, err)
}

// tail keeps the last n bytes of s; ffmpeg puts the useful part of its
// diagnostics at the end.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
