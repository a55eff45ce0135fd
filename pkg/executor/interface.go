package executor

import "context"

// Output captures what an external command wrote and how it exited.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor defines the interface for executing external commands
type Executor interface {
	// Run executes name with args. A non-zero exit is reported as an error
	// together with the captured output.
	Run(ctx context.Context, name string, args ...string) (Output, error)
}
