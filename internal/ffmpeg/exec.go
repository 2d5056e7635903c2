package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Output holds the captured streams of one FFmpeg/FFprobe invocation.
type Output struct {
	Stdout string
	Stderr string
}

// ---------------------------------------------------------------------------
// Executor - testable FFmpeg execution with dependency injection
// ---------------------------------------------------------------------------

// runFn is the function type for running a command and capturing both streams.
type runFn func(ctx context.Context, path string, args []string) (Output, error)

// Executor runs FFmpeg and FFprobe commands with injectable dependencies.
// Each call is bounded by the configured timeout; zero disables it.
type Executor struct {
	run     runFn
	timeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunFunc sets a custom run function (for testing).
func WithRunFunc(fn runFn) ExecutorOption {
	return func(e *Executor) { e.run = fn }
}

// WithTimeout bounds every call made through the Executor.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		run: defaultRun,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the binary at path with args and captures stdout and stderr.
// On failure the returned error carries the command line and both streams,
// and the captured Output is still returned for callers that parse it anyway.
func (e *Executor) Run(ctx context.Context, path string, args []string) (Output, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.run(ctx, path, args)
	if err == nil {
		return out, nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%w after %v: %v", ErrTimeout, e.timeout, err)
	case errors.Is(ctx.Err(), context.Canceled):
		err = fmt.Errorf("%w: %v", context.Canceled, err)
	}
	return out, fmt.Errorf("%s: %w\nstdout: %s\nstderr: %s",
		CommandLine(path, args), err, strings.TrimSpace(out.Stdout), strings.TrimSpace(out.Stderr))
}

// defaultRun is the production implementation.
func defaultRun(ctx context.Context, path string, args []string) (Output, error) {
	// #nosec G204 -- path is resolved internally, args are built by this module
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return Output{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

// CommandLine renders path and args as a shell-quoted command line for logs.
func CommandLine(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(path))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes s when it contains characters a POSIX shell would interpret.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`|&;<>()*?[]{}~#!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
