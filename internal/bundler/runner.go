// Package bundler drives the external bundler process that packages the
// application entry point into a standalone executable.
package bundler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// Result contains the outcome of a bundler invocation
type Result struct {
	// ExitCode is the bundler process exit code.
	// 0 indicates success, non-zero indicates failure.
	ExitCode int

	// Duration is the wall-clock time of the invocation
	Duration time.Duration

	// Diagnostics holds warnings and unresolved-import notes collected
	// from the bundler's output
	Diagnostics *Diagnostics
}

// ExitError reports a bundler failure so the caller can propagate the
// bundler's own exit code
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("bundler failed with exit code %d", e.Code)
}

// ExitStatus returns the process exit status to use for this failure.
// A signal-killed bundler reports -1, which is not a valid exit status.
func (e *ExitError) ExitStatus() int {
	if e.Code <= 0 {
		return 1
	}
	return e.Code
}

// Runner executes the bundler as a single synchronous external process.
// There are no retries and no partial-failure semantics: the invocation
// either succeeds or fails with the bundler's diagnostic output.
type Runner struct {
	// Command is the resolved bundler executable path
	Command string

	// WorkingDir is the directory the bundler runs in
	WorkingDir string

	// Echo, when non-nil, receives every bundler output line
	Echo io.Writer

	mu     sync.Mutex
	status BuildStatus
}

// NewRunner creates a Runner for the given bundler executable
func NewRunner(command, workingDir string) *Runner {
	return &Runner{Command: command, WorkingDir: workingDir, status: StatusPending}
}

// Status returns the current state of the run
func (r *Runner) Status() BuildStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Runner) setStatus(s BuildStatus) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Run invokes the bundler with the given arguments and blocks until it
// exits or the context is canceled. On cancellation the entire bundler
// process group is killed so no orphaned build helpers remain.
//
// A non-zero bundler exit is not an error here: the Result carries the
// exit code and the caller decides how to surface it.
func (r *Runner) Run(ctx context.Context, args []string) (*Result, error) {
	cmd := exec.Command(r.Command, args...)
	cmd.Dir = r.WorkingDir

	// Own process group so cancellation reaches the bundler's children
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.setStatus(StatusFailed)
		return nil, fmt.Errorf("failed to start bundler: %w", err)
	}
	r.setStatus(StatusRunning)

	diag := &Diagnostics{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)
	go r.pump(stdout, diag, &mu, &wg)
	go r.pump(stderr, diag, &mu, &wg)

	// Wait for completion or context cancellation
	done := make(chan error, 1)
	go func() {
		wg.Wait()
		done <- cmd.Wait()
	}()

	var waitErr error
	select {
	case <-ctx.Done():
		killProcessGroup(cmd)
		<-done // wait for the process to actually exit
		r.setStatus(StatusCanceled)
		return nil, fmt.Errorf("bundler invocation canceled: %w", ctx.Err())
	case waitErr = <-done:
	}

	exitCode := 0
	if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			r.setStatus(StatusFailed)
			return nil, fmt.Errorf("failed to run bundler: %w", waitErr)
		}
		exitCode = exitErr.ExitCode()
	}

	if exitCode == 0 {
		r.setStatus(StatusSucceeded)
	} else {
		r.setStatus(StatusFailed)
	}

	return &Result{
		ExitCode:    exitCode,
		Duration:    time.Since(start),
		Diagnostics: diag,
	}, nil
}

// pump feeds one output stream line-by-line into the diagnostics
// collector and the optional echo writer
func (r *Runner) pump(stream io.Reader, diag *Diagnostics, mu *sync.Mutex, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		mu.Lock()
		diag.Consume(line)
		mu.Unlock()

		if r.Echo != nil {
			fmt.Fprintln(r.Echo, line)
		}
	}

	// A scan error (a line over the buffer cap, typically) stops the
	// loop with the pipe still open; keep draining so the bundler does
	// not block on a full pipe
	if scanner.Err() != nil {
		io.Copy(io.Discard, stream)
	}
}
