// Package runner executes a target script as a child process with a
// wall-clock timeout and captures its output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// ExitCodeTimeout is reported when the child is killed for exceeding
// the timeout, distinguishing it from the child's own exit codes.
const ExitCodeTimeout = 124

// Runner executes a script under an interpreter with a bounded wall-clock time.
type Runner struct {
	Interpreter string        // path to the interpreter binary
	Timeout     time.Duration // maximum run time for the child
	MaxOutput   int           // bytes per stream; 0 means uncapped
}

// Run executes the script with the given pass-through arguments and waits
// for it to finish or time out. A non-zero child exit code is a normal
// outcome, not an error: errors are returned only when the process could
// not be started at all.
//
// On timeout the partial stdout captured so far is kept, stderr is replaced
// with a fixed message naming the timeout, and the exit code is 124.
func (r *Runner) Run(ctx context.Context, script string, args []string) (*Result, error) {
	if r.Interpreter == "" {
		return nil, fmt.Errorf("empty interpreter path")
	}
	if script == "" {
		return nil, fmt.Errorf("empty script path")
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	runID := uuid.New().String()

	argv := append([]string{script}, args...)
	cmd := exec.CommandContext(ctx, r.Interpreter, argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: r.MaxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: r.MaxOutput}

	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return &Result{
			RunID:    runID,
			Script:   script,
			Stdout:   stdout.String(),
			Stderr:   fmt.Sprintf("process timed out after %s", r.Timeout),
			ExitCode: ExitCodeTimeout,
			TimedOut: true,
		}, nil
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// Interpreter not found or other exec error.
			return nil, fmt.Errorf("executing %s: %w", r.Interpreter, runErr)
		}
	}

	return &Result{
		RunID:    runID,
		Script:   script,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

// limitWriter writes up to limit bytes to buf, then silently discards the
// rest. A non-positive limit disables the cap.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.limit <= 0 {
		return w.buf.Write(p)
	}
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
