// Package ripgrep runs the rg binary and decodes its --json event stream.
package ripgrep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds every rg invocation unless the runner overrides it.
const DefaultTimeout = 60 * time.Second

var (
	// ErrNotFound is returned when the rg binary cannot be located.
	ErrNotFound = errors.New("ripgrep binary not found")
	// ErrTimeout is returned when rg does not exit within the timeout.
	ErrTimeout = errors.New("ripgrep timed out")
)

// Runner executes rg and captures its output.
type Runner struct {
	Binary  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRunner returns a Runner for binary, falling back to "rg" and
// DefaultTimeout for zero values.
func NewRunner(binary string, timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{Binary: binary, Timeout: timeout, Logger: logger}
}

func (r *Runner) binary() string {
	if strings.TrimSpace(r.Binary) == "" {
		return "rg"
	}
	return r.Binary
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Available reports whether the rg binary can be found.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.binary())
	return err == nil
}

// Run executes rg with args and returns its standard output once the process
// has exited. Exit status 1 means "no matches" and is not an error. Exit status
// 2 is tolerated when rg still produced output, since it reports unreadable
// files that way.
func (r *Runner) Run(ctx context.Context, args ...string) ([]byte, error) {
	path, err := exec.LookPath(r.binary())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	timeout := r.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			return nil, ctxErr
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ripgrep: %w", err)
		}

		switch {
		case exitErr.ExitCode() == 1:
			return stdout.Bytes(), nil
		case exitErr.ExitCode() == 2 && stdout.Len() > 0:
			r.logger().Warn(
				"ripgrep reported errors",
				"stderr", strings.TrimSpace(stderr.String()),
			)
			return stdout.Bytes(), nil
		default:
			return nil, fmt.Errorf(
				"ripgrep exited with status %d: %s",
				exitErr.ExitCode(),
				strings.TrimSpace(stderr.String()),
			)
		}
	}

	return stdout.Bytes(), nil
}
