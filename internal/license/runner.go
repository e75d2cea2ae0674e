package license

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCheckerCommand is the checker invoked when no override template is
// configured; the feature name is passed via -f.
const DefaultCheckerCommand = "ckout_test"

// FeaturePlaceholder is substituted with the feature name in an override
// command template. Templates without it get the feature appended as the
// final argument.
const FeaturePlaceholder = "{feature}"

// DefaultTimeout bounds a single checker invocation.
const DefaultTimeout = 30 * time.Second

// Runner invokes the external license checker for one feature at a time.
// The command template is injected at construction rather than read from the
// environment, so tests can pin it without mutating process state.
type Runner struct {
	command string
	timeout time.Duration
}

// RunnerConfig holds configuration for a Runner.
type RunnerConfig struct {
	// Command is an optional override template, e.g.
	// "lmutil lmstat -f {feature} -c 27000@server" or
	// "/path/to/wrapper.sh" (feature appended). Empty selects the default
	// "ckout_test -f <feature>".
	Command string

	// Timeout is the wall-clock limit per invocation (default: 30s).
	Timeout time.Duration
}

// NewRunner creates a new checker runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Runner{
		command: cfg.Command,
		timeout: cfg.Timeout,
	}
}

// Timeout returns the per-invocation wall-clock limit.
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Argv returns the argument vector that would be executed for feature.
func (r *Runner) Argv(feature string) []string {
	if r.command == "" {
		return []string{DefaultCheckerCommand, "-f", feature}
	}
	if strings.Contains(r.command, FeaturePlaceholder) {
		return strings.Fields(strings.ReplaceAll(r.command, FeaturePlaceholder, feature))
	}
	return append(strings.Fields(r.command), feature)
}

// Run executes the checker for feature and returns its exit code, stdout,
// and stderr. It never returns an error: a timeout or spawn failure is
// reported as exit code 1 with empty stdout and a descriptive stderr, so
// downstream consumers see just another unparseable record.
func (r *Runner) Run(ctx context.Context, feature string) (exitCode int, stdout, stderr string) {
	argv := r.Argv(feature)
	if len(argv) == 0 {
		return 1, "", "invalid command: empty template"
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if ctxErr := runCtx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return 1, "", fmt.Sprintf("timeout: %s did not finish within %s", argv[0], r.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The checker ran but exited nonzero; its output may still
			// be parseable.
			return exitErr.ExitCode(), outBuf.String(), errBuf.String()
		}
		return 1, "", fmt.Sprintf("%T: %v", err, err)
	}
	return 0, outBuf.String(), errBuf.String()
}
