// Package media wraps the external FFmpeg binaries behind a Runner
// interface so tools can be tested without spawning real processes.
// Commands are always built as argument vectors, never shell strings.
package media

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"videomcp/internal/logging"
	"videomcp/internal/tools"
)

// stderrTailBytes bounds how much stderr is carried in failures.
const stderrTailBytes = 2048

// Command describes one external process invocation.
type Command struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

// Output captures what the process wrote.
type Output struct {
	Stdout string
	Stderr string
}

// Runner executes external commands. The exec-backed implementation
// is swapped for a fake in tests.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecRunner runs commands with os/exec. The child is killed when the
// timeout expires; no process outlives its request.
type ExecRunner struct{}

// Run executes the command synchronously and maps the terminal state:
// exit 0 returns the captured output, nonzero exit becomes a
// process_error failure carrying the exit code and stderr tail, and
// deadline expiry becomes a timeout failure.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	proc := exec.CommandContext(ctx, cmd.Path, cmd.Args...)

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	logging.MediaDebug("exec: %s %s", cmd.Path, strings.Join(cmd.Args, " "))
	err := proc.Run()

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		logging.Media("exec timed out after %v: %s", cmd.Timeout, cmd.Path)
		return out, tools.Failf(tools.KindTimeout, "%s timed out after %v", cmd.Path, cmd.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logging.Media("exec failed: %s exit=%d", cmd.Path, exitErr.ExitCode())
		return out, tools.Failf(tools.KindProcessError, "%s exited with code %d: %s",
			cmd.Path, exitErr.ExitCode(), tail(out.Stderr))
	}

	return out, tools.Failf(tools.KindProcessError, "failed to run %s: %v", cmd.Path, err)
}

// tail returns the last stderrTailBytes of s, trimmed.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTailBytes {
		s = s[len(s)-stderrTailBytes:]
	}
	return s
}
