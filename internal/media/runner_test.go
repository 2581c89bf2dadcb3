package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"videomcp/internal/tools"
)

func failureKind(t *testing.T, err error) tools.FailureKind {
	t.Helper()
	var failure *tools.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error is not a *tools.Failure: %v", err)
	}
	return failure.Kind
}

func TestExecRunnerSuccess(t *testing.T) {
	out, err := ExecRunner{}.Run(context.Background(), Command{
		Path: "echo",
		Args: []string{"hello"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(out.Stdout) != "hello" {
		t.Errorf("stdout = %q, want hello", out.Stdout)
	}
}

func TestExecRunnerNonzeroExit(t *testing.T) {
	out, err := ExecRunner{}.Run(context.Background(), Command{
		Path: "sh",
		Args: []string{"-c", "echo oops >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}
	if kind := failureKind(t, err); kind != tools.KindProcessError {
		t.Errorf("kind = %s, want %s", kind, tools.KindProcessError)
	}
	if !strings.Contains(err.Error(), "code 3") {
		t.Errorf("error does not carry exit code: %v", err)
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("error does not carry stderr tail: %v", err)
	}
	if strings.TrimSpace(out.Stderr) != "oops" {
		t.Errorf("stderr = %q, want oops", out.Stderr)
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{
		Path:    "sleep",
		Args:    []string{"5"},
		Timeout: 100 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if kind := failureKind(t, err); kind != tools.KindTimeout {
		t.Errorf("kind = %s, want %s", kind, tools.KindTimeout)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{
		Path: "definitely-not-a-real-binary-9c41",
	})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if kind := failureKind(t, err); kind != tools.KindProcessError {
		t.Errorf("kind = %s, want %s", kind, tools.KindProcessError)
	}
}

func TestTail(t *testing.T) {
	if got := tail("  short  "); got != "short" {
		t.Errorf("tail = %q, want short", got)
	}

	long := strings.Repeat("x", stderrTailBytes+100) + "END"
	got := tail(long)
	if len(got) != stderrTailBytes {
		t.Errorf("tail length = %d, want %d", len(got), stderrTailBytes)
	}
	if !strings.HasSuffix(got, "END") {
		t.Error("tail did not keep the end of the output")
	}
}
