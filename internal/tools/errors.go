package tools

import (
	"errors"
	"fmt"
)

// FailureKind classifies a tool failure for the protocol boundary.
// Every error that crosses the dispatcher is reduced to one of these.
type FailureKind string

const (
	KindInvalidArgument FailureKind = "invalid_argument"
	KindNotFound        FailureKind = "not_found"
	KindProcessError    FailureKind = "process_error"
	KindTimeout         FailureKind = "timeout"
	KindAuthError       FailureKind = "auth_error"
	KindRateLimited     FailureKind = "rate_limited"
	KindUpstreamError   FailureKind = "upstream_error"
	KindUnknownTool     FailureKind = "unknown_tool"
)

// Failure is a typed tool failure. Handlers return these (usually via
// Failf) so the dispatcher can render a uniform error envelope.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Failf creates a Failure with a formatted message.
func Failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Classify reduces an arbitrary handler error to a Failure.
// Typed failures pass through unchanged; everything else is treated
// as a process error, the dominant failure mode for this server.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: KindProcessError, Message: err.Error()}
}

// Registry errors.
var (
	// ErrToolNotFound is returned when a tool is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolNameEmpty is returned when a tool has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolExecuteNil is returned when a tool has no execute function.
	ErrToolExecuteNil = errors.New("tool execute function cannot be nil")

	// ErrToolAlreadyRegistered is returned when registering a duplicate.
	ErrToolAlreadyRegistered = errors.New("tool already registered")
)
