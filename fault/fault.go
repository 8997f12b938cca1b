// Package fault defines the error taxonomy shared by the publishing core.
// Handlers and the orchestrator branch on the Kind of an error instead of
// inspecting raw HTTP status codes from the hosting API.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the outcomes the publishing flow
// distinguishes.
type Kind int

const (
	// Upstream is any unexpected non-success response from the hosting API.
	Upstream Kind = iota
	// Validation means required input was missing or malformed; no remote
	// call was made.
	Validation
	// NotFound means the requested file or repository does not exist. It is
	// an expected control signal during provisioning, not a failure.
	NotFound
	// Blocked means a business precondition (the blogs/.config marker) is
	// not satisfied. The message carries remediation instructions.
	Blocked
	// Conflict means a write carried a stale revision token.
	Conflict
	// Unauthorized means the credential is missing, expired, or lacks write
	// scope on the target repository.
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Blocked:
		return "blocked"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	default:
		return "upstream"
	}
}

// Error is a kinded error. Message is safe to surface to the end user; Err,
// when set, carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kinded error with a plain message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a kinded error that preserves the underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err. Errors outside the taxonomy report
// Upstream, matching the "opaque upstream failure" default.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Upstream
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// UserMessage returns the user-facing message of err, or a generic fallback
// when err is not part of the taxonomy.
func UserMessage(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return "Internal Server Error"
}
