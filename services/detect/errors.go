package detect

import "fmt"

// Kind classifies a pipeline failure for the HTTP boundary.
type Kind int

const (
	// KindBadRequest marks caller mistakes: missing or empty file part.
	KindBadRequest Kind = iota + 1
	// KindNotFound marks a resolved label with no catalog row. That is a
	// data-integrity mismatch, not a caller error, but it is reported as 404.
	KindNotFound
	// KindInternal covers decode, inference, archive, and persistence failures.
	KindInternal
)

// Error is the single error shape crossing the orchestrator boundary.
// Message is safe for the wire; Cause carries the underlying detail and is
// only ever logged, never sent to the caller.
type Error struct {
	Kind    Kind
	Stage   Stage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (stage %s): %v", e.Message, e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s (stage %s)", e.Message, e.Stage)
}

func (e *Error) Unwrap() error { return e.Cause }

func badRequest(stage Stage, message string) *Error {
	return &Error{Kind: KindBadRequest, Stage: stage, Message: message}
}

func notFound(stage Stage, message string) *Error {
	return &Error{Kind: KindNotFound, Stage: stage, Message: message}
}

func internal(stage Stage, message string, cause error) *Error {
	return &Error{Kind: KindInternal, Stage: stage, Message: message, Cause: cause}
}
