package plankton

import (
	"fmt"

	"github.com/rs/zerolog"
)

// FatalError marks a programmer error: a version-tag mismatch, a nil
// stream source, a promise settled twice. These are bugs in the
// calling code, not runtime conditions a caller can recover from by
// inspecting an error value, so they're reported through Fatal rather
// than returned up an ordinary call chain.
type FatalError struct {
	Message string
	Cause   error
}

func (e *FatalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FatalError) Unwrap() error { return e.Cause }

// NewFatalError builds a FatalError wrapping cause, which may be nil.
func NewFatalError(message string, cause error) *FatalError {
	return &FatalError{Message: message, Cause: cause}
}

// Fatal reports a class-3 programmer error. zerolog's own Fatal level
// calls os.Exit(1), which a library must never do on a caller's behalf;
// log.Panic() gets the same "abort with a diagnostic" behavior called
// for by class-3 errors while leaving the embedding application free to
// recover if it chooses to.
func Fatal(log zerolog.Logger, err *FatalError) {
	log.Panic().Err(err).Msg("fatal: programmer error")
}
