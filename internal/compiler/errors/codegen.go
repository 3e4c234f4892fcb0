package errors

import (
	"fmt"
)

// Code generation error codes (GEN600-699)
const (
	// ErrFormatFailed indicates generated text that go/format rejected
	ErrFormatFailed ErrorCode = "GEN601"
)

// NewFormatFailed creates a GEN601 error. The unformatted text is kept at
// failedPath.
func NewFormatFailed(failedPath string, err error) *CompilerError {
	return newError(
		ErrFormatFailed,
		"format_failed",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Generated source does not parse: %v", err),
		Location{},
	).WithFile(failedPath).WithCause(err).
		WithSuggestion("This is likely a generator bug - the unformatted output was kept for inspection")
}
