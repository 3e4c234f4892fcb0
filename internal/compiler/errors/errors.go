// Package errors provides structured diagnostics for the odatagen compiler.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import "strings"

// ErrorCode represents a unique diagnostic code
type ErrorCode string

// ErrorCategory represents the category of a diagnostic
type ErrorCategory string

const (
	// CategoryIO represents input failures (IO001-099)
	CategoryIO ErrorCategory = "io"
	// CategoryParse represents metadata document parse failures (PAR001-099)
	CategoryParse ErrorCategory = "parse"
	// CategorySemantic represents schema selection errors (SEM100-199)
	CategorySemantic ErrorCategory = "semantic"
	// CategoryType represents property type problems (TYP200-299)
	CategoryType ErrorCategory = "type"
	// CategoryReference represents dangling references (REF300-399)
	CategoryReference ErrorCategory = "reference"
	// CategoryCodeGen represents code generation errors (GEN600-699)
	CategoryCodeGen ErrorCategory = "codegen"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that prevents output for the unit
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates output was produced on a best-effort basis
	SeverityWarning ErrorSeverity = "warning"
	// SeverityInfo indicates informational messages
	SeverityInfo ErrorSeverity = "info"
)

// Location points at a schema element, e.g. GWSAMPLE_BASIC.BusinessPartner/Address.
type Location struct {
	Element string `json:"element,omitempty"`
}

// At builds a Location from path segments joined with '/'.
func At(segments ...string) Location {
	return Location{Element: strings.Join(segments, "/")}
}

// CompilerError is a structured diagnostic
type CompilerError struct {
	// Code is the unique code (e.g., "TYP201", "PAR001")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary message
	Message string `json:"message"`
	// Location is the schema element the diagnostic is about
	Location Location `json:"location"`
	// File is the source file name (optional)
	File string `json:"file,omitempty"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the problem (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Examples lists related values, such as the known complex types (optional)
	Examples []string `json:"examples,omitempty"`

	cause error
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return FormatCompact(e)
}

// Unwrap returns the underlying error, if any
func (e *CompilerError) Unwrap() error {
	return e.cause
}

// Format returns a human-readable message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// WithFile sets the source file name
func (e *CompilerError) WithFile(file string) *CompilerError {
	e.File = file
	return e
}

// WithExpected sets the expected value
func (e *CompilerError) WithExpected(expected string) *CompilerError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value
func (e *CompilerError) WithActual(actual string) *CompilerError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the problem
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// WithExamples sets related values
func (e *CompilerError) WithExamples(examples ...string) *CompilerError {
	e.Examples = examples
	return e
}

// WithCause records the error that triggered the diagnostic
func (e *CompilerError) WithCause(err error) *CompilerError {
	e.cause = err
	return e
}

// ErrorList is a collection of diagnostics
type ErrorList []*CompilerError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings/info)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WithFile sets the file on every diagnostic that has none
func (el ErrorList) WithFile(file string) ErrorList {
	for _, err := range el {
		if err.File == "" {
			err.File = file
		}
	}
	return el
}

// ErrorCount returns the number of diagnostics by severity
func (el ErrorList) ErrorCount() (errors, warnings, info int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
	loc Location,
) *CompilerError {
	return &CompilerError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Message:  message,
		Location: loc,
	}
}
