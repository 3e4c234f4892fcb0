package errors

import (
	"fmt"
)

// Type error codes (TYP200-299)
const (
	// ErrUnqualifiedType indicates a property type that is not Namespace.Name
	ErrUnqualifiedType ErrorCode = "TYP201"
)

// NewUnqualifiedType creates a TYP201 warning. The property is still emitted
// with its declared type as the Go type.
func NewUnqualifiedType(loc Location, declared string) *CompilerError {
	return newError(
		ErrUnqualifiedType,
		"unqualified_type",
		CategoryType,
		SeverityWarning,
		fmt.Sprintf("Property type '%s' is not namespace qualified", declared),
		loc,
	).WithExpected("Namespace.TypeName").
		WithActual(declared).
		WithSuggestion("The declared type is emitted verbatim and may not compile")
}
