package errors

import (
	"fmt"
)

// Reference error codes (REF300-399)
const (
	// ErrDanglingPropertyRef indicates a PropertyRef naming no declared property
	ErrDanglingPropertyRef ErrorCode = "REF301"
	// ErrMissingComplexType indicates a property referencing an undeclared complex type
	ErrMissingComplexType ErrorCode = "REF302"
	// ErrUnknownEndType indicates an association end typed with an unknown entity type
	ErrUnknownEndType ErrorCode = "REF303"
)

// NewDanglingPropertyRef creates a REF301 warning
func NewDanglingPropertyRef(loc Location, name, owner string) *CompilerError {
	return newError(
		ErrDanglingPropertyRef,
		"dangling_property_ref",
		CategoryReference,
		SeverityWarning,
		fmt.Sprintf("PropertyRef '%s' does not name a property of '%s'", name, owner),
		loc,
	)
}

// NewMissingComplexType creates a REF302 warning listing the known complex types
func NewMissingComplexType(loc Location, typeName string, known []string) *CompilerError {
	return newError(
		ErrMissingComplexType,
		"missing_complex_type",
		CategoryReference,
		SeverityWarning,
		fmt.Sprintf("Complex type '%s' is not declared in the schema", typeName),
		loc,
	).WithExamples(known...).
		WithSuggestion("The property is skipped in metadata getters")
}

// NewUnknownEndType creates a REF303 warning
func NewUnknownEndType(loc Location, typeName string) *CompilerError {
	return newError(
		ErrUnknownEndType,
		"unknown_end_type",
		CategoryReference,
		SeverityWarning,
		fmt.Sprintf("Association end type '%s' is not an entity type of the schema", typeName),
		loc,
	)
}
