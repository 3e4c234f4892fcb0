package errors

import (
	"fmt"
)

// Semantic error codes (SEM100-199)
const (
	// ErrNamespaceNotFound indicates no schema carries the requested namespace
	ErrNamespaceNotFound ErrorCode = "SEM101"
)

// NewNamespaceNotFound creates a SEM101 error
func NewNamespaceNotFound(namespace string, available []string) *CompilerError {
	return newError(
		ErrNamespaceNotFound,
		"namespace_not_found",
		CategorySemantic,
		SeverityError,
		fmt.Sprintf("Schema namespace '%s' not found", namespace),
		Location{},
	).WithExpected(namespace).
		WithExamples(available...).
		WithSuggestion("Pass one of the namespaces declared in the document")
}
