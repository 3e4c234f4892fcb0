package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a human-readable message for terminal output
func FormatError(e *CompilerError) string {
	var b strings.Builder

	// Severity icon
	icon := severityIcon(e.Severity)

	// Header
	file := e.File
	if file == "" {
		file = "<metadata>"
	}

	categoryName := categoryDisplayName(e.Category)

	fmt.Fprintf(&b, "%s %s [%s] in %s\n", icon, categoryName, e.Code, file)

	// Location
	if e.Location.Element != "" {
		fmt.Fprintf(&b, "At %s:\n", e.Location.Element)
	}
	fmt.Fprintf(&b, "  %s\n", e.Message)

	// Expected vs Actual (if provided)
	if e.Expected != "" || e.Actual != "" {
		b.WriteString("\n")
		if e.Expected != "" {
			fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(&b, "  Actual:   %s\n", e.Actual)
		}
	}

	// Suggestion (if provided)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	// Examples (if provided)
	if len(e.Examples) > 0 {
		b.WriteString("\nKnown:\n")
		for _, example := range e.Examples {
			fmt.Fprintf(&b, "  - %s\n", example)
		}
	}

	return b.String()
}

// FormatErrorList returns a formatted string of all diagnostics
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder

	// Summary header
	errCount, warnCount, infoCount := errors.ErrorCount()
	verb := "finished"
	if errCount > 0 {
		verb = "failed"
	}
	fmt.Fprintf(&b, "Compilation %s with %d error(s), %d warning(s), %d info\n\n",
		verb, errCount, warnCount, infoCount)

	// Format each diagnostic
	for i, err := range errors {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		b.WriteString(err.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line format
func FormatCompact(e *CompilerError) string {
	file := e.File
	if file == "" {
		file = "<metadata>"
	}
	if e.Location.Element != "" {
		file += ": " + e.Location.Element
	}
	return fmt.Sprintf("%s: %s: %s [%s]", file, e.Severity, e.Message, e.Code)
}

// severityIcon returns the emoji/icon for a severity level
func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	case SeverityInfo:
		return "ℹ️ "
	default:
		return "❓"
	}
}

// categoryDisplayName returns a human-readable category name
func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryIO:
		return "I/O Error"
	case CategoryParse:
		return "Parse Error"
	case CategorySemantic:
		return "Semantic Error"
	case CategoryType:
		return "Type Warning"
	case CategoryReference:
		return "Reference Warning"
	case CategoryCodeGen:
		return "Code Generation Error"
	default:
		return "Compiler Error"
	}
}
