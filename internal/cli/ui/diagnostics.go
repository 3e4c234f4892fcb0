package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sapodata/odatagen/internal/compiler/errors"
)

// WriteDiagnostics prints one block per diagnostic:
//
//	warning REF302 gen/gwsample.xml: GWSAMPLE_BASIC.Contact/Address
//	  Complex type 'GWSAMPLE_BASIC.CT_Addr' is not declared in the schema
//	  hint: The property is skipped in metadata getters
//	  known: CT_Address
func WriteDiagnostics(w io.Writer, diags errors.ErrorList, noColor bool) {
	for _, d := range diags {
		writeDiagnostic(w, d, noColor)
	}
}

func writeDiagnostic(w io.Writer, d *errors.CompilerError, noColor bool) {
	sev := severityColor(d.Severity, noColor)
	dim := NewColor(noColor, color.FgHiBlack)

	where := d.File
	if d.Location.Element != "" {
		if where != "" {
			where += ": "
		}
		where += d.Location.Element
	}
	fmt.Fprintf(w, "%s %s", sev.Sprint(string(d.Severity)), sev.Sprint(string(d.Code)))
	if where != "" {
		fmt.Fprintf(w, " %s", where)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(w, "  %s %s\n", dim.Sprint("hint:"), d.Suggestion)
	}
	if len(d.Examples) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dim.Sprint("known:"), strings.Join(d.Examples, ", "))
	}
}

// Summary returns e.g. "1 error, 2 warnings".
func Summary(diags errors.ErrorList) string {
	errs, warns, _ := diags.ErrorCount()
	return plural(errs, "error") + ", " + plural(warns, "warning")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// WriteError prints err. Compiler diagnostics keep their structure; anything
// else is printed as a single line.
func WriteError(w io.Writer, err error, noColor bool) {
	var cerr *errors.CompilerError
	if stderrors.As(err, &cerr) {
		writeDiagnostic(w, cerr, noColor)
		return
	}
	NewColor(noColor, color.FgRed, color.Bold).Fprintf(w, "Error: %v\n", err)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	NewColor(noColor, color.FgGreen, color.Bold).Fprintf(w, "✓ %s\n", message)
}

// NotFound builds the error for an unknown name, suggesting close candidates.
func NotFound(kind, name string, candidates []string) error {
	if similar := FindSimilar(name, candidates); len(similar) > 0 {
		return fmt.Errorf("unknown %s %q (did you mean: %s?)", kind, name, strings.Join(similar, ", "))
	}
	if len(candidates) > 0 {
		return fmt.Errorf("unknown %s %q (available: %s)", kind, name, strings.Join(candidates, ", "))
	}
	return fmt.Errorf("unknown %s %q", kind, name)
}

func severityColor(s errors.ErrorSeverity, noColor bool) *color.Color {
	switch s {
	case errors.SeverityError:
		return NewColor(noColor, color.FgRed, color.Bold)
	case errors.SeverityWarning:
		return NewColor(noColor, color.FgYellow, color.Bold)
	default:
		return NewColor(noColor, color.FgCyan)
	}
}
