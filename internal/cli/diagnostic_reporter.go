package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/simpl/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     out,
	}
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError prints err with its kind, location, context and suggestions
// when it carries them.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var simplErr errors.SimplError
	if !stderrors.As(err, &simplErr) {
		fmt.Fprintf(r.out, "error: %s\n", err.Error())
		return
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(r.out, "error[%s]", simplErr.ErrorCode())
	fmt.Fprintf(r.out, ": %s\n", err.Error())

	if loc := simplErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "  --> %s\n", loc.String())
	}

	if r.verbose {
		r.printContext(simplErr.Context())
		r.printCauses(simplErr.Unwrap())
	}

	r.printSuggestions(simplErr.Suggestions())
}

// printContext prints context information in key order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	if len(context) == 0 {
		return
	}
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "  context:\n")
	for _, key := range keys {
		value := context[key]
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ", ")
		}
		fmt.Fprintf(r.out, "    %s: %v\n", key, value)
	}
}

// printCauses prints the wrapped error chain
func (r *DiagnosticReporter) printCauses(err error) {
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "  cause %d: %s\n", level, err.Error())
		err = stderrors.Unwrap(err)
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	for _, suggestion := range suggestions {
		fmt.Fprintf(r.out, "  help: %s\n", suggestion)
	}
}
