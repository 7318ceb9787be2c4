// Package diag implements pycpp's two internal error kinds (spec.md §7)
// and rustc-style source-snippet rendering for reporting them, grounded
// on the teacher's pkg/errors "enhanced" diagnostics. Named diag, not
// errors, so it does not shadow the standard library package of that
// name at every call site.
package diag

import (
	"fmt"
	"strings"
)

// NotSupported is spec.md's TranslationNotSupported(reason): a statement
// or expression pycpp cannot faithfully translate. It is caught at the
// nearest enclosing statement handler and never propagates above
// statement granularity.
type NotSupported struct {
	Reason    string
	Line      int
	EndLine   int
}

func (e *NotSupported) Error() string {
	return fmt.Sprintf("line %d: translation not supported: %s", e.Line, e.Reason)
}

// NewNotSupported builds a NotSupported spanning a single line.
func NewNotSupported(reason string, line int) *NotSupported {
	return &NotSupported{Reason: reason, Line: line, EndLine: line}
}

// NewNotSupportedRange builds a NotSupported spanning lines [line, endLine].
func NewNotSupportedRange(reason string, line, endLine int) *NotSupported {
	return &NotSupported{Reason: reason, Line: line, EndLine: endLine}
}

// VariableNotFound is raised internally by scope lookup (spec.md §7). It
// is always caught by the expression caller and re-raised as
// NotSupported("Variable used before declaration") before reaching
// parse_unhandled — callers outside pkg/analyzer should never observe it.
type VariableNotFound struct {
	Name string
	Line int
}

func (e *VariableNotFound) Error() string {
	return fmt.Sprintf("line %d: variable %q used before declaration", e.Line, e.Name)
}

// AsNotSupported converts a VariableNotFound into the NotSupported the
// spec requires it to surface as.
func AsNotSupported(v *VariableNotFound) *NotSupported {
	return NewNotSupported("Variable used before declaration", v.Line)
}

// Finding is a degraded-translation record collected by the analyzer so a
// driver can print a summary and tests can assert on structured data
// instead of grepping comment text (spec.md §9, "graceful degradation as
// a first-class path").
type Finding struct {
	Reason    string
	Line      int
	EndLine   int
	FuncKey   string
}

// Snippet renders the raw source lines [startLine, endLine] (1-indexed,
// clamped to the available range) with a line-number gutter, in the
// style of the teacher's EnhancedError source context.
func Snippet(raw []string, startLine, endLine int) string {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(raw) {
		endLine = len(raw)
	}
	if startLine > endLine {
		return ""
	}
	var b strings.Builder
	for i := startLine; i <= endLine; i++ {
		fmt.Fprintf(&b, "%5d | %s\n", i, raw[i-1])
	}
	return b.String()
}
