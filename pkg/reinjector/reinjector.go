// Package reinjector implements spec.md §4.3's Comment Reinjector: the
// pass that walks the raw source a second time after analysis and
// reattaches every comment the analyzer's tree-walk necessarily dropped
// (comments carry no AST node of their own), so the emitted C++ keeps
// them attached to the same logical line they annotated in the source.
package reinjector

import (
	"strings"

	"github.com/pycppx/pycpp/pkg/ir"
)

// owned pairs a CodeLine with the Function that holds it, so a trailing
// comment found via the combined line-map can be written back in place.
type owned struct {
	fn *ir.Function
	cl *ir.CodeLine
}

// Reinject scans raw (1-indexed by line number) against tu's combined
// CodeLine map and attaches comments per spec.md §4.3: inline for a
// translated line, standalone for an untranslated line inside a
// function's range, and standalone under the entry point otherwise.
func Reinject(tu *ir.TranslationUnit, raw []string) {
	combined := make(map[int]owned)
	for _, fk := range tu.Functions.Keys() {
		fn, _ := tu.Functions.Get(fk)
		for k, cl := range fn.Lines {
			combined[k] = owned{fn: fn, cl: cl}
		}
	}

	entry := tu.EntryPoint()

	for i := 1; i <= len(raw); i++ {
		line := raw[i-1]

		if o, ok := combined[i]; ok {
			attachTrailingComment(o.cl, line)
			continue
		}

		trimmed := strings.TrimLeft(line, " \t")
		isComment := strings.HasPrefix(trimmed, "#")
		if !isComment {
			continue
		}

		comment := "//" + strings.TrimPrefix(trimmed, "#")
		if fn := findEnclosingFunction(tu, i); fn != nil {
			fn.Lines[i] = &ir.CodeLine{StartLine: i, EndLine: i, Indent: standaloneIndent(fn, i), Code: comment}
			continue
		}
		entry.Lines[i] = &ir.CodeLine{StartLine: i, EndLine: i, Indent: 1, Code: comment}
	}
}

// attachTrailingComment splits the raw line's text after cl's recorded
// end column and, if it's a comment, stores its tail as cl's inline
// comment (spec.md §4.3, first bullet).
func attachTrailingComment(cl *ir.CodeLine, line string) {
	if cl.EndCol < 0 || cl.EndCol > len(line) {
		return
	}
	rest := strings.TrimLeft(line[cl.EndCol:], " \t")
	if !strings.HasPrefix(rest, "#") {
		return
	}
	cl.Comment = strings.TrimSpace(strings.TrimPrefix(rest, "#"))
	cl.HasComment = true
}

// findEnclosingFunction returns the unique non-entry-point Function whose
// StartLine < line < EndLine, or nil if none contains it.
func findEnclosingFunction(tu *ir.TranslationUnit, line int) *ir.Function {
	for _, fk := range tu.Functions.Keys() {
		fn, _ := tu.Functions.Get(fk)
		if fn.Key == ir.EntryPointKey {
			continue
		}
		if fn.StartLine < line && line < fn.EndLine {
			return fn
		}
	}
	return nil
}

// standaloneIndent approximates the indent level a reinjected standalone
// comment should render at, by copying the indent of the nearest existing
// CodeLine in the same function.
func standaloneIndent(fn *ir.Function, line int) int {
	best, bestDist := 1, 1<<30
	for k, cl := range fn.Lines {
		d := k - line
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist, best = d, cl.Indent
		}
	}
	return best
}
