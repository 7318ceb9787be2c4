// Package analyzer is the core of pycpp: a tree-walk over the restricted
// Python-subset AST (pkg/pyast) that populates a C++ translation unit IR
// (pkg/ir). It infers C++ types from dynamic values, resolves names through
// nested scopes, propagates inferred parameter types across call sites,
// rewrites C++-specific arithmetic and chained comparisons, and falls back
// to verbatim-commented source when translation is infeasible.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/pycppx/pycpp/pkg/diag"
	"github.com/pycppx/pycpp/pkg/ir"
	"github.com/pycppx/pycpp/pkg/pyast"
)

// reasonFor extracts the human-readable reason a statement handler's
// expression evaluation failed with, distinguishing pkg/diag's concrete
// error kinds via errors.As (spec.md §7) rather than taking err.Error()
// directly: a *diag.VariableNotFound re-raises as its NotSupported form
// so both kinds surface the same "TODO: ..." phrasing in the degraded
// output.
func reasonFor(err error) string {
	var vnf *diag.VariableNotFound
	if errors.As(err, &vnf) {
		return diag.AsNotSupported(vnf).Reason
	}
	var ns *diag.NotSupported
	if errors.As(err, &ns) {
		return ns.Reason
	}
	return err.Error()
}

// Analyzer owns the translation unit being built and the raw source lines
// it was built from (needed to render parse_unhandled's verbatim blocks).
type Analyzer struct {
	TU       *ir.TranslationUnit
	Raw      []string
	Findings []diag.Finding

	// WidenIntToFloat mirrors config.EmitterConfig.WidenIntToFloat: when
	// true (the default), reassigning an int value to an existing
	// float-typed variable widens rather than degrading (spec.md §4.1, S1).
	WidenIntToFloat bool

	nextKey int
}

// New creates an Analyzer seeded with an empty translation unit (the
// synthetic entry point already registered per invariant 1), with
// int-to-float widening enabled per spec.md's default behavior.
func New(raw []string) *Analyzer {
	return &Analyzer{
		TU:              ir.NewTranslationUnit(),
		Raw:             raw,
		WidenIntToFloat: true,
		nextKey:         1,
	}
}

// Analyze runs the two-phase walk over the module's top-level statements.
// It never returns an error: every translation failure is confined to the
// statement that caused it and recorded as a Finding (spec §7).
func (a *Analyzer) Analyze(stmts []pyast.Stmt) {
	a.prePass(stmts)

	entry := a.TU.EntryPoint()
	for _, s := range stmts {
		if _, ok := s.(*pyast.FunctionDef); ok {
			continue // handled by prePass
		}
		a.analyzeStmt(entry, s, 1)
	}
}

// prePass hoists every top-level function signature before any body is
// walked, so forward references between functions resolve (spec §4.1).
func (a *Analyzer) prePass(stmts []pyast.Stmt) {
	for _, s := range stmts {
		fd, ok := s.(*pyast.FunctionDef)
		if !ok {
			continue
		}
		a.registerFunction(fd)
	}
}

// registerFunction rejects headers this restricted dialect doesn't
// support (keyword-only, positional-only, *args, **kwargs — spec.md's
// Non-goals), otherwise allocates a Function with auto-typed parameters
// (seeded from a literal default's type, if any) and recursively
// analyzes the body under the new key.
func (a *Analyzer) registerFunction(fd *pyast.FunctionDef) {
	if fd.Vararg || fd.Kwarg || fd.KwOnly || fd.PosOnly {
		a.unhandledRange(fd.Line(), fd.EndLine(), "keyword-only/variadic parameters are not supported")
		return
	}

	key := fmt.Sprintf("%d", a.nextKey)
	a.nextKey++

	fn := ir.NewFunction(key, fd.Name, fd.Line(), fd.EndLine(), ir.NewTypeCell(ir.TypeVoid))
	for _, arg := range fd.Args {
		v := &ir.Variable{Name: arg.Name, DeclLine: -1, Type: ir.NewTypeCell(ir.TypeAuto)}
		if arg.Default != nil {
			text, cell, ok := a.evalConstDefault(arg.Default)
			if ok {
				v.Type.Refine(cell)
				v.Default = &ir.DefaultValue{Type: cell, Literal: text}
			}
		}
		fn.Parameters.Set(arg.Name, v)
	}
	a.TU.Functions.Set(key, fn)

	for _, s := range fd.Body {
		a.analyzeStmt(fn, s, 1)
	}
}

// evalConstDefault evaluates a parameter default, which must be a bare
// literal (the restricted dialect never evaluates arbitrary defaults).
func (a *Analyzer) evalConstDefault(e pyast.Expr) (string, ir.Type, bool) {
	c, ok := e.(*pyast.Constant)
	if !ok {
		return "", ir.TypeAuto, false
	}
	text, cell := a.constantLiteral(c)
	return text, cell, true
}

// unhandled emits parse_unhandled for a single-line construct.
func (a *Analyzer) unhandled(fn *ir.Function, line int, reason string) {
	a.unhandledRangeInto(fn, line, line, reason)
}

// unhandledRange emits parse_unhandled for a construct spanning lines with
// no Function yet known to hold it (e.g. a rejected function header) —
// attached to the entry point, per the Reinjector's fallback rule.
func (a *Analyzer) unhandledRange(start, end int, reason string) {
	a.unhandledRangeInto(a.TU.EntryPoint(), start, end, reason)
}

// unhandledRangeInto implements spec.md §4.1's parse_unhandled: one
// CodeLine per source line in [start,end], each holding that line's raw
// text as a block-comment fragment, with the reason attached as a
// preceding TODO comment on the first line.
func (a *Analyzer) unhandledRangeInto(fn *ir.Function, start, end int, reason string) {
	a.Findings = append(a.Findings, diag.Finding{Reason: reason, Line: start, EndLine: end, FuncKey: fn.Key})
	for i := start; i <= end; i++ {
		raw := a.rawLine(i)
		code := raw
		if i == start {
			code = "/*" + raw
		}
		if i == end {
			code = code + "*/"
		}
		cl := &ir.CodeLine{StartLine: i, EndLine: i, Code: code}
		if i == start {
			cl.PreComment = "TODO: " + reason
			cl.HasPreComment = true
		}
		fn.Lines[i] = cl
	}
}

func (a *Analyzer) rawLine(line int) string {
	if line < 1 || line > len(a.Raw) {
		return ""
	}
	return a.Raw[line-1]
}
