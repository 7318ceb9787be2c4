package analyzer

import (
	"fmt"
	"strings"

	"github.com/pycppx/pycpp/pkg/diag"
	"github.com/pycppx/pycpp/pkg/ir"
	"github.com/pycppx/pycpp/pkg/pyast"
)

// analyzeStmt dispatches a single statement to its handler (spec.md §4.1
// "Main pass"). Unknown kinds and nested function definitions degrade via
// unhandledRangeInto; pass, imports and class definitions are skipped
// without output. No handler ever propagates an error past this call.
func (a *Analyzer) analyzeStmt(fn *ir.Function, s pyast.Stmt, indent int) {
	switch n := s.(type) {
	case *pyast.If:
		a.analyzeIf(fn, n, indent, "if")
	case *pyast.While:
		a.analyzeWhile(fn, n, indent)
	case *pyast.Break:
		a.emitNode(fn, n, indent, "break;")
	case *pyast.Continue:
		a.emitNode(fn, n, indent, "continue;")
	case *pyast.Pass:
		// ignored: invariant 6 permits deliberate non-emission.
	case *pyast.Return:
		a.analyzeReturn(fn, n, indent)
	case *pyast.ExprStmt:
		a.analyzeExprStmt(fn, n, indent)
	case *pyast.Assign:
		a.analyzeAssign(fn, n, indent)
	case *pyast.Import:
		// ignored: invariant 6.
	case *pyast.ImportFrom:
		// ignored: invariant 6.
	case *pyast.ClassDef:
		// classes are a Non-goal (spec.md §1); recognized, never emitted.
	case *pyast.FunctionDef:
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), "nested function definitions are not supported")
	default:
		a.unhandledRangeInto(fn, s.Line(), s.EndLine(), "unrecognized statement")
	}
}

// emitNode records a single-line CodeLine at node's own start line, using
// node's actual end line/column for the Comment Reinjector (spec.md §4.3).
// Statement nodes carry an end column of 0, so the column is taken from the
// statement's value, or from the end of its keyword for break/continue/return.
func (a *Analyzer) emitNode(fn *ir.Function, node pyast.Node, indent int, code string) {
	endCol := node.EndCol()
	if as, ok := node.(*pyast.Assign); ok {
		endCol = as.Value.EndCol()
	} else if es, ok := node.(*pyast.ExprStmt); ok {
		endCol = es.Value.EndCol()
	} else if r, ok := node.(*pyast.Return); ok && r.Value != nil {
		endCol = r.Value.EndCol()
	} else {
		raw := a.rawLine(node.Line())
		endCol = len(raw) - len(strings.TrimLeft(raw, " \t")) + len(strings.TrimSuffix(code, ";"))
	}
	fn.Lines[node.Line()] = &ir.CodeLine{
		StartLine: node.Line(),
		EndLine:   node.EndLine(),
		EndCol:    endCol,
		Indent:    indent,
		Code:      code,
	}
}

// emitHeader records a compound-statement header line (if/while/else). Its
// EndCol is pinned past the raw line's length so the Reinjector never
// mistakes a trailing `:` clause for a reinjectable comment candidate.
func (a *Analyzer) emitHeader(fn *ir.Function, line, indent int, code string) {
	raw := a.rawLine(line)
	fn.Lines[line] = &ir.CodeLine{
		StartLine: line,
		EndLine:   line,
		EndCol:    len(raw),
		Indent:    indent,
		Code:      code,
	}
}

func indentStr(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("    ", level)
}

// lastKeyInRange finds the greatest CodeLine key fn already holds within
// [start, end], used to locate "the last body CodeLine" a closing brace
// piggybacks onto (spec.md §4.1 If/While).
func lastKeyInRange(fn *ir.Function, start, end int) int {
	best := -1
	for k := range fn.Lines {
		if k >= start && k <= end && k > best {
			best = k
		}
	}
	return best
}

// closeBrace appends a closing brace to the last CodeLine produced for
// body, inheriting that line's key rather than allocating a new one.
func (a *Analyzer) closeBrace(fn *ir.Function, body []pyast.Stmt, headerLine, indent int) {
	start, end := body[0].Line(), body[len(body)-1].EndLine()
	k := lastKeyInRange(fn, start, end)
	if k < 0 {
		// Body produced no CodeLine at all (e.g. a lone `pass`); the brace
		// still needs somewhere to live: the header's own CodeLine.
		k = headerLine
	}
	fn.Lines[k].Code += "\n" + indentStr(indent) + "}"
}

// analyzeIf handles If, the `elif` chain recursion, and the `else` branch's
// source-line recovery (spec.md §4.1 If/Else-if/Else).
func (a *Analyzer) analyzeIf(fn *ir.Function, n *pyast.If, indent int, keyword string) {
	testStr, _, err := a.evalExpr(fn, n.Test)
	if err != nil {
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), reasonFor(err))
		return
	}
	code := fmt.Sprintf("%s (%s)\n%s{", keyword, testStr, indentStr(indent))
	a.emitHeader(fn, n.Line(), indent, code)

	for _, s := range n.Body {
		a.analyzeStmt(fn, s, indent+1)
	}
	a.closeBrace(fn, n.Body, n.Line(), indent)

	if len(n.Orelse) == 0 {
		return
	}

	if len(n.Orelse) == 1 {
		if elif, ok := n.Orelse[0].(*pyast.If); ok {
			a.analyzeIf(fn, elif, indent, "else if")
			return
		}
	}

	elseLine := a.findElseLine(n)
	elseCode := fmt.Sprintf("else\n%s{", indentStr(indent))
	a.emitHeader(fn, elseLine, indent, elseCode)
	for _, s := range n.Orelse {
		a.analyzeStmt(fn, s, indent+1)
	}
	a.closeBrace(fn, n.Orelse, elseLine, indent)
}

// findElseLine recovers the source line of a plain `else:` the AST doesn't
// carry directly: search upward from the line preceding the first orelse
// statement, skipping blank/comment-only lines, until `else:` is found
// (spec.md §4.1 "A plain else must find its own source-line number").
func (a *Analyzer) findElseLine(n *pyast.If) int {
	for i := n.Orelse[0].Line() - 1; i >= 1; i-- {
		raw := a.rawLine(i)
		trimmed := strings.TrimLeft(raw, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.Contains(raw, "else:") {
			return i
		}
	}
	return n.Orelse[0].Line() - 1
}

// analyzeWhile handles While with the same brace treatment as If, minus an
// else branch (this dialect has none).
func (a *Analyzer) analyzeWhile(fn *ir.Function, n *pyast.While, indent int) {
	testStr, _, err := a.evalExpr(fn, n.Test)
	if err != nil {
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), reasonFor(err))
		return
	}
	code := fmt.Sprintf("while (%s)\n%s{", testStr, indentStr(indent))
	a.emitHeader(fn, n.Line(), indent, code)

	for _, s := range n.Body {
		a.analyzeStmt(fn, s, indent+1)
	}
	a.closeBrace(fn, n.Body, n.Line(), indent)
}

// analyzeReturn handles bare and value-carrying returns, adopting the
// winning cell between the returned value and the function's current
// return-type cell (spec.md §4.1 Return, §9 "carry the cell"): when the
// returned expression is a Name or a user-call result, its cell is the
// same shared cell as the underlying Variable or callee's return type, so
// a later refinement of that variable/call (e.g. from a call-site
// argument) stays visible through fn.ReturnType without re-walking this
// return statement.
func (a *Analyzer) analyzeReturn(fn *ir.Function, n *pyast.Return, indent int) {
	if n.Value == nil {
		a.emitNode(fn, n, indent, "return;")
		return
	}
	exprStr, cell, err := a.evalExpr(fn, n.Value)
	if err != nil {
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), reasonFor(err))
		return
	}
	fn.ReturnType = ir.PrecedenceCell(cell, fn.ReturnType)
	a.emitNode(fn, n, indent, fmt.Sprintf("return %s;", exprStr))
}

// analyzeExprStmt handles the three ExprStmt cases: docstring, bare call,
// and unused value (spec.md §4.1 "Expression statement").
func (a *Analyzer) analyzeExprStmt(fn *ir.Function, n *pyast.ExprStmt, indent int) {
	if c, ok := n.Value.(*pyast.Constant); ok && c.Kind == pyast.ConstString {
		raw := a.rawLine(c.Line())
		trimmed := strings.TrimLeft(raw, " \t")
		if strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''") {
			a.emitDocstring(fn, n, indent, c)
			return
		}
	}
	if call, ok := n.Value.(*pyast.Call); ok {
		s, _, err := a.evalCall(fn, call)
		if err != nil {
			a.unhandledRangeInto(fn, n.Line(), n.EndLine(), reasonFor(err))
			return
		}
		a.emitNode(fn, n, indent, s+";")
		return
	}
	a.unhandledRangeInto(fn, n.Line(), n.EndLine(), "Value not assigned or used")
}

// emitDocstring reformats a triple-quoted string expression statement as a
// C++ block comment, indented consistently with its surrounding code.
func (a *Analyzer) emitDocstring(fn *ir.Function, n *pyast.ExprStmt, indent int, c *pyast.Constant) {
	lines := strings.Split(c.Raw, "\n")
	prefix := indentStr(indent)
	var b strings.Builder
	b.WriteString("/*")
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n" + prefix)
		}
		b.WriteString(l)
	}
	b.WriteString("*/")
	fn.Lines[n.Line()] = &ir.CodeLine{
		StartLine: n.Line(), EndLine: n.EndLine(),
		EndCol: len(a.rawLine(n.EndLine())), Indent: indent, Code: b.String(),
	}
}

// analyzeAssign handles single-target assignment: list literals become a
// Vector declaration; otherwise the target is widened/rebound or freshly
// declared (spec.md §4.1 Assignment).
func (a *Analyzer) analyzeAssign(fn *ir.Function, n *pyast.Assign, indent int) {
	if len(n.Targets) != 1 {
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), "multi-target assignment is not supported")
		return
	}
	target, ok := n.Targets[0].(*pyast.Name)
	if !ok {
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), "assignment target must be a simple name")
		return
	}
	name := target.Id

	if list, ok := n.Value.(*pyast.List); ok {
		a.analyzeListAssign(fn, n, name, list, indent)
		return
	}

	exprStr, cell, err := a.evalExpr(fn, n.Value)
	if err != nil {
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), reasonFor(err))
		return
	}

	if existing, ok := fn.ResolveName(name); ok {
		if !a.typeAssignable(existing.Type.T, cell.T) {
			a.unhandledRangeInto(fn, n.Line(), n.EndLine(), "types cannot change or potential loss of precision")
			return
		}
		existing.Type.Refine(cell.T)
		a.emitNode(fn, n, indent, fmt.Sprintf("%s = %s;", name, exprStr))
		return
	}

	v := &ir.Variable{Name: name, DeclLine: n.Line(), Type: ir.NewTypeCell(cell.T)}
	fn.Locals.Set(name, v)
	a.emitNode(fn, n, indent, fmt.Sprintf("%s = %s;", name, exprStr))
}

// typeAssignable reports whether value can be assigned into a variable
// already declared as target, the one widening exception being a float
// target accepting an int value (spec.md §4.1, S1) — gated by
// a.WidenIntToFloat so a pycpp.toml can opt into stricter typing.
func (a *Analyzer) typeAssignable(target, value ir.Type) bool {
	if target == value {
		return true
	}
	return a.WidenIntToFloat && target == ir.TypeFloat && value == ir.TypeInt
}

// analyzeListAssign creates (or overwrites) a Vector from a homogeneous
// list literal, rejecting heterogeneous element types (spec.md §4.1).
func (a *Analyzer) analyzeListAssign(fn *ir.Function, n *pyast.Assign, name string, list *pyast.List, indent int) {
	elemType, elems, err := a.evalListElements(fn, list)
	if err != nil {
		a.unhandledRangeInto(fn, n.Line(), n.EndLine(), reasonFor(err))
		return
	}
	fn.Vectors.Set(name, &ir.Vector{Name: name, ElemType: elemType, Elements: elems})
	a.TU.AddInclude("vector")
	cppType := ir.CppTypeNames[elemType]
	code := fmt.Sprintf("std::vector<%s> %s = { %s };", cppType, name, strings.Join(elems, ", "))
	a.emitNode(fn, n, indent, code)
}

func (a *Analyzer) evalListElements(fn *ir.Function, list *pyast.List) (ir.Type, []string, error) {
	if len(list.Elts) == 0 {
		return ir.TypeAuto, nil, nil
	}
	elemType := ir.TypeAuto
	elems := make([]string, 0, len(list.Elts))
	for i, e := range list.Elts {
		s, cell, err := a.evalExpr(fn, e)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			elemType = cell.T
		} else if cell.T != elemType {
			return "", nil, diag.NewNotSupported("list elements must share one type", e.Line())
		}
		elems = append(elems, s)
	}
	return elemType, elems, nil
}
