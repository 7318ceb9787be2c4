package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pycppx/pycpp/pkg/diag"
	"github.com/pycppx/pycpp/pkg/ir"
	"github.com/pycppx/pycpp/pkg/pyast"
)

// evalExpr dispatches an expression to its handler, returning its emitted
// C++ text and the TypeCell describing its inferred type (spec.md §4.1
// "Expression sub-analyzer"). The returned cell is the *same* cell as the
// referenced Variable/Function when the expression is a Name or a call to
// a user-defined function (so late refinements stay visible), and a fresh
// cell otherwise.
func (a *Analyzer) evalExpr(fn *ir.Function, e pyast.Expr) (string, *ir.TypeCell, error) {
	switch n := e.(type) {
	case *pyast.Constant:
		text, t := a.constantLiteral(n)
		return text, ir.NewTypeCell(t), nil
	case *pyast.Name:
		return a.evalName(fn, n)
	case *pyast.BinOp:
		return a.evalBinOp(fn, n)
	case *pyast.BoolOp:
		return a.evalBoolOp(fn, n)
	case *pyast.UnaryOp:
		return a.evalUnaryOp(fn, n)
	case *pyast.Compare:
		return a.evalCompare(fn, n)
	case *pyast.Call:
		return a.evalCall(fn, n)
	case *pyast.List:
		return "", nil, diag.NewNotSupported("list literal is only supported as the right-hand side of an assignment", n.Line())
	case *pyast.Subscript:
		return a.evalSubscript(fn, n)
	default:
		return "", nil, diag.NewNotSupported("unsupported expression", e.Line())
	}
}

// constantLiteral renders a Constant's C++ text and literal type (spec.md
// §4.1 Constant). Strings add the string include and are quoted; booleans
// map True/False to true/false; numeric literals stringify directly.
func (a *Analyzer) constantLiteral(c *pyast.Constant) (string, ir.Type) {
	switch c.Kind {
	case pyast.ConstInt:
		return c.Raw, ir.TypeInt
	case pyast.ConstFloat:
		return c.Raw, ir.TypeFloat
	case pyast.ConstString:
		a.TU.AddInclude("string")
		return strconv.Quote(c.Raw), ir.TypeStr
	case pyast.ConstBool:
		if c.Raw == "True" {
			return "true", ir.TypeBool
		}
		return "false", ir.TypeBool
	case pyast.ConstNone:
		return "NULL", ir.TypeNone
	default:
		return c.Raw, ir.TypeAuto
	}
}

// evalName resolves a bare identifier through parameters, then locals
// (spec.md §4.1 Name); an unknown name degrades as a non-exceptional
// failure, per pkg/diag.VariableNotFound's re-raise contract.
func (a *Analyzer) evalName(fn *ir.Function, n *pyast.Name) (string, *ir.TypeCell, error) {
	v, ok := fn.ResolveName(n.Id)
	if !ok {
		return "", nil, &diag.VariableNotFound{Name: n.Id, Line: n.Line()}
	}
	return n.Id, v.Type, nil
}

var binOpSymbol = map[pyast.BinOpKind]string{
	pyast.OpAdd: "+", pyast.OpSub: "-", pyast.OpMult: "*", pyast.OpMod: "%",
	pyast.OpLShift: "<<", pyast.OpRShift: ">>",
	pyast.OpBitOr: "|", pyast.OpBitAnd: "&", pyast.OpBitXor: "^",
}

// evalBinOp implements the spec.md §4.1 BinOp operator table, including
// the Div/FloorDiv/Pow C++-specific rewrites. The whole expression is
// always parenthesized.
func (a *Analyzer) evalBinOp(fn *ir.Function, n *pyast.BinOp) (string, *ir.TypeCell, error) {
	leftStr, leftCell, err := a.evalExpr(fn, n.Left)
	if err != nil {
		return "", nil, err
	}
	rightStr, rightCell, err := a.evalExpr(fn, n.Right)
	if err != nil {
		return "", nil, err
	}

	switch n.Op {
	case pyast.OpDiv:
		if leftCell.T != ir.TypeFloat || rightCell.T != ir.TypeFloat {
			leftStr = "(double)" + leftStr
		}
		return fmt.Sprintf("(%s / %s)", leftStr, rightStr), ir.NewTypeCell(ir.TypeFloat), nil
	case pyast.OpFloorDiv:
		return fmt.Sprintf("((int)(%s / %s))", leftStr, rightStr), ir.NewTypeCell(ir.TypeInt), nil
	case pyast.OpPow:
		a.TU.AddInclude("math.h")
		return fmt.Sprintf("(pow(%s, %s))", leftStr, rightStr), ir.NewTypeCell(ir.TypeFloat), nil
	default:
		sym, ok := binOpSymbol[n.Op]
		if !ok {
			return "", nil, diag.NewNotSupported("unsupported binary operator", n.Line())
		}
		result := ir.Precedence(leftCell.T, rightCell.T)
		return fmt.Sprintf("(%s %s %s)", leftStr, sym, rightStr), ir.NewTypeCell(result), nil
	}
}

var boolOpSymbol = map[pyast.BoolOpKind]string{pyast.OpAnd: "&&", pyast.OpOr: "||"}

// evalBoolOp evaluates every operand, yielding the shared type if all
// operands agree or TypeAuto otherwise (spec.md §4.1 BoolOp).
func (a *Analyzer) evalBoolOp(fn *ir.Function, n *pyast.BoolOp) (string, *ir.TypeCell, error) {
	parts := make([]string, 0, len(n.Values))
	result := ir.Type("")
	for i, v := range n.Values {
		s, cell, err := a.evalExpr(fn, v)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, s)
		if i == 0 {
			result = cell.T
		} else if cell.T != result {
			result = ir.TypeAuto
		}
	}
	sym := boolOpSymbol[n.Op]
	return "(" + strings.Join(parts, " "+sym+" ") + ")", ir.NewTypeCell(result), nil
}

// evalUnaryOp maps Not/Invert/UAdd/USub to their C++ prefix operators
// (spec.md §4.1 UnaryOp).
func (a *Analyzer) evalUnaryOp(fn *ir.Function, n *pyast.UnaryOp) (string, *ir.TypeCell, error) {
	s, _, err := a.evalExpr(fn, n.Operand)
	if err != nil {
		return "", nil, err
	}
	switch n.Op {
	case pyast.OpNot:
		return fmt.Sprintf("(!%s)", s), ir.NewTypeCell(ir.TypeBool), nil
	case pyast.OpInvert:
		return fmt.Sprintf("(~%s)", s), ir.NewTypeCell(ir.TypeInt), nil
	case pyast.OpUAdd:
		return fmt.Sprintf("(+%s)", s), ir.NewTypeCell(ir.TypeInt), nil
	case pyast.OpUSub:
		return fmt.Sprintf("(-%s)", s), ir.NewTypeCell(ir.TypeInt), nil
	default:
		return "", nil, diag.NewNotSupported("unsupported unary operator", n.Line())
	}
}

var cmpSymbol = map[pyast.CmpOp]string{
	pyast.CmpEq: "==", pyast.CmpNotEq: "!=",
	pyast.CmpLt: "<", pyast.CmpLtE: "<=",
	pyast.CmpGt: ">", pyast.CmpGtE: ">=",
}

// evalCompare expands a chained comparison `a < b < c` into one `&&` per
// adjacent pair, `((a < b) && (b < c))` (spec.md §4.1 Compare, S2). `is`/
// `in`/etc. are absent from cmpSymbol and so degrade unsupported, per the
// spec's "reject any unsupported operator".
func (a *Analyzer) evalCompare(fn *ir.Function, n *pyast.Compare) (string, *ir.TypeCell, error) {
	operands := make([]string, 0, len(n.Comparators)+1)
	leftStr, _, err := a.evalExpr(fn, n.Left)
	if err != nil {
		return "", nil, err
	}
	operands = append(operands, leftStr)
	for _, c := range n.Comparators {
		s, _, err := a.evalExpr(fn, c)
		if err != nil {
			return "", nil, err
		}
		operands = append(operands, s)
	}

	parts := make([]string, 0, len(n.Ops))
	for i, op := range n.Ops {
		sym, ok := cmpSymbol[op]
		if !ok {
			return "", nil, diag.NewNotSupported("unsupported comparison operator", n.Line())
		}
		parts = append(parts, fmt.Sprintf("(%s %s %s)", operands[i], sym, operands[i+1]))
	}

	joined := strings.Join(parts, " && ")
	if len(parts) > 1 {
		joined = "(" + joined + ")"
	}
	return joined, ir.NewTypeCell(ir.TypeBool), nil
}

// evalSubscript resolves a vector element access `name[index]` (spec.md
// §4.1 Subscript); a slice (`a:b`) is unsupported.
func (a *Analyzer) evalSubscript(fn *ir.Function, n *pyast.Subscript) (string, *ir.TypeCell, error) {
	if n.IsSlice {
		return "", nil, diag.NewNotSupported("slice subscript is not supported", n.Line())
	}
	base, ok := n.Value.(*pyast.Name)
	if !ok {
		return "", nil, diag.NewNotSupported("subscript base must be a simple name", n.Line())
	}
	vec, ok := fn.Vectors.Get(base.Id)
	if !ok {
		return "", nil, &diag.VariableNotFound{Name: base.Id, Line: n.Line()}
	}
	idxStr, _, err := a.evalExpr(fn, n.Slice)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s[%s]", base.Id, idxStr), ir.NewTypeCell(vec.ElemType), nil
}
