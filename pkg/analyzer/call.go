package analyzer

import (
	"fmt"
	"strings"

	"github.com/pycppx/pycpp/pkg/diag"
	"github.com/pycppx/pycpp/pkg/ir"
	"github.com/pycppx/pycpp/pkg/pyast"
)

// evalCall resolves a Call in the order spec.md §4.1 prescribes: a
// type-cast name, then a user-defined function, then a ported builtin,
// then failure. The callee must be a simple name.
func (a *Analyzer) evalCall(fn *ir.Function, n *pyast.Call) (string, *ir.TypeCell, error) {
	name, ok := n.Func.(*pyast.Name)
	if !ok {
		return "", nil, diag.NewNotSupported("call to function not in scope", n.Line())
	}

	if t, ok := ir.CastTypeNames[name.Id]; ok {
		return a.evalCast(fn, name.Id, t, n.Args)
	}
	if callee, ok := a.findUserFunction(name.Id); ok {
		return a.evalUserCall(fn, callee, n.Args)
	}
	if s, cell, handled, err := a.evalPortedCall(fn, name.Id, n.Args, n.Line()); handled {
		return s, cell, err
	}
	return "", nil, diag.NewNotSupported("call to function not in scope", n.Line())
}

// evalCast handles a type-cast call: str(x) special-cases to
// std::to_string; every other cast name emits a C-style cast.
func (a *Analyzer) evalCast(fn *ir.Function, name string, t ir.Type, args []pyast.Expr) (string, *ir.TypeCell, error) {
	argStrs, _, err := a.evalArgs(fn, args)
	if err != nil {
		return "", nil, err
	}
	if name == "str" {
		a.TU.AddInclude("string")
		return fmt.Sprintf("std::to_string(%s)", strings.Join(argStrs, ", ")), ir.NewTypeCell(ir.TypeStr), nil
	}
	return fmt.Sprintf("(%s)(%s)", ir.CppTypeNames[t], strings.Join(argStrs, ", ")), ir.NewTypeCell(t), nil
}

// findUserFunction looks up a registered Function by its source name,
// skipping the synthetic entry point (it is never callable by name).
func (a *Analyzer) findUserFunction(name string) (*ir.Function, bool) {
	for _, k := range a.TU.Functions.Keys() {
		f, _ := a.TU.Functions.Get(k)
		if f.Key == ir.EntryPointKey {
			continue
		}
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// evalUserCall emits a call to a pre-registered function, refining each
// passed argument's corresponding parameter-type cell in place (spec.md
// §4.1: "for each passed argument refine the corresponding parameter's
// type cell"). The call's own result type is the callee's live
// return-type cell, so a later refinement of the callee's return type
// remains visible at this call site without rewriting it.
func (a *Analyzer) evalUserCall(fn *ir.Function, callee *ir.Function, args []pyast.Expr) (string, *ir.TypeCell, error) {
	paramKeys := callee.Parameters.Keys()
	argStrs := make([]string, 0, len(args))
	for i, argExpr := range args {
		s, cell, err := a.evalExpr(fn, argExpr)
		if err != nil {
			return "", nil, err
		}
		argStrs = append(argStrs, s)
		if i < len(paramKeys) {
			p, _ := callee.Parameters.Get(paramKeys[i])
			p.Type.Refine(cell.T)
		}
	}
	return fmt.Sprintf("%s(%s)", callee.Name, strings.Join(argStrs, ", ")), callee.ReturnType, nil
}

// evalArgs evaluates a call's argument list left to right, failing on the
// first unsupported argument expression.
func (a *Analyzer) evalArgs(fn *ir.Function, args []pyast.Expr) ([]string, []*ir.TypeCell, error) {
	strs := make([]string, 0, len(args))
	cells := make([]*ir.TypeCell, 0, len(args))
	for _, arg := range args {
		s, cell, err := a.evalExpr(fn, arg)
		if err != nil {
			return nil, nil, err
		}
		strs = append(strs, s)
		cells = append(cells, cell)
	}
	return strs, cells, nil
}

// evalPortedCall implements the ported-function table (spec.md §4.1
// "Ported functions"): print(args...) and sqrt(x). handled is false when
// name matches neither, letting the caller fall through to "not in scope".
func (a *Analyzer) evalPortedCall(fn *ir.Function, name string, args []pyast.Expr, line int) (string, *ir.TypeCell, bool, error) {
	switch name {
	case "print":
		argStrs, _, err := a.evalArgs(fn, args)
		if err != nil {
			return "", nil, true, err
		}
		a.TU.AddInclude("iostream")
		parts := make([]string, 0, len(argStrs)*2)
		for i, s := range argStrs {
			if i > 0 {
				parts = append(parts, `" "`)
			}
			parts = append(parts, s)
		}
		parts = append(parts, "std::endl")
		return "std::cout << " + strings.Join(parts, " << "), ir.NewTypeCell(ir.TypeNone), true, nil
	case "sqrt":
		if len(args) != 1 {
			return "", nil, true, diag.NewNotSupported("sqrt accepts exactly one argument", line)
		}
		s, _, err := a.evalExpr(fn, args[0])
		if err != nil {
			return "", nil, true, err
		}
		a.TU.AddInclude("math.h")
		return fmt.Sprintf("sqrt(%s)", s), ir.NewTypeCell(ir.TypeFloat), true, nil
	default:
		return "", nil, false, nil
	}
}
