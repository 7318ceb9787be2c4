// Package finalizer implements spec.md §4.2's Type Finalizer: the pass
// that runs after the analyzer's walk and prepends each local variable's
// final inferred C++ type to its declaration line. Parameters are not
// rewritten here — the Emitter reads their type cells directly when it
// renders a function's signature.
package finalizer

import (
	"github.com/pycppx/pycpp/pkg/ir"
)

// Finalize rewrites every Function's local-variable declaration lines in
// tu, prepending the C++ type spelling from ir.CppTypeNames, and adds the
// "string" include if any local's inferred type is str.
func Finalize(tu *ir.TranslationUnit) {
	for _, fk := range tu.Functions.Keys() {
		fn, _ := tu.Functions.Get(fk)
		for _, vk := range fn.Locals.Keys() {
			v, _ := fn.Locals.Get(vk)
			finalizeVariable(tu, fn, v)
		}
	}
}

func finalizeVariable(tu *ir.TranslationUnit, fn *ir.Function, v *ir.Variable) {
	if v.DeclLine < 0 {
		return
	}
	cl, ok := fn.Lines[v.DeclLine]
	if !ok {
		return
	}
	cppType, ok := ir.CppTypeNames[v.Type.T]
	if !ok {
		cppType = ir.CppTypeNames[ir.TypeAuto]
	}
	cl.Code = cppType + " " + cl.Code
	if v.Type.T == ir.TypeStr {
		tu.AddInclude("string")
	}
}
