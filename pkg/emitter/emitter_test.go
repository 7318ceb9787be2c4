package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pycppx/pycpp/pkg/emitter"
	"github.com/pycppx/pycpp/pkg/ir"
)

func TestEmitAngleIncludes(t *testing.T) {
	tu := ir.NewTranslationUnit()
	tu.AddInclude("iostream")
	out := emitter.Emit(tu, emitter.IncludeAngle)
	assert.Contains(t, out, "#include <iostream>")
}

func TestEmitQuotedIncludes(t *testing.T) {
	tu := ir.NewTranslationUnit()
	tu.AddInclude("myheader.h")
	out := emitter.Emit(tu, emitter.IncludeQuoted)
	assert.Contains(t, out, `#include "myheader.h"`)
}

func TestEmitForwardDeclaresNonEntryFunctions(t *testing.T) {
	tu := ir.NewTranslationUnit()
	fn := ir.NewFunction("1", "add", 1, 3, ir.NewTypeCell(ir.TypeInt))
	fn.Parameters.Set("a", &ir.Variable{Name: "a", DeclLine: -1, Type: ir.NewTypeCell(ir.TypeInt)})
	fn.Parameters.Set("b", &ir.Variable{Name: "b", DeclLine: -1, Type: ir.NewTypeCell(ir.TypeInt)})
	fn.Lines[2] = &ir.CodeLine{StartLine: 2, EndLine: 2, Indent: 1, Code: "return a + b;"}
	tu.Functions.Set("1", fn)

	out := emitter.Emit(tu, emitter.IncludeAngle)
	assert.Contains(t, out, "int add(int a, int b);")
	assert.Contains(t, out, "int add(int a, int b)\n{")
}

func TestEmitEntryPointRenamedToMainWithReturnZero(t *testing.T) {
	tu := ir.NewTranslationUnit()
	out := emitter.Emit(tu, emitter.IncludeAngle)
	assert.Contains(t, out, "int main(int argc, char ** argv)")
	assert.Contains(t, out, "return 0;")
}

func TestEmitDefaultValueOnDefinitionNotDeclaration(t *testing.T) {
	tu := ir.NewTranslationUnit()
	fn := ir.NewFunction("1", "greet", 1, 2, ir.NewTypeCell(ir.TypeVoid))
	fn.Parameters.Set("name", &ir.Variable{
		Name: "name", DeclLine: -1, Type: ir.NewTypeCell(ir.TypeStr),
		Default: &ir.DefaultValue{Type: ir.TypeStr, Literal: `"world"`},
	})
	tu.Functions.Set("1", fn)

	out := emitter.Emit(tu, emitter.IncludeAngle)
	assert.Contains(t, out, `std::string greet(std::string name);`)
	assert.Contains(t, out, `std::string greet(std::string name = "world")`)
}

func TestEmitPreCommentAndTrailingComment(t *testing.T) {
	tu := ir.NewTranslationUnit()
	entry := tu.EntryPoint()
	entry.Lines[1] = &ir.CodeLine{
		StartLine: 1, EndLine: 1, Indent: 1,
		Code: "x = 1;", Comment: "note", HasComment: true,
		PreComment: "TODO: something", HasPreComment: true,
	}

	out := emitter.Emit(tu, emitter.IncludeAngle)
	assert.Contains(t, out, "// TODO: something")
	assert.Contains(t, out, "x = 1;\t//note")
}
