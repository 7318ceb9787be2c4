package reinjector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pycppx/pycpp/pkg/ir"
	"github.com/pycppx/pycpp/pkg/reinjector"
)

func TestReinjectAttachesTrailingComment(t *testing.T) {
	raw := []string{"x = 1 # the answer"}
	tu := ir.NewTranslationUnit()
	entry := tu.EntryPoint()
	entry.Lines[1] = &ir.CodeLine{StartLine: 1, EndLine: 1, EndCol: 5, Code: "x = 1;"}

	reinjector.Reinject(tu, raw)

	cl := entry.Lines[1]
	assert.True(t, cl.HasComment)
	assert.Equal(t, "the answer", cl.Comment)
}

func TestReinjectIgnoresNonCommentTrailingText(t *testing.T) {
	raw := []string{"x = 1"}
	tu := ir.NewTranslationUnit()
	entry := tu.EntryPoint()
	entry.Lines[1] = &ir.CodeLine{StartLine: 1, EndLine: 1, EndCol: 5, Code: "x = 1;"}

	reinjector.Reinject(tu, raw)

	assert.False(t, entry.Lines[1].HasComment)
}

func TestReinjectStandaloneCommentInsideFunction(t *testing.T) {
	raw := []string{
		"def f():",
		"    # a note",
		"    return 1",
	}
	tu := ir.NewTranslationUnit()
	fn := ir.NewFunction("1", "f", 1, 3, ir.NewTypeCell(ir.TypeAuto))
	fn.Lines[3] = &ir.CodeLine{StartLine: 3, EndLine: 3, EndCol: len(raw[2]), Indent: 1, Code: "return 1;"}
	tu.Functions.Set("1", fn)

	reinjector.Reinject(tu, raw)

	cl, ok := fn.Lines[2]
	if assert.True(t, ok) {
		assert.Equal(t, "// a note", cl.Code)
	}
}

func TestReinjectStandaloneCommentOutsideAnyFunction(t *testing.T) {
	raw := []string{"# top-level note", "x = 1"}
	tu := ir.NewTranslationUnit()
	entry := tu.EntryPoint()
	entry.Lines[2] = &ir.CodeLine{StartLine: 2, EndLine: 2, EndCol: len(raw[1]), Code: "x = 1;"}

	reinjector.Reinject(tu, raw)

	cl, ok := entry.Lines[1]
	if assert.True(t, ok) {
		assert.Equal(t, "// top-level note", cl.Code)
	}
}
