package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pycppx/pycpp/pkg/ir"
)

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := ir.NewOrderedMap[int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
}

func TestOrderedMapSetOverwritesWithoutReordering(t *testing.T) {
	m := ir.NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 99)
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 99, v)
}

func TestOrderedMapGetMissing(t *testing.T) {
	m := ir.NewOrderedMap[int]()
	_, ok := m.Get("missing")
	assert.False(t, ok)
	assert.False(t, m.Has("missing"))
}

// Precedence is commutative and idempotent (spec.md §8 invariant 3).
func TestPrecedenceCommutativeAndIdempotent(t *testing.T) {
	assert.Equal(t, ir.Precedence(ir.TypeInt, ir.TypeFloat), ir.Precedence(ir.TypeFloat, ir.TypeInt))
	assert.Equal(t, ir.TypeFloat, ir.Precedence(ir.TypeInt, ir.TypeFloat))
	assert.Equal(t, ir.TypeStr, ir.Precedence(ir.TypeStr, ir.TypeStr))
}

// Unknown types collapse to auto's rank (invariant 5).
func TestPrecedenceUnknownTypeCollapsesToAuto(t *testing.T) {
	weird := ir.Type("weird")
	assert.Equal(t, weird, ir.Precedence(weird, ir.TypeAuto))
	assert.Equal(t, ir.TypeInt, ir.Precedence(weird, ir.TypeInt))
}

func TestTypeCellRefineKeepsIdentity(t *testing.T) {
	cell := ir.NewTypeCell(ir.TypeAuto)
	holder := cell
	cell.Refine(ir.TypeInt)
	assert.Equal(t, ir.TypeInt, holder.T)
}

func TestFunctionSortedLineKeysAscending(t *testing.T) {
	fn := ir.NewFunction("1", "f", 1, 5, ir.NewTypeCell(ir.TypeVoid))
	fn.Lines[5] = &ir.CodeLine{StartLine: 5}
	fn.Lines[2] = &ir.CodeLine{StartLine: 2}
	fn.Lines[3] = &ir.CodeLine{StartLine: 3}
	assert.Equal(t, []int{2, 3, 5}, fn.SortedLineKeys())
}

func TestFunctionResolveNameChecksParametersThenLocals(t *testing.T) {
	fn := ir.NewFunction("1", "f", 1, 5, ir.NewTypeCell(ir.TypeVoid))
	fn.Parameters.Set("a", &ir.Variable{Name: "a", DeclLine: -1, Type: ir.NewTypeCell(ir.TypeInt)})
	fn.Locals.Set("b", &ir.Variable{Name: "b", DeclLine: 2, Type: ir.NewTypeCell(ir.TypeStr)})

	v, ok := fn.ResolveName("a")
	require.True(t, ok)
	assert.Equal(t, ir.TypeInt, v.Type.T)

	v, ok = fn.ResolveName("b")
	require.True(t, ok)
	assert.Equal(t, ir.TypeStr, v.Type.T)

	_, ok = fn.ResolveName("missing")
	assert.False(t, ok)
}

func TestNewTranslationUnitSeedsEntryPoint(t *testing.T) {
	tu := ir.NewTranslationUnit()
	keys := tu.Functions.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, ir.EntryPointKey, keys[0])

	entry := tu.EntryPoint()
	assert.Equal(t, "main", entry.Name)
	_, ok := entry.Parameters.Get("argc")
	assert.True(t, ok)
}

func TestAddIncludeDeduplicates(t *testing.T) {
	tu := ir.NewTranslationUnit()
	tu.AddInclude("vector")
	tu.AddInclude("vector")
	tu.AddInclude("string")
	assert.Equal(t, []string{"vector", "string"}, tu.Includes.Keys())
}
