package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pycppx/pycpp/pkg/diag"
)

func TestNewNotSupportedSingleLine(t *testing.T) {
	err := diag.NewNotSupported("variadic functions", 3)
	assert.Equal(t, 3, err.Line)
	assert.Equal(t, 3, err.EndLine)
	assert.Contains(t, err.Error(), "variadic functions")
	assert.Contains(t, err.Error(), "line 3")
}

func TestNewNotSupportedRange(t *testing.T) {
	err := diag.NewNotSupportedRange("heterogeneous list", 2, 4)
	assert.Equal(t, 2, err.Line)
	assert.Equal(t, 4, err.EndLine)
}

func TestVariableNotFoundAsNotSupported(t *testing.T) {
	v := &diag.VariableNotFound{Name: "x", Line: 7}
	assert.Contains(t, v.Error(), `"x"`)

	ns := diag.AsNotSupported(v)
	assert.Equal(t, 7, ns.Line)
	assert.Contains(t, ns.Reason, "used before declaration")
}

func TestSnippetRendersLineRange(t *testing.T) {
	raw := []string{"a = 1", "b = 2", "c = 3"}
	out := diag.Snippet(raw, 2, 3)
	assert.Contains(t, out, "2 | b = 2")
	assert.Contains(t, out, "3 | c = 3")
	assert.NotContains(t, out, "a = 1")
}

func TestSnippetClampsToAvailableRange(t *testing.T) {
	raw := []string{"a = 1"}
	out := diag.Snippet(raw, 0, 100)
	assert.Contains(t, out, "1 | a = 1")
}

func TestSnippetEmptyWhenStartAfterEnd(t *testing.T) {
	raw := []string{"a = 1"}
	out := diag.Snippet(raw, 5, 2)
	assert.Equal(t, "", out)
}
