package transpiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pycppx/pycpp/pkg/transpiler"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestTranslateFileBasic(t *testing.T) {
	tmpDir := t.TempDir()
	src := `def add(a, b):
    return a + b

x = add(1, 2)
print(x)
`
	path := writeSource(t, tmpDir, "prog.py", src)

	tr := transpiler.New()
	err := tr.TranslateFile(path, tmpDir)
	require.NoError(t, err)

	outPath := filepath.Join(tmpDir, "main.cpp")
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "#include <iostream>")
	assert.Contains(t, out, "add(")
	assert.Contains(t, out, "int main(")
	assert.Contains(t, out, "return 0;")
}

func TestTranslateFileUnsupportedConstructDegrades(t *testing.T) {
	tmpDir := t.TempDir()
	src := `class Foo:
    pass

x = 1
`
	path := writeSource(t, tmpDir, "prog.py", src)

	tr := transpiler.New()
	err := tr.TranslateFile(path, tmpDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, "main.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "x = 1;")
}

func TestTranslateFileMissingInputReportsAndContinues(t *testing.T) {
	tmpDir := t.TempDir()
	tr := transpiler.New()
	err := tr.TranslateFile(filepath.Join(tmpDir, "missing.py"), tmpDir)
	assert.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(tmpDir, "main.cpp"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranslateFileProjectConfigWidenIntToFloat(t *testing.T) {
	tmpDir := t.TempDir()
	src := `def f():
    x = 1.5
    x = 2
    return x
`
	path := writeSource(t, tmpDir, "prog.py", src)
	writeSource(t, tmpDir, "pycpp.toml", `[emitter]
widen_int_to_float = false
`)

	cfg, err := transpiler.LoadProjectConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Emitter.WidenIntToFloat)

	tr := transpiler.NewWithConfig(cfg)
	err = tr.TranslateFile(path, tmpDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, "main.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "TODO")
}
