package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, IncludeAngle, cfg.Emitter.IncludeStyle)
	assert.True(t, cfg.Emitter.WidenIntToFloat)
	assert.NoError(t, cfg.Validate())
}

func TestIncludeStyleIsValid(t *testing.T) {
	assert.True(t, IncludeAngle.IsValid())
	assert.True(t, IncludeQuoted.IsValid())
	assert.False(t, IncludeStyle("").IsValid())
	assert.False(t, IncludeStyle("curly").IsValid())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{"default", Default(), false},
		{"quoted include style", &Config{Emitter: EmitterConfig{IncludeStyle: IncludeQuoted}}, false},
		{"empty include style", &Config{Emitter: EmitterConfig{IncludeStyle: ""}}, false},
		{"invalid include style", &Config{Emitter: EmitterConfig{IncludeStyle: "curly"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "pycpp.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadProjectFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pycpp.toml")
	contents := `[emitter]
include_style = "quoted"
widen_int_to_float = false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IncludeQuoted, cfg.Emitter.IncludeStyle)
	assert.False(t, cfg.Emitter.WidenIntToFloat)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pycpp.toml")
	contents := `[emitter]
widen_int_to_float = false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IncludeAngle, cfg.Emitter.IncludeStyle)
	assert.False(t, cfg.Emitter.WidenIntToFloat)
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pycpp.toml")
	require.NoError(t, os.WriteFile(path, []byte("[emitter\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadInvalidValue(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pycpp.toml")
	contents := `[emitter]
include_style = "curly"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
