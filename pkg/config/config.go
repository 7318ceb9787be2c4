// Package config loads pycpp's optional project configuration: an
// emitter/analyzer options file (pycpp.toml) the driver looks for next to
// the source file being translated, grounded on the teacher's TOML-backed
// dingo.toml loader. Absence of the file is never an error — defaults
// reproduce spec.md's behavior exactly (SPEC_FULL.md §4.4/§6).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// IncludeStyle selects how the Emitter spells an #include directive.
type IncludeStyle string

const (
	IncludeAngle  IncludeStyle = "angle"  // #include <name> — spec.md default
	IncludeQuoted IncludeStyle = "quoted" // #include "name"
)

// IsValid reports whether s is a recognized IncludeStyle.
func (s IncludeStyle) IsValid() bool {
	return s == IncludeAngle || s == IncludeQuoted
}

// Config is pycpp's project-level configuration, loaded from an optional
// pycpp.toml. Every field defaults to spec.md's literal behavior.
type Config struct {
	Emitter EmitterConfig `toml:"emitter"`
}

// EmitterConfig controls the Emitter's include-directive spelling and the
// Analyzer's Assign-widening strictness (SPEC_FULL.md §4.4).
type EmitterConfig struct {
	// IncludeStyle selects "angle" (spec.md default) or "quoted".
	IncludeStyle IncludeStyle `toml:"include_style"`

	// WidenIntToFloat mirrors spec.md S1 exactly when true (default): a
	// float-typed variable may be reassigned an int value. Setting it to
	// false makes that reassignment degrade like any other narrowing
	// mismatch, for projects that want stricter-than-spec typing.
	WidenIntToFloat bool `toml:"widen_int_to_float"`
}

// Default returns the configuration spec.md's rules compile against when
// no pycpp.toml is present.
func Default() *Config {
	return &Config{
		Emitter: EmitterConfig{
			IncludeStyle:    IncludeAngle,
			WidenIntToFloat: true,
		},
	}
}

// Load reads path (typically "pycpp.toml" next to the source file) into a
// Default()-seeded Config. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("pycpp: failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports whether cfg's fields hold recognized values.
func (c *Config) Validate() error {
	if c.Emitter.IncludeStyle != "" && !c.Emitter.IncludeStyle.IsValid() {
		return fmt.Errorf("pycpp: invalid emitter.include_style %q (must be \"angle\" or \"quoted\")", c.Emitter.IncludeStyle)
	}
	return nil
}
