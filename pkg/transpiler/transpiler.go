// Package transpiler provides pycpp's Driver: the library entry point that
// runs a single source file through the full pipeline (parse, analyze,
// finalize, reinject, emit) and writes the resulting C++ translation unit,
// grounded on the teacher's Transpiler type and TranspileFile API.
package transpiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pycppx/pycpp/pkg/analyzer"
	"github.com/pycppx/pycpp/pkg/config"
	"github.com/pycppx/pycpp/pkg/emitter"
	"github.com/pycppx/pycpp/pkg/finalizer"
	"github.com/pycppx/pycpp/pkg/ir"
	"github.com/pycppx/pycpp/pkg/pyparser"
	"github.com/pycppx/pycpp/pkg/reinjector"
	"github.com/pycppx/pycpp/pkg/ui"
)

// Transpiler runs pycpp's translation pipeline over one source file at a
// time (SPEC_FULL.md §4.5).
type Transpiler struct {
	config *config.Config
	out    *ui.BuildOutput
}

// New creates a Transpiler with spec.md's default configuration.
func New() *Transpiler {
	return &Transpiler{config: config.Default()}
}

// NewWithConfig creates a Transpiler with a caller-supplied configuration,
// used by cmd/pycpp once a pycpp.toml has been loaded.
func NewWithConfig(cfg *config.Config) *Transpiler {
	return &Transpiler{config: cfg}
}

// WithOutput attaches a BuildOutput that progress and diagnostics are
// reported to. With nil (the default) no progress is reported and errors
// are written to stderr.
func (t *Transpiler) WithOutput(out *ui.BuildOutput) *Transpiler {
	t.out = out
	return t
}

// TranslateFile runs the full pipeline over inputPath and writes
// <outputDir>/main.cpp. It implements SPEC_FULL.md §4.5's eight steps.
// I/O and parse failures are reported (via the attached BuildOutput, if
// any) and returned as nil so a batch invocation continues to the next
// file and the process still exits 0, matching pycpp's best-effort
// philosophy at the file level as well as the statement level.
func (t *Transpiler) TranslateFile(inputPath, outputDir string) (err error) {
	// A panic anywhere in the pipeline (a nil map, an out-of-range index)
	// is a programmer bug, not a TranslationNotSupported — but spec.md §7
	// still wants it visible without crashing the batch, so it is reported
	// the same way an I/O failure is rather than propagated.
	defer func() {
		if r := recover(); r != nil {
			t.reportError(fmt.Sprintf("internal error translating %s: %v", inputPath, r))
			err = nil
		}
	}()

	raw, readErr := readLines(inputPath)
	if readErr != nil {
		t.reportError(fmt.Sprintf("failed to read %s: %v", inputPath, readErr))
		return nil
	}

	stmts, parseErr := pyparser.Parse(strings.Join(raw, "\n"))
	if parseErr != nil {
		t.reportError(fmt.Sprintf("failed to parse %s: %v", inputPath, parseErr))
		return nil
	}

	a := analyzer.New(raw)
	a.WidenIntToFloat = t.config.Emitter.WidenIntToFloat
	a.Analyze(stmts)

	finalizer.Finalize(a.TU)
	reinjector.Reinject(a.TU, raw)

	style := emitter.IncludeAngle
	if t.config.Emitter.IncludeStyle == config.IncludeQuoted {
		style = emitter.IncludeQuoted
	}
	source := emitter.Emit(a.TU, style)

	if t.out != nil {
		t.out.AddTranslated(countTranslated(a.TU, len(a.Findings)))
		t.out.PrintDiagnostics(a.Findings, raw)
	}

	outputPath := filepath.Join(outputDir, "main.cpp")
	if err := os.WriteFile(outputPath, []byte(source), 0644); err != nil {
		t.reportError(fmt.Sprintf("failed to write %s: %v", outputPath, err))
		return nil
	}
	return nil
}

// LoadProjectConfig looks for pycpp.toml next to inputPath and returns the
// resolved configuration, falling back to defaults when absent.
func LoadProjectConfig(inputPath string) (*config.Config, error) {
	path := filepath.Join(filepath.Dir(inputPath), "pycpp.toml")
	return config.Load(path)
}

func (t *Transpiler) reportError(msg string) {
	if t.out != nil {
		t.out.PrintError(msg)
		return
	}
	fmt.Fprintln(os.Stderr, "pycpp: "+msg)
}

// readLines reads path and splits it into logical lines, tolerating a missing
// trailing newline and CRLF line endings (SPEC_FULL.md §4.5 step 1).
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

// countTranslated approximates the cleanly-translated line count as the
// total CodeLines produced minus the number of Findings (each Finding
// accounts for at least one degraded CodeLine). It feeds only the build
// summary's human-readable ratio, not a spec invariant.
func countTranslated(tu *ir.TranslationUnit, findingCount int) int {
	total := 0
	for _, fk := range tu.Functions.Keys() {
		fn, _ := tu.Functions.Get(fk)
		total += len(fn.Lines)
	}
	if total < findingCount {
		return 0
	}
	return total - findingCount
}
