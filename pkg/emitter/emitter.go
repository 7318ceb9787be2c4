// Package emitter implements spec.md §4.4: serializing a finalized,
// reinjected ir.TranslationUnit into a single C++ translation unit —
// include directives, forward declarations for every non-entry-point
// function, then each function definition in insertion order.
package emitter

import (
	"fmt"
	"strings"

	"github.com/pycppx/pycpp/pkg/ir"
)

// IncludeStyle selects how an #include directive is spelled. It mirrors
// config.IncludeStyle without importing pkg/config, keeping the emitter
// usable standalone (e.g. from tests) with no configuration dependency.
type IncludeStyle string

const (
	IncludeAngle  IncludeStyle = "angle"
	IncludeQuoted IncludeStyle = "quoted"
)

// Emit serializes tu as a compilable (or best-effort, commented) C++
// source file, spelling includes in the given style (spec.md default:
// angle brackets).
func Emit(tu *ir.TranslationUnit, style IncludeStyle) string {
	var b strings.Builder

	open, close := "<", ">"
	if style == IncludeQuoted {
		open, close = `"`, `"`
	}
	for _, inc := range tu.Includes.Keys() {
		fmt.Fprintf(&b, "#include %s%s%s\n", open, inc, close)
	}
	if tu.Includes.Len() > 0 {
		b.WriteString("\n")
	}

	wroteForwardDecl := false
	for _, fk := range tu.Functions.Keys() {
		fn, _ := tu.Functions.Get(fk)
		if fn.Key == ir.EntryPointKey {
			continue
		}
		b.WriteString(signature(fn, false) + ";\n")
		wroteForwardDecl = true
	}
	if wroteForwardDecl {
		b.WriteString("\n")
	}

	keys := tu.Functions.Keys()
	for i, fk := range keys {
		fn, _ := tu.Functions.Get(fk)
		b.WriteString(emitFunction(fn))
		if i != len(keys)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// signature renders fn's C++ signature. withDefaults controls whether
// parameter default values are joined in: the definition carries them,
// the forward declaration omits them (spec.md §4.4, §9 REDESIGN FLAG on
// the default-value-in-name shortcut).
func signature(fn *ir.Function, withDefaults bool) string {
	name := fn.Name
	if fn.Key == ir.EntryPointKey {
		name = "main"
	}
	params := make([]string, 0, fn.Parameters.Len())
	for _, pk := range fn.Parameters.Keys() {
		p, _ := fn.Parameters.Get(pk)
		s := cppType(p.Type.T) + " " + p.Name
		if withDefaults && p.Default != nil {
			s += " = " + p.Default.Literal
		}
		params = append(params, s)
	}
	return fmt.Sprintf("%s %s(%s)", cppType(fn.ReturnType.T), name, strings.Join(params, ", "))
}

// cppType spells t as C++. Most types resolve through ir.CppTypeNames;
// a type that isn't a key there (e.g. argv's literal "char **") is
// already a valid C++ spelling and is used as-is.
func cppType(t ir.Type) string {
	if s, ok := ir.CppTypeNames[t]; ok {
		return s
	}
	return string(t)
}

func emitFunction(fn *ir.Function) string {
	var b strings.Builder
	b.WriteString(signature(fn, true))
	b.WriteString("\n{\n")
	for _, k := range fn.SortedLineKeys() {
		b.WriteString(renderLine(fn.Lines[k]))
		b.WriteString("\n")
	}
	if fn.Key == ir.EntryPointKey {
		b.WriteString(indentStr(1) + "return 0;\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// renderLine implements spec.md §4.4's CodeLine rendering: an optional
// preceding standalone comment line, then the indented code with an
// optional tab-separated trailing comment.
func renderLine(cl *ir.CodeLine) string {
	prefix := indentStr(cl.Indent)
	var b strings.Builder
	if cl.HasPreComment {
		b.WriteString(prefix + "// " + cl.PreComment + "\n")
	}
	b.WriteString(prefix + cl.Code)
	if cl.HasComment {
		b.WriteString("\t//" + cl.Comment)
	}
	return b.String()
}

func indentStr(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("    ", level)
}
