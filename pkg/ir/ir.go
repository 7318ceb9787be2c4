// Package ir is the target-side intermediate representation pycpp's
// analyzer builds: a TranslationUnit holding C++ functions, variables,
// vectors, and source-mapped lines of generated code. The Type Finalizer,
// Comment Reinjector, and Emitter all consume this IR; only the analyzer
// writes it.
package ir

// EntryPointKey is the synthetic function key for the aggregated top-level
// statements (invariant 1). It is renamed to "main" only at emit time.
const EntryPointKey = "0"

// Type is the high-level C++ type pycpp infers for a value. It is distinct
// from the C++ spelling (CppTypeNames) because precedence and widening
// rules are expressed over this small closed set.
type Type string

const (
	TypeInt   Type = "int"
	TypeFloat Type = "float"
	TypeStr   Type = "str"
	TypeBool  Type = "bool"
	TypeNone  Type = "None"
	TypeAuto  Type = "auto"
	TypeVoid  Type = "void"
	TypeList  Type = "List"
)

// typePrecedence assigns a total order over known types; the smaller rank
// wins a conflict (spec.md §4.1 "Type precedence"). Anything absent from
// this table is treated as TypeAuto by Precedence.
var typePrecedence = map[Type]int{
	TypeStr:   0,
	TypeFloat: 1,
	TypeInt:   2,
	TypeBool:  3,
	TypeAuto:  8,
	TypeNone:  9,
	TypeVoid:  9,
}

// rank returns t's precedence rank, degrading unknown types to auto's
// rank (spec.md invariant 5: "unknown types collapse to auto").
func rank(t Type) int {
	if r, ok := typePrecedence[t]; ok {
		return r
	}
	return typePrecedence[TypeAuto]
}

// Precedence resolves the winning type between two operand types. It is
// idempotent, and commutative for types of distinct rank; when two
// different types share a rank (None and void, or an unknown type and
// auto), the first argument wins.
func Precedence(a, b Type) Type {
	ra, rb := rank(a), rank(b)
	if ra <= rb {
		return a
	}
	return b
}

// CppTypeNames maps a Type to its C++ spelling, used by the Type
// Finalizer for variable declarations and by the Emitter for signatures.
var CppTypeNames = map[Type]string{
	TypeInt:   "int",
	TypeFloat: "double",
	TypeStr:   "std::string",
	TypeBool:  "bool",
	TypeNone:  "void",
	TypeVoid:  "void",
	TypeAuto:  "auto",
}

// CastTypeNames lists the type-cast-callable names recognized by Call
// resolution (spec.md §4.1, "a type-cast name: any key of the C++ type
// map other than None/void/auto/char **"). "str" is special-cased to
// std::to_string rather than a C-style cast.
var CastTypeNames = map[string]Type{
	"int":   TypeInt,
	"float": TypeFloat,
	"bool":  TypeBool,
	"str":   TypeStr,
}

// TypeCell is the shared, mutable single-element type holder described in
// spec.md §3 and §9: the analyzer stores the same *TypeCell on a Variable
// (or a Function's return type) and on every expression result that
// refers to it, so a later refinement (e.g. a call-site argument type)
// becomes visible to every earlier use without rewriting them.
type TypeCell struct {
	T Type
}

// NewTypeCell allocates a fresh cell seeded with t.
func NewTypeCell(t Type) *TypeCell { return &TypeCell{T: t} }

// Refine merges v into the cell via Precedence, keeping the cell identity
// (callers holding the pointer observe the refinement immediately).
func (c *TypeCell) Refine(v Type) {
	c.T = Precedence(c.T, v)
}

// PrecedenceCell picks whichever of a/b has type precedence and returns
// that cell itself, not a copy of its value — mirroring spec.md §9's
// "carry the cell" requirement for a Function's return-type cell: when a
// `return` statement's value cell outranks (or ties) the function's
// current return-type cell, the function should adopt that cell's
// identity so a later refinement of the returned variable/parameter
// remains visible as the function's return type without re-analyzing the
// return statement.
func PrecedenceCell(a, b *TypeCell) *TypeCell {
	if Precedence(a.T, b.T) == a.T {
		return a
	}
	return b
}

// DefaultValue is a parameter's literal default, kept as its own field
// (REDESIGN FLAG in spec.md §9: "the clean design stores defaults as a
// separate field... joins them only at signature emission, and omits
// them at forward declaration") rather than embedded in the parameter
// name string.
type DefaultValue struct {
	Type    Type
	Literal string // already C++-formatted (e.g. quoted for strings)
}

// Variable is a named parameter or local. Exactly one of a Function's
// Parameters or Locals maps holds any given name (invariant 3).
type Variable struct {
	Name    string
	DeclLine int // -1 for parameters (spec.md §3 "Key attributes")
	Type    *TypeCell
	Default *DefaultValue // non-nil only for parameters with a default
}

// Vector is a std::vector<T> local created from a list-literal assignment.
// A name resolved as a Vector must not also appear in Locals (invariant 4).
type Vector struct {
	Name     string
	ElemType Type
	Elements []string // already-formatted element expressions
}

// CodeLine is one emitted source line, keyed in its owning Function by
// the 1-based original source line number.
type CodeLine struct {
	StartLine int
	EndLine   int
	EndCol    int // column where the translated line ends in raw source
	Indent    int
	Code      string
	Comment   string // inline trailing comment, without leading '#'/'//'
	HasComment bool
	PreComment string // standalone comment line(s) preceding this one
	HasPreComment bool
}

// OrderedMap is a minimal insertion-ordered string-keyed map, used
// wherever spec.md requires insertion-ordered iteration (functions,
// includes, parameters) and plain map iteration would be nondeterministic.
type OrderedMap[V any] struct {
	index map[string]int
	keys  []string
	vals  []V
}

// NewOrderedMap constructs an empty ordered map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{index: make(map[string]int)}
}

// Set inserts or overwrites key's value, preserving first-insertion order.
func (m *OrderedMap[V]) Set(key string, v V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Get looks up key, reporting whether it was present.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if i, ok := m.index[key]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Keys returns keys in insertion order. Callers must not mutate it.
func (m *OrderedMap[V]) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int { return len(m.keys) }

// Function is a single C++ function: the entry point (key "0") or a
// user-defined function registered during the analyzer's pre-pass.
type Function struct {
	Key        string
	Name       string
	StartLine  int
	EndLine    int
	Parameters *OrderedMap[*Variable]
	Locals     *OrderedMap[*Variable]
	Vectors    *OrderedMap[*Vector]
	Lines      map[int]*CodeLine
	ReturnType *TypeCell
}

// NewFunction allocates a Function with empty ordered collections.
func NewFunction(key, name string, startLine, endLine int, returnType *TypeCell) *Function {
	return &Function{
		Key:        key,
		Name:       name,
		StartLine:  startLine,
		EndLine:    endLine,
		Parameters: NewOrderedMap[*Variable](),
		Locals:     NewOrderedMap[*Variable](),
		Vectors:    NewOrderedMap[*Vector](),
		Lines:      make(map[int]*CodeLine),
		ReturnType: returnType,
	}
}

// SortedLineKeys returns this function's CodeLine keys in ascending order
// (invariant 2).
func (f *Function) SortedLineKeys() []int {
	keys := make([]int, 0, len(f.Lines))
	for k := range f.Lines {
		keys = append(keys, k)
	}
	// insertion sort: function bodies are small, and this keeps the
	// package free of an unnecessary sort.Slice import per call site.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// ResolveName looks up name as a parameter, then a local (spec.md §4.1
// Name dispatch: "Look up in parameters, then locals").
func (f *Function) ResolveName(name string) (*Variable, bool) {
	if v, ok := f.Parameters.Get(name); ok {
		return v, true
	}
	if v, ok := f.Locals.Get(name); ok {
		return v, true
	}
	return nil, false
}

// TranslationUnit is one output C++ file: its includes plus an
// insertion-ordered function table whose first entry is always the
// synthetic entry point (invariant 1).
type TranslationUnit struct {
	Includes  *OrderedMap[struct{}]
	Functions *OrderedMap[*Function]
}

// NewTranslationUnit seeds the entry-point function per invariant 1:
// key "0", return type int, parameters (argc int, argv char **).
func NewTranslationUnit() *TranslationUnit {
	tu := &TranslationUnit{
		Includes:  NewOrderedMap[struct{}](),
		Functions: NewOrderedMap[*Function](),
	}
	entry := NewFunction(EntryPointKey, "main", -1, -1, NewTypeCell(TypeInt))
	entry.Parameters.Set("argc", &Variable{Name: "argc", DeclLine: -1, Type: NewTypeCell(TypeInt)})
	entry.Parameters.Set("argv", &Variable{Name: "argv", DeclLine: -1, Type: &TypeCell{T: "char **"}})
	tu.Functions.Set(EntryPointKey, entry)
	return tu
}

// AddInclude registers name in the deduplicated, insertion-ordered
// include set.
func (tu *TranslationUnit) AddInclude(name string) {
	if !tu.Includes.Has(name) {
		tu.Includes.Set(name, struct{}{})
	}
}

// EntryPoint returns the synthetic entry-point function.
func (tu *TranslationUnit) EntryPoint() *Function {
	f, _ := tu.Functions.Get(EntryPointKey)
	return f
}
