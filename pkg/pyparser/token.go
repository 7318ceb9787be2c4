package pyparser

// kind enumerates lexical token kinds for the restricted Python-subset
// lexer. Indentation is modeled explicitly (INDENT/DEDENT), the way
// Python's own tokenizer exposes block structure to its parser.
type kind int

const (
	tEOF kind = iota
	tNewline
	tIndent
	tDedent
	tName
	tInt
	tFloat
	tString
	tDocstring // triple-quoted string, tracked separately per spec.md §4.1 ExprStmt case (a)
	tOp
	tKeyword
)

// token is one lexical token with its source position. endLine differs
// from line only for a multi-line triple-quoted string.
type token struct {
	kind    kind
	text    string
	line    int
	endLine int
	col     int // 0-indexed column where the token starts
	endCol  int // 0-indexed column where the token ends
}

var keywords = map[string]bool{
	"def": true, "if": true, "elif": true, "else": true, "while": true,
	"break": true, "continue": true, "pass": true, "return": true,
	"import": true, "from": true, "class": true,
	"and": true, "or": true, "not": true, "is": true, "in": true,
	"True": true, "False": true, "None": true,
}
