package pyparser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer turns raw source lines into a token stream, tracking indentation
// the way Python's tokenizer does: a rising indent emits tIndent, a
// falling indent emits one tDedent per level unwound, and any statement
// break emits tNewline. Lines that are blank or comment-only produce no
// tokens at all, mirroring CPython's tokenizer.
type lexer struct {
	lines   []string
	lineNo  int // 0-indexed into lines
	indents []int
	toks    []token
	parenDepth int // inside (), [] — newlines are suppressed, as in Python
}

// lex tokenizes the full source, returning the flat token stream
// including a final tEOF.
func lex(src string) ([]token, error) {
	raw := splitLines(src)
	l := &lexer{lines: raw, indents: []int{0}}
	for l.lineNo < len(l.lines) {
		if err := l.lexLine(); err != nil {
			return nil, err
		}
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(tDedent, "", l.lineNo+1, 0, 0)
	}
	l.emit(tEOF, "", l.lineNo+1, 0, 0)
	return l.toks, nil
}

// splitLines splits on \n, tolerating a trailing \r from CRLF input and a
// missing final newline.
func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (l *lexer) emit(k kind, text string, line, col, endCol int) {
	l.toks = append(l.toks, token{kind: k, text: text, line: line, endLine: line, col: col, endCol: endCol})
}

func (l *lexer) lexLine() error {
	line := l.lines[l.lineNo]
	lineNum := l.lineNo + 1

	// Blank / comment-only lines never change indentation and emit
	// nothing: they're reattached later by pkg/reinjector from raw text.
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] == '#' {
		l.lineNo++
		return nil
	}

	if l.parenDepth == 0 {
		indent := leadingWidth(line)
		cur := l.indents[len(l.indents)-1]
		switch {
		case indent > cur:
			l.indents = append(l.indents, indent)
			l.emit(tIndent, "", lineNum, 0, indent)
		case indent < cur:
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > indent {
				l.indents = l.indents[:len(l.indents)-1]
				l.emit(tDedent, "", lineNum, 0, 0)
			}
		}
	}

	col := leadingWidth(line)
	for col < len(line) {
		c := line[col]
		switch {
		case c == ' ' || c == '\t':
			col++
		case c == '#':
			col = len(line)
		case isIdentStart(rune(c)):
			start := col
			for col < len(line) && isIdentPart(rune(line[col])) {
				col++
			}
			text := line[start:col]
			k := tName
			if keywords[text] {
				k = tKeyword
			}
			l.emit(k, text, lineNum, start, col)
		case unicode.IsDigit(rune(c)):
			start := col
			isFloat := false
			for col < len(line) && (unicode.IsDigit(rune(line[col])) || line[col] == '.') {
				if line[col] == '.' {
					isFloat = true
				}
				col++
			}
			k := tInt
			if isFloat {
				k = tFloat
			}
			l.emit(k, line[start:col], lineNum, start, col)
		case c == '"' || c == '\'':
			tokStr, endLineNum, newCol, isTriple, err := l.readString(line, col, lineNum)
			if err != nil {
				return err
			}
			k := tString
			if isTriple {
				k = tDocstring
			}
			l.emit(k, tokStr, lineNum, col, newCol)
			l.toks[len(l.toks)-1].endLine = endLineNum
			if endLineNum != lineNum {
				// The triple-quoted string consumed additional raw lines;
				// resume scanning on the one it closed on.
				l.lineNo = endLineNum - 1
				line = l.lines[l.lineNo]
				lineNum = endLineNum
			}
			col = newCol
		case c == '(' || c == '[':
			l.parenDepth++
			l.emit(tOp, string(c), lineNum, col, col+1)
			col++
		case c == ')' || c == ']':
			if l.parenDepth > 0 {
				l.parenDepth--
			}
			l.emit(tOp, string(c), lineNum, col, col+1)
			col++
		default:
			opText, newCol := l.readOperator(line, col)
			l.emit(tOp, opText, lineNum, col, newCol)
			col = newCol
		}
	}

	if l.parenDepth == 0 {
		l.emit(tNewline, "", lineNum, len(line), len(line))
	}
	l.lineNo++
	return nil
}

// readString consumes a string literal starting at col, handling the
// triple-quoted form used for docstrings (spec.md §4.1 ExprStmt case a).
// A triple-quoted string may span multiple raw lines (a common docstring
// shape); when its closing delimiter isn't on the opening line, this scans
// forward through l.lines for it and reports the line it closed on, so the
// caller can resume lexing there.
func (l *lexer) readString(line string, col, lineNum int) (string, int, int, bool, error) {
	quote := line[col]
	triple := strings.HasPrefix(line[col:], strings.Repeat(string(quote), 3))
	delim := string(quote)
	if triple {
		delim = strings.Repeat(string(quote), 3)
	}
	start := col + len(delim)

	if end := strings.Index(line[start:], delim); end >= 0 {
		content := line[start : start+end]
		newCol := start + end + len(delim)
		return content, lineNum, newCol, triple, nil
	}
	if !triple {
		return "", 0, 0, false, fmt.Errorf("line %d: unterminated string literal", lineNum)
	}

	var b strings.Builder
	b.WriteString(line[start:])
	for i := lineNum; i < len(l.lines); i++ { // i is 0-indexed into l.lines, holding source line i+1
		next := l.lines[i]
		if end := strings.Index(next, delim); end >= 0 {
			b.WriteString("\n")
			b.WriteString(next[:end])
			return b.String(), i + 1, end + len(delim), true, nil
		}
		b.WriteString("\n")
		b.WriteString(next)
	}
	return "", 0, 0, false, fmt.Errorf("line %d: unterminated triple-quoted string", lineNum)
}

var multiCharOps = []string{
	"//", "**", "<<", ">>", "<=", ">=", "==", "!=",
}

func (l *lexer) readOperator(line string, col int) (string, int) {
	for _, op := range multiCharOps {
		if strings.HasPrefix(line[col:], op) {
			return op, col + len(op)
		}
	}
	r, size := utf8.DecodeRuneInString(line[col:])
	return string(r), col + size
}

func leadingWidth(line string) int {
	n := 0
	for _, c := range line {
		if c == ' ' {
			n++
		} else if c == '\t' {
			n += 8 - (n % 8)
		} else {
			break
		}
	}
	return n
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
