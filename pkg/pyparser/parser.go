// Package pyparser is the concrete implementation of spec.md §6's
// "external parser": a hand-written lexer plus recursive-descent /
// Pratt parser that turns the restricted Python-subset source text into
// the pkg/pyast node set pycpp's analyzer walks.
package pyparser

import (
	"fmt"

	"github.com/pycppx/pycpp/pkg/pyast"
)

// Parse tokenizes and parses src, returning the top-level statement list.
func Parse(src string) ([]pyast.Stmt, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseBlock(), nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token     { return p.toks[p.pos] }
func (p *parser) at(k kind) bool { return p.cur().kind == k }
func (p *parser) atOp(s string) bool {
	return p.cur().kind == tOp && p.cur().text == s
}
func (p *parser) atKeyword(s string) bool {
	return p.cur().kind == tKeyword && p.cur().text == s
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// skipNewlines consumes any run of blank statement terminators, which can
// appear between top-level statements after blank/comment-only lines.
func (p *parser) skipNewlines() {
	for p.at(tNewline) {
		p.advance()
	}
}

// parseBlock parses statements until EOF or a DEDENT, the same grammar
// used for both the top-level module body and a function/if/while body.
func (p *parser) parseBlock() []pyast.Stmt {
	var stmts []pyast.Stmt
	p.skipNewlines()
	for !p.at(tEOF) && !p.at(tDedent) {
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	return stmts
}

// parseSuite parses an indented block following a ':' — a def/if/elif/
// else/while body.
func (p *parser) parseSuite() []pyast.Stmt {
	// The lexer ends the header line with tNewline before the block's tIndent.
	if p.at(tNewline) {
		p.advance()
	}
	if p.at(tIndent) {
		p.advance()
		body := p.parseBlock()
		if p.at(tDedent) {
			p.advance()
		}
		return body
	}
	// Single-line suite: `if x: return y`
	s := p.parseSimpleStmt()
	if s == nil {
		return nil
	}
	return []pyast.Stmt{s}
}

func (p *parser) parseStmt() pyast.Stmt {
	switch {
	case p.atKeyword("def"):
		return p.parseFunctionDef()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("while"):
		return p.parseWhile()
	case p.atKeyword("class"):
		return p.parseClassDef()
	case p.atKeyword("import"):
		return p.parseImport()
	case p.atKeyword("from"):
		return p.parseImportFrom()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *parser) parseSimpleStmt() pyast.Stmt {
	switch {
	case p.atKeyword("break"):
		t := p.advance()
		p.endSimple()
		return pyast.NewBreak(t.line)
	case p.atKeyword("continue"):
		t := p.advance()
		p.endSimple()
		return pyast.NewContinue(t.line)
	case p.atKeyword("pass"):
		t := p.advance()
		p.endSimple()
		return pyast.NewPass(t.line)
	case p.atKeyword("return"):
		return p.parseReturn()
	default:
		return p.parseExprOrAssign()
	}
}

// endSimple consumes the statement-terminating newline, if present
// (absent at end of file or before a DEDENT on a single-line suite).
func (p *parser) endSimple() {
	if p.at(tNewline) {
		p.advance()
	}
}

func (p *parser) parseFunctionDef() pyast.Stmt {
	start := p.advance() // 'def'
	name := p.advance().text
	p.expectOp("(")
	var args []pyast.Arg
	vararg, kwarg, kwOnly, posOnly := false, false, false, false
	seenStar := false
	for !p.atOp(")") {
		if p.atOp("*") {
			p.advance()
			if p.at(tName) {
				vararg = true
				p.advance()
			}
			seenStar = true
			if p.atOp(",") {
				p.advance()
			}
			continue
		}
		if p.atOp("**") {
			p.advance()
			kwarg = true
			p.advance()
			if p.atOp(",") {
				p.advance()
			}
			continue
		}
		if p.atOp("/") {
			posOnly = true
			p.advance()
			if p.atOp(",") {
				p.advance()
			}
			continue
		}
		if seenStar {
			kwOnly = true
		}
		argTok := p.advance()
		arg := pyast.Arg{Position: pyast.Pos(argTok.line, argTok.endCol), Name: argTok.text}
		if p.atOp("=") {
			p.advance()
			arg.Default = p.parseExpr()
		}
		args = append(args, arg)
		if p.atOp(",") {
			p.advance()
		}
	}
	p.expectOp(")")
	p.expectOp(":")
	endLine := p.cur().line
	body := p.parseSuite()
	if len(body) > 0 {
		endLine = body[len(body)-1].EndLine()
	}
	return pyast.NewFunctionDef(name, args, vararg, kwarg, kwOnly, posOnly, body, start.line, endLine)
}

func (p *parser) parseIf() pyast.Stmt {
	start := p.advance() // 'if'
	test := p.parseExpr()
	p.expectOp(":")
	body := p.parseSuite()
	var orelse []pyast.Stmt
	if p.atKeyword("elif") {
		orelse = []pyast.Stmt{p.parseElif()}
	} else if p.atKeyword("else") {
		p.advance()
		p.expectOp(":")
		orelse = p.parseSuite()
	}
	end := start.line
	if len(body) > 0 {
		end = body[len(body)-1].EndLine()
	}
	if len(orelse) > 0 {
		end = orelse[len(orelse)-1].EndLine()
	}
	return pyast.NewIf(test, body, orelse, start.line, end)
}

// parseElif parses `elif test: body [elif|else ...]` as a single-element
// Orelse chain, matching spec.md's "orelse is exactly one If" contract.
func (p *parser) parseElif() pyast.Stmt {
	start := p.advance() // 'elif'
	test := p.parseExpr()
	p.expectOp(":")
	body := p.parseSuite()
	var orelse []pyast.Stmt
	if p.atKeyword("elif") {
		orelse = []pyast.Stmt{p.parseElif()}
	} else if p.atKeyword("else") {
		p.advance()
		p.expectOp(":")
		orelse = p.parseSuite()
	}
	end := start.line
	if len(body) > 0 {
		end = body[len(body)-1].EndLine()
	}
	if len(orelse) > 0 {
		end = orelse[len(orelse)-1].EndLine()
	}
	return pyast.NewIf(test, body, orelse, start.line, end)
}

func (p *parser) parseWhile() pyast.Stmt {
	start := p.advance() // 'while'
	test := p.parseExpr()
	p.expectOp(":")
	body := p.parseSuite()
	end := start.line
	if len(body) > 0 {
		end = body[len(body)-1].EndLine()
	}
	return pyast.NewWhile(test, body, start.line, end)
}

func (p *parser) parseReturn() pyast.Stmt {
	start := p.advance() // 'return'
	var val pyast.Expr
	if !p.at(tNewline) && !p.at(tEOF) && !p.at(tDedent) {
		val = p.parseExpr()
	}
	p.endSimple()
	end := start.line
	if val != nil {
		end = val.EndLine()
	}
	return pyast.NewReturn(val, start.line, end)
}

func (p *parser) parseClassDef() pyast.Stmt {
	start := p.advance() // 'class'
	name := p.advance().text
	if p.atOp("(") {
		for !p.atOp(")") {
			p.advance()
		}
		p.advance()
	}
	p.expectOp(":")
	body := p.parseSuite()
	end := start.line
	if len(body) > 0 {
		end = body[len(body)-1].EndLine()
	}
	return pyast.NewClassDef(name, body, start.line, end)
}

func (p *parser) parseImport() pyast.Stmt {
	start := p.advance() // 'import'
	var names []string
	for {
		names = append(names, p.advance().text)
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	p.endSimple()
	return pyast.NewImport(names, start.line)
}

func (p *parser) parseImportFrom() pyast.Stmt {
	start := p.advance() // 'from'
	module := p.advance().text
	if p.atKeyword("import") {
		p.advance()
	}
	var names []string
	for {
		names = append(names, p.advance().text)
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	p.endSimple()
	return pyast.NewImportFrom(module, names, start.line)
}

func (p *parser) parseExprOrAssign() pyast.Stmt {
	start := p.cur()
	first := p.parseExpr()
	var targets []pyast.Expr
	for p.atOp("=") {
		targets = append(targets, first)
		p.advance()
		first = p.parseExpr()
	}
	if len(targets) > 0 {
		p.endSimple()
		return pyast.NewAssign(targets, first, start.line, first.EndLine())
	}
	p.endSimple()
	return pyast.NewExprStmt(first, start.line, first.EndLine())
}

func (p *parser) expectOp(s string) {
	if p.atOp(s) {
		p.advance()
		return
	}
	panic(fmt.Sprintf("pyparser: expected %q at line %d, got %q", s, p.cur().line, p.cur().text))
}
