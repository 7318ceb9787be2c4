package pyparser

import (
	"strconv"

	"github.com/pycppx/pycpp/pkg/pyast"
)

// parseExpr parses a full expression at the lowest precedence level
// (boolean `or`), descending through Python's standard precedence
// chain down to primaries. This is a classic precedence-climbing parser:
// each level calls the next-tighter level for its operands.
func (p *parser) parseExpr() pyast.Expr {
	return p.parseOr()
}

func (p *parser) parseOr() pyast.Expr {
	left := p.parseAnd()
	if !p.atKeyword("or") {
		return left
	}
	values := []pyast.Expr{left}
	for p.atKeyword("or") {
		p.advance()
		values = append(values, p.parseAnd())
	}
	return pyast.NewBoolOp(pyast.OpOr, values)
}

func (p *parser) parseAnd() pyast.Expr {
	left := p.parseNot()
	if !p.atKeyword("and") {
		return left
	}
	values := []pyast.Expr{left}
	for p.atKeyword("and") {
		p.advance()
		values = append(values, p.parseNot())
	}
	return pyast.NewBoolOp(pyast.OpAnd, values)
}

func (p *parser) parseNot() pyast.Expr {
	if p.atKeyword("not") {
		t := p.advance()
		operand := p.parseNot()
		return pyast.NewUnaryOp(pyast.OpNot, operand, t.line)
	}
	return p.parseComparison()
}

var cmpOps = map[string]pyast.CmpOp{
	"==": pyast.CmpEq, "!=": pyast.CmpNotEq,
	"<": pyast.CmpLt, "<=": pyast.CmpLtE,
	">": pyast.CmpGt, ">=": pyast.CmpGtE,
}

func (p *parser) parseComparison() pyast.Expr {
	left := p.parseBitOr()
	var ops []pyast.CmpOp
	var comparators []pyast.Expr
	for {
		if op, ok := cmpOps[p.cur().text]; ok && p.at(tOp) {
			p.advance()
			ops = append(ops, op)
			comparators = append(comparators, p.parseBitOr())
			continue
		}
		if p.atKeyword("is") {
			p.advance()
			op := pyast.CmpIs
			if p.atKeyword("not") {
				p.advance()
				op = pyast.CmpIsNot
			}
			ops = append(ops, op)
			comparators = append(comparators, p.parseBitOr())
			continue
		}
		if p.atKeyword("in") {
			p.advance()
			ops = append(ops, pyast.CmpIn)
			comparators = append(comparators, p.parseBitOr())
			continue
		}
		if p.atKeyword("not") && p.peekKeyword(1, "in") {
			p.advance()
			p.advance()
			ops = append(ops, pyast.CmpNotIn)
			comparators = append(comparators, p.parseBitOr())
			continue
		}
		break
	}
	if len(ops) == 0 {
		return left
	}
	return pyast.NewCompare(left, ops, comparators)
}

func (p *parser) peekKeyword(offset int, s string) bool {
	i := p.pos + offset
	if i >= len(p.toks) {
		return false
	}
	return p.toks[i].kind == tKeyword && p.toks[i].text == s
}

func (p *parser) parseBitOr() pyast.Expr {
	left := p.parseBitXor()
	for p.atOp("|") {
		p.advance()
		right := p.parseBitXor()
		left = pyast.NewBinOp(left, pyast.OpBitOr, right)
	}
	return left
}

func (p *parser) parseBitXor() pyast.Expr {
	left := p.parseBitAnd()
	for p.atOp("^") {
		p.advance()
		right := p.parseBitAnd()
		left = pyast.NewBinOp(left, pyast.OpBitXor, right)
	}
	return left
}

func (p *parser) parseBitAnd() pyast.Expr {
	left := p.parseShift()
	for p.atOp("&") {
		p.advance()
		right := p.parseShift()
		left = pyast.NewBinOp(left, pyast.OpBitAnd, right)
	}
	return left
}

func (p *parser) parseShift() pyast.Expr {
	left := p.parseAddSub()
	for p.atOp("<<") || p.atOp(">>") {
		op := pyast.OpLShift
		if p.cur().text == ">>" {
			op = pyast.OpRShift
		}
		p.advance()
		right := p.parseAddSub()
		left = pyast.NewBinOp(left, op, right)
	}
	return left
}

func (p *parser) parseAddSub() pyast.Expr {
	left := p.parseTerm()
	for p.atOp("+") || p.atOp("-") {
		op := pyast.OpAdd
		if p.cur().text == "-" {
			op = pyast.OpSub
		}
		p.advance()
		right := p.parseTerm()
		left = pyast.NewBinOp(left, op, right)
	}
	return left
}

func (p *parser) parseTerm() pyast.Expr {
	left := p.parseUnary()
	for p.atOp("*") || p.atOp("/") || p.atOp("//") || p.atOp("%") {
		var op pyast.BinOpKind
		switch p.cur().text {
		case "*":
			op = pyast.OpMult
		case "/":
			op = pyast.OpDiv
		case "//":
			op = pyast.OpFloorDiv
		case "%":
			op = pyast.OpMod
		}
		p.advance()
		right := p.parseUnary()
		left = pyast.NewBinOp(left, op, right)
	}
	return left
}

func (p *parser) parseUnary() pyast.Expr {
	if p.atOp("+") || p.atOp("-") || p.atOp("~") {
		t := p.advance()
		op := pyast.OpUAdd
		switch t.text {
		case "-":
			op = pyast.OpUSub
		case "~":
			op = pyast.OpInvert
		}
		operand := p.parseUnary()
		return pyast.NewUnaryOp(op, operand, t.line)
	}
	return p.parsePower()
}

// parsePower implements `**`'s right-associativity: 2**3**2 == 2**(3**2).
func (p *parser) parsePower() pyast.Expr {
	left := p.parsePostfix()
	if p.atOp("**") {
		p.advance()
		right := p.parseUnary()
		return pyast.NewBinOp(left, pyast.OpPow, right)
	}
	return left
}

func (p *parser) parsePostfix() pyast.Expr {
	expr := p.parseAtom()
	for {
		switch {
		case p.atOp("("):
			p.advance()
			var args []pyast.Expr
			for !p.atOp(")") {
				args = append(args, p.parseExpr())
				if p.atOp(",") {
					p.advance()
				}
			}
			close := p.advance() // ')'
			expr = pyast.NewCall(expr, args, close.line, close.endCol)
		case p.atOp("["):
			p.advance()
			isSlice := false
			var idx pyast.Expr
			if p.atOp(":") {
				isSlice = true
			} else {
				idx = p.parseExpr()
			}
			if p.atOp(":") {
				isSlice = true
				p.advance()
				if !p.atOp("]") {
					p.parseExpr()
				}
			}
			close := p.advance() // ']'
			expr = pyast.NewSubscript(expr, idx, isSlice, close.line, close.endCol)
		default:
			return expr
		}
	}
}

func (p *parser) parseAtom() pyast.Expr {
	t := p.cur()
	switch {
	case p.atOp("("):
		p.advance()
		inner := p.parseExpr()
		p.expectOp(")")
		return inner
	case p.atOp("["):
		return p.parseListLiteral()
	case t.kind == tInt:
		p.advance()
		return pyast.NewConstant(pyast.ConstInt, t.text, t.line, t.endLine, t.endCol)
	case t.kind == tFloat:
		p.advance()
		return pyast.NewConstant(pyast.ConstFloat, t.text, t.line, t.endLine, t.endCol)
	case t.kind == tString || t.kind == tDocstring:
		p.advance()
		return pyast.NewConstant(pyast.ConstString, t.text, t.line, t.endLine, t.endCol)
	case t.kind == tKeyword && t.text == "True":
		p.advance()
		return pyast.NewConstant(pyast.ConstBool, t.text, t.line, t.endLine, t.endCol)
	case t.kind == tKeyword && t.text == "False":
		p.advance()
		return pyast.NewConstant(pyast.ConstBool, t.text, t.line, t.endLine, t.endCol)
	case t.kind == tKeyword && t.text == "None":
		p.advance()
		return pyast.NewConstant(pyast.ConstNone, t.text, t.line, t.endLine, t.endCol)
	case t.kind == tName:
		p.advance()
		return pyast.NewName(t.text, t.line, t.endCol)
	default:
		panic("pyparser: unexpected token " + strconv.Quote(t.text) + " at line " + strconv.Itoa(t.line))
	}
}

func (p *parser) parseListLiteral() pyast.Expr {
	start := p.advance() // '['
	var elts []pyast.Expr
	for !p.atOp("]") {
		elts = append(elts, p.parseExpr())
		if p.atOp(",") {
			p.advance()
		}
	}
	close := p.advance() // ']'
	return pyast.NewList(elts, start.line, close.line, close.endCol)
}
