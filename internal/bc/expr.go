package bc

import (
	"github.com/jcorbin/gobc/internal/code"
)

type exprKind uint8

const (
	exprPlain exprKind = iota
	exprLvalue
	exprAssign
	exprIncDec
)

// exprInfo describes the last operation of a compiled expression, which
// decides what a statement does with its value.
type exprInfo struct {
	kind exprKind
	at   int // offset of the assignment op
}

// Binary operator precedence, loosest first.
const (
	precBool = iota + 1
	precRel
	precAssign
	precShift
	precAdd
	precMul
	precPow
)

type binop struct {
	prec   int
	op     code.Op
	assign bool
}

var binops = map[string]binop{
	"||": {precBool, code.OpOr, false},
	"&&": {precBool, code.OpAnd, false},

	"==": {precRel, code.OpEq, false},
	"<=": {precRel, code.OpLe, false},
	">=": {precRel, code.OpGe, false},
	"!=": {precRel, code.OpNe, false},
	"<":  {precRel, code.OpLt, false},
	">":  {precRel, code.OpGt, false},

	"=":   {precAssign, code.OpAssign, true},
	"+=":  {precAssign, code.OpAdd, true},
	"-=":  {precAssign, code.OpSub, true},
	"*=":  {precAssign, code.OpMul, true},
	"/=":  {precAssign, code.OpDiv, true},
	"%=":  {precAssign, code.OpMod, true},
	"^=":  {precAssign, code.OpPow, true},
	"@=":  {precAssign, code.OpPlaces, true},
	"<<=": {precAssign, code.OpLshift, true},
	">>=": {precAssign, code.OpRshift, true},

	"<<": {precShift, code.OpLshift, false},
	">>": {precShift, code.OpRshift, false},

	"+": {precAdd, code.OpAdd, false},
	"-": {precAdd, code.OpSub, false},

	"*": {precMul, code.OpMul, false},
	"/": {precMul, code.OpDiv, false},
	"%": {precMul, code.OpMod, false},
	"@": {precMul, code.OpPlaces, false},

	"^": {precPow, code.OpPow, false},
}

func (p *parser) expr() (exprInfo, error) { return p.binary(precBool) }

func (p *parser) binary(min int) (exprInfo, error) {
	left, err := p.unary()
	if err != nil {
		return left, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			return left, nil
		}
		bop, ok := binops[tok.text]
		if !ok || bop.prec < min {
			return left, nil
		}
		p.next()

		if bop.assign {
			if left.kind != exprLvalue {
				return left, errorf(tok.line,
					"bad assignment: left side must be scale, ibase, obase, last, var, or array element")
			}
			if _, err := p.binary(bop.prec); err != nil {
				return left, err
			}
			left = exprInfo{kind: exprAssign, at: len(p.fn.Code)}
			p.fn.Emit(code.OpAssign, int(bop.op))
			continue
		}

		next := bop.prec + 1
		if bop.op == code.OpPow {
			next = bop.prec
		}
		if _, err := p.binary(next); err != nil {
			return left, err
		}
		p.fn.Emit(bop.op)
		left = exprInfo{kind: exprPlain}
	}
}

func (p *parser) unary() (exprInfo, error) {
	tok := p.peek()
	if tok.kind != tokOp {
		return p.postfix()
	}
	switch tok.text {
	case "-":
		p.next()
		if _, err := p.unary(); err != nil {
			return exprInfo{}, err
		}
		p.fn.Emit(code.OpNeg)
		return exprInfo{kind: exprPlain}, nil

	case "!":
		p.next()
		if _, err := p.binary(precRel); err != nil {
			return exprInfo{}, err
		}
		p.fn.Emit(code.OpNot)
		return exprInfo{kind: exprPlain}, nil

	case "++", "--":
		p.next()
		info, err := p.primary()
		if err != nil {
			return info, err
		}
		if info.kind != exprLvalue {
			return info, errorf(tok.line, "%v needs a var, array element, or global", tok.text)
		}
		if tok.text == "++" {
			p.fn.Emit(code.OpIncPre)
		} else {
			p.fn.Emit(code.OpDecPre)
		}
		return exprInfo{kind: exprIncDec}, nil
	}
	return exprInfo{}, p.unexpected(tok)
}

func (p *parser) postfix() (exprInfo, error) {
	info, err := p.primary()
	if err != nil || info.kind != exprLvalue {
		return info, err
	}
	switch tok := p.peek(); {
	case tok.is(tokOp, "++"):
		p.next()
		p.fn.Emit(code.OpIncPost)
		return exprInfo{kind: exprIncDec}, nil
	case tok.is(tokOp, "--"):
		p.next()
		p.fn.Emit(code.OpDecPost)
		return exprInfo{kind: exprIncDec}, nil
	}
	return info, nil
}

func (p *parser) primary() (exprInfo, error) {
	plain := exprInfo{kind: exprPlain}
	lvalue := exprInfo{kind: exprLvalue}

	tok := p.next()
	switch tok.kind {
	case tokNumber:
		switch tok.text {
		case "0":
			p.fn.Emit(code.OpZero)
		case "1":
			p.fn.Emit(code.OpOne)
		default:
			p.fn.Emit(code.OpNum, p.fn.AddConst(tok.text))
		}
		return plain, nil

	case tokLParen:
		if _, err := p.expr(); err != nil {
			return plain, err
		}
		return plain, p.expect(tokRParen, "")

	case tokDot:
		p.fn.Emit(code.OpLast)
		return lvalue, nil

	case tokName:
		switch p.peek().kind {
		case tokLParen:
			return plain, p.call(tok)
		case tokLBracket:
			p.next()
			if _, err := p.expr(); err != nil {
				return plain, err
			}
			if err := p.expect(tokRBracket, ""); err != nil {
				return plain, err
			}
			p.fn.Emit(code.OpArrayElem, p.Prog.Arrays.Intern(tok.text))
			return lvalue, nil
		}
		p.fn.Emit(code.OpVar, p.Prog.Vars.Intern(tok.text))
		return lvalue, nil

	case tokKeyword:
		switch tok.text {
		case "ibase":
			p.fn.Emit(code.OpIbase)
			return lvalue, nil
		case "obase":
			p.fn.Emit(code.OpObase)
			return lvalue, nil
		case "last":
			p.fn.Emit(code.OpLast)
			return lvalue, nil

		case "scale":
			if p.peek().kind != tokLParen {
				p.fn.Emit(code.OpScale)
				return lvalue, nil
			}
			return plain, p.builtin(code.OpScaleOf)
		case "sqrt":
			return plain, p.builtin(code.OpSqrt)
		case "abs":
			return plain, p.builtin(code.OpAbs)

		case "length":
			if p.peekAt(1).kind == tokName && p.peekAt(2).kind == tokLBracket && p.peekAt(3).kind == tokRBracket {
				p.next()
				name := p.next()
				p.next()
				p.next()
				p.fn.Emit(code.OpArray, p.Prog.Arrays.Intern(name.text))
				p.fn.Emit(code.OpLength)
				return plain, p.expect(tokRParen, "")
			}
			return plain, p.builtin(code.OpLength)

		case "read":
			if err := p.expect(tokLParen, ""); err != nil {
				return plain, err
			}
			if err := p.expect(tokRParen, ""); err != nil {
				return plain, err
			}
			p.fn.Emit(code.OpRead)
			return plain, nil
		}
	}
	return plain, p.unexpected(tok)
}

// builtin compiles the parenthesized operand of a builtin function.
func (p *parser) builtin(op code.Op) error {
	if err := p.expect(tokLParen, ""); err != nil {
		return err
	}
	if _, err := p.expr(); err != nil {
		return err
	}
	if err := p.expect(tokRParen, ""); err != nil {
		return err
	}
	p.fn.Emit(op)
	return nil
}

func (p *parser) call(name token) error {
	p.next() // (
	nargs := 0
	for p.peek().kind != tokRParen {
		if nargs > 0 {
			if err := p.expect(tokComma, ""); err != nil {
				return err
			}
		}
		if arg := p.peek(); arg.kind == tokName &&
			p.peekAt(1).kind == tokLBracket && p.peekAt(2).kind == tokRBracket {
			p.next()
			p.next()
			p.next()
			p.fn.Emit(code.OpArray, p.Prog.Arrays.Intern(arg.text))
		} else if _, err := p.expr(); err != nil {
			return err
		}
		nargs++
	}
	p.next()
	p.fn.Emit(code.OpCall, nargs, p.Prog.FuncIndex(name.text))
	return nil
}
