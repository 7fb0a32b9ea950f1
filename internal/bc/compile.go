package bc

import (
	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/code"
)

// Compiler compiles bc source text into a program: top level statements are
// appended to the main function, and definitions replace named functions.
type Compiler struct {
	Prog *code.Program

	// Limits is the text printed by the limits keyword.
	Limits string
}

// Compile compiles src, appending its top level code to the main function.
// On any error other than ErrQuit nothing is kept; ErrIncomplete means that
// src may be retried once more input has been appended to it.
func (c *Compiler) Compile(src string) error {
	toks, err := lex(src)
	if err != nil {
		return err
	}
	main := c.Prog.Main()
	mark := main.Mark()
	p := parser{Compiler: c, toks: toks, fn: main}
	err = p.program()
	if err != nil && !errors.Is(err, ErrQuit) {
		main.Rewind(mark)
		return err
	}
	for _, def := range p.defs {
		c.Prog.Define(def)
	}
	return err
}

// CompileRead compiles src as the body of a read() call into fn: a single
// expression whose value is returned.
func (c *Compiler) CompileRead(fn *code.Func, src string) error {
	fn.Reset()
	toks, err := lex(src)
	if err == nil {
		p := parser{Compiler: c, toks: toks, fn: fn}
		p.skipNewlines()
		if _, err = p.expr(); err == nil {
			p.skipNewlines()
			if tok := p.peek(); tok.kind != tokEOF {
				err = p.unexpected(tok)
			}
		}
	}
	if err != nil {
		fn.Reset()
		return errors.Wrap(err, "bad read() expression")
	}
	fn.Emit(code.OpReturn)
	return nil
}

type loop struct{ cont, brk int }

type parser struct {
	*Compiler
	toks []token
	pos  int

	fn    *code.Func
	inDef bool
	loops []loop
	defs  []*code.Func

	endedBlock bool
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline {
		p.next()
	}
}

func (p *parser) unexpected(tok token) error {
	if tok.kind == tokEOF {
		return ErrIncomplete
	}
	return errorf(tok.line, "unexpected %v", tok)
}

func (p *parser) expect(kind tokenKind, text string) error {
	if tok := p.peek(); tok.kind != kind || (text != "" && tok.text != text) {
		return p.unexpected(tok)
	}
	p.next()
	return nil
}

func (p *parser) program() error {
	for {
		switch tok := p.peek(); {
		case tok.kind == tokEOF:
			return nil
		case tok.kind == tokNewline, tok.kind == tokSemi:
			p.next()
		case tok.is(tokKeyword, "define"):
			if err := p.define(); err != nil {
				return err
			}
		default:
			// a quit nested in a statement leaves it half compiled
			mark := p.fn.Mark()
			if err := p.statement(); err != nil {
				if errors.Is(err, ErrQuit) {
					p.fn.Rewind(mark)
				}
				return err
			}
			if err := p.terminator(false); err != nil {
				return err
			}
		}
	}
}

// terminator checks that a statement is properly ended, consuming any
// separator that ends it.
func (p *parser) terminator(inBlock bool) error {
	switch tok := p.peek(); {
	case tok.kind == tokNewline, tok.kind == tokSemi:
		p.next()
		return nil
	case tok.kind == tokEOF:
		return nil
	case tok.kind == tokRBrace && inBlock:
		return nil
	case p.endedBlock:
		return nil
	default:
		return p.unexpected(tok)
	}
}

func (p *parser) block() error {
	if err := p.expect(tokLBrace, ""); err != nil {
		return err
	}
	return p.blockRest()
}

// blockRest compiles statements up to the closing brace.
func (p *parser) blockRest() error {
	for {
		switch tok := p.peek(); {
		case tok.kind == tokEOF:
			return ErrIncomplete
		case tok.kind == tokNewline, tok.kind == tokSemi:
			p.next()
		case tok.kind == tokRBrace:
			p.next()
			p.endedBlock = true
			return nil
		default:
			if err := p.statement(); err != nil {
				return err
			}
			if err := p.terminator(true); err != nil {
				return err
			}
		}
	}
}

func (p *parser) statement() error {
	p.endedBlock = false
	tok := p.peek()
	switch tok.kind {
	case tokLBrace:
		return p.block()

	case tokString:
		p.next()
		p.fn.Emit(code.OpStr, p.fn.AddStr(tok.text))
		p.fn.Emit(code.OpPrintStr)
		return nil

	case tokKeyword:
		switch tok.text {
		case "if":
			return p.ifStatement()
		case "while":
			return p.whileStatement()
		case "for":
			return p.forStatement()
		case "print":
			return p.printStatement()
		case "return":
			return p.returnStatement()

		case "break", "continue":
			p.next()
			if len(p.loops) == 0 {
				return errorf(tok.line, "%v outside of a loop", tok.text)
			}
			lp := p.loops[len(p.loops)-1]
			if tok.text == "break" {
				p.fn.Emit(code.OpJump, lp.brk)
			} else {
				p.fn.Emit(code.OpJump, lp.cont)
			}
			return nil

		case "quit":
			p.next()
			return ErrQuit

		case "halt":
			p.next()
			p.fn.Emit(code.OpHalt)
			return nil

		case "limits":
			p.next()
			p.fn.Emit(code.OpStr, p.fn.AddStr(p.Limits))
			p.fn.Emit(code.OpPrintStr)
			return nil

		case "define":
			return errorf(tok.line, "define inside of a block")
		case "auto":
			return errorf(tok.line, "auto outside the start of a function")
		case "else":
			return errorf(tok.line, "else without if")
		}
	}

	info, err := p.expr()
	if err != nil {
		return err
	}
	switch info.kind {
	case exprAssign:
		p.discard(info)
	case exprIncDec:
		p.fn.Emit(code.OpPop)
	default:
		p.fn.Emit(code.OpPrint)
		p.fn.Emit(code.OpPop)
	}
	return nil
}

// discard drops the value of an expression compiled for its effect.
func (p *parser) discard(info exprInfo) {
	if info.kind == exprAssign {
		p.fn.Code[info.at] = byte(code.OpAssignNoVal)
	} else {
		p.fn.Emit(code.OpPop)
	}
}

// body compiles the statement governed by an if, while, or for.
func (p *parser) body() error {
	p.skipNewlines()
	switch tok := p.peek(); tok.kind {
	case tokEOF:
		return ErrIncomplete
	case tokSemi:
		return nil
	}
	return p.statement()
}

func (p *parser) condition() error {
	if err := p.expect(tokLParen, ""); err != nil {
		return err
	}
	if _, err := p.expr(); err != nil {
		return err
	}
	return p.expect(tokRParen, "")
}

func (p *parser) ifStatement() error {
	p.next()
	if err := p.condition(); err != nil {
		return err
	}
	elseLabel := p.fn.NewLabel()
	p.fn.Emit(code.OpJumpZero, elseLabel)
	if err := p.body(); err != nil {
		return err
	}

	save := p.pos
	for tok := p.peek(); tok.kind == tokNewline || tok.kind == tokSemi; tok = p.peek() {
		p.next()
	}
	if !p.peek().is(tokKeyword, "else") {
		p.pos = save
		p.fn.SetLabel(elseLabel)
		return nil
	}
	p.next()

	endLabel := p.fn.NewLabel()
	p.fn.Emit(code.OpJump, endLabel)
	p.fn.SetLabel(elseLabel)
	if err := p.body(); err != nil {
		return err
	}
	p.fn.SetLabel(endLabel)
	return nil
}

func (p *parser) whileStatement() error {
	p.next()
	lp := loop{cont: p.fn.NewLabel(), brk: p.fn.NewLabel()}
	p.fn.SetLabel(lp.cont)
	if err := p.condition(); err != nil {
		return err
	}
	p.fn.Emit(code.OpJumpZero, lp.brk)
	if err := p.loopBody(lp); err != nil {
		return err
	}
	p.fn.Emit(code.OpJump, lp.cont)
	p.fn.SetLabel(lp.brk)
	return nil
}

func (p *parser) forStatement() error {
	p.next()
	if err := p.expect(tokLParen, ""); err != nil {
		return err
	}

	if p.peek().kind != tokSemi {
		info, err := p.expr()
		if err != nil {
			return err
		}
		p.discard(info)
	}
	if err := p.expect(tokSemi, ""); err != nil {
		return err
	}

	cond := p.fn.NewLabel()
	lp := loop{cont: p.fn.NewLabel(), brk: p.fn.NewLabel()}
	body := p.fn.NewLabel()

	p.fn.SetLabel(cond)
	if p.peek().kind == tokSemi {
		p.fn.Emit(code.OpOne)
	} else if _, err := p.expr(); err != nil {
		return err
	}
	if err := p.expect(tokSemi, ""); err != nil {
		return err
	}
	p.fn.Emit(code.OpJumpZero, lp.brk)
	p.fn.Emit(code.OpJump, body)

	p.fn.SetLabel(lp.cont)
	if p.peek().kind != tokRParen {
		info, err := p.expr()
		if err != nil {
			return err
		}
		p.discard(info)
	}
	if err := p.expect(tokRParen, ""); err != nil {
		return err
	}
	p.fn.Emit(code.OpJump, cond)

	p.fn.SetLabel(body)
	if err := p.loopBody(lp); err != nil {
		return err
	}
	p.fn.Emit(code.OpJump, lp.cont)
	p.fn.SetLabel(lp.brk)
	return nil
}

func (p *parser) loopBody(lp loop) error {
	p.loops = append(p.loops, lp)
	defer func() { p.loops = p.loops[:len(p.loops)-1] }()
	return p.body()
}

func (p *parser) printStatement() error {
	kw := p.next()
	for i := 0; ; i++ {
		if tok := p.peek(); tok.kind == tokString {
			p.next()
			p.fn.Emit(code.OpStr, p.fn.AddStr(tok.text))
		} else if i == 0 && (tok.kind == tokNewline || tok.kind == tokSemi || tok.kind == tokEOF) {
			return errorf(kw.line, "empty print statement")
		} else if _, err := p.expr(); err != nil {
			return err
		}
		p.fn.Emit(code.OpPrintPop)
		if p.peek().kind != tokComma {
			return nil
		}
		p.next()
	}
}

func (p *parser) returnStatement() error {
	kw := p.next()
	if !p.inDef {
		return errorf(kw.line, "return outside of a function")
	}
	switch p.peek().kind {
	case tokNewline, tokSemi, tokRBrace, tokEOF:
		if p.fn.Void {
			p.fn.Emit(code.OpReturnVoid)
		} else {
			p.fn.Emit(code.OpReturnZero)
		}
		return nil
	}
	if p.fn.Void {
		return errorf(kw.line, "return with a value in void function %v", p.fn.Name)
	}
	if _, err := p.expr(); err != nil {
		return err
	}
	p.fn.Emit(code.OpReturn)
	return nil
}

func (p *parser) define() error {
	kw := p.next()
	if p.inDef {
		return errorf(kw.line, "define inside of a function")
	}

	fn := &code.Func{}
	if p.peek().is(tokKeyword, "void") {
		p.next()
		fn.Void = true
	}
	name := p.next()
	if name.kind != tokName {
		return p.unexpected(name)
	}
	fn.Name = name.text

	if err := p.expect(tokLParen, ""); err != nil {
		return err
	}
	for p.peek().kind != tokRParen {
		if fn.NParams > 0 {
			if err := p.expect(tokComma, ""); err != nil {
				return err
			}
		}
		ref := false
		if p.peek().is(tokOp, "*") {
			p.next()
			ref = true
		}
		if err := p.local(fn, ref); err != nil {
			return err
		}
		fn.NParams++
	}
	p.next()

	p.skipNewlines()
	if p.peek().kind != tokLBrace {
		return p.unexpected(p.peek())
	}

	outer, outerLoops := p.fn, p.loops
	p.fn, p.loops, p.inDef = fn, nil, true
	defer func() { p.fn, p.loops, p.inDef = outer, outerLoops, false }()

	if err := p.funcBody(); err != nil {
		return err
	}
	if fn.Void {
		fn.Emit(code.OpReturnVoid)
	} else {
		fn.Emit(code.OpReturnZero)
	}
	p.defs = append(p.defs, fn)
	return nil
}

func (p *parser) funcBody() error {
	p.next() // {
	p.skipNewlines()
	for p.peek().is(tokKeyword, "auto") {
		p.next()
		for {
			if err := p.local(p.fn, false); err != nil {
				return err
			}
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
		switch tok := p.peek(); tok.kind {
		case tokNewline, tokSemi:
			p.next()
		case tokRBrace:
		default:
			return p.unexpected(tok)
		}
		p.skipNewlines()
	}
	return p.blockRest()
}

// local declares a parameter or auto, either "name" or "name[]".
func (p *parser) local(fn *code.Func, ref bool) error {
	tok := p.next()
	if tok.kind != tokName {
		return p.unexpected(tok)
	}
	array := false
	if p.peek().kind == tokLBracket {
		p.next()
		if err := p.expect(tokRBracket, ""); err != nil {
			return err
		}
		array = true
	} else if ref {
		return errorf(tok.line, "only array parameters may be references")
	}
	var idx int
	if array {
		idx = p.Prog.Arrays.Intern(tok.text)
	} else {
		idx = p.Prog.Vars.Intern(tok.text)
	}
	if err := fn.AddAuto(idx, array, ref); err != nil {
		return errorf(tok.line, "%v: %v", tok.text, err)
	}
	return nil
}
