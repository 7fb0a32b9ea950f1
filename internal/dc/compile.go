// Package dc compiles dc program text into bytecode.
//
// Every dc command is a single character, optionally followed by a register
// name character; numbers and bracketed strings are the only multi-character
// tokens.
package dc

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/code"
)

// ErrIncomplete is returned when the input ends inside a string; more input
// may complete it.
var ErrIncomplete = errors.New("incomplete input")

// commands maps single character commands to the op that they compile to.
var commands = [256]code.Op{
	'+': code.OpAdd,
	'-': code.OpSub,
	'*': code.OpMul,
	'/': code.OpDiv,
	'%': code.OpMod,
	'^': code.OpPow,
	'~': code.OpDivMod,
	'|': code.OpModExp,
	'v': code.OpSqrt,
	'@': code.OpPlaces,
	'H': code.OpLshift,
	'h': code.OpRshift,

	'p': code.OpPrint,
	'n': code.OpPrintPop,
	'P': code.OpStream,
	'f': code.OpPrintStack,
	'a': code.OpAsciify,

	'c': code.OpClearStack,
	'd': code.OpDup,
	'r': code.OpSwap,
	'z': code.OpStackLen,
	'Z': code.OpLength,
	'X': code.OpScaleOf,

	'K': code.OpScale,
	'I': code.OpIbase,
	'O': code.OpObase,

	'x': code.OpExec,
	'?': code.OpRead,
	'q': code.OpQuit,
	'Q': code.OpNQuit,
}

// conditions maps comparison commands to the op comparing the second value
// on the stack against the top one.
var conditions = map[string]code.Op{
	"<":  code.OpGt,
	">":  code.OpLt,
	"=":  code.OpEq,
	"!<": code.OpLe,
	"!>": code.OpGe,
	"!=": code.OpNe,
}

type syntaxError struct {
	line int
	mess string
}

func (err syntaxError) Error() string {
	if err.line > 1 {
		return fmt.Sprintf("line %v: %v", err.line, err.mess)
	}
	return err.mess
}

type compiler struct {
	prog *code.Program
	fn   *code.Func
	src  string
	i    int
	line int
}

// Compile appends the code for src to fn; on error fn is left as it was.
func Compile(prog *code.Program, fn *code.Func, src string) error {
	mark := fn.Mark()
	c := compiler{prog: prog, fn: fn, src: src, line: 1}
	if err := c.compile(); err != nil {
		fn.Rewind(mark)
		return err
	}
	return nil
}

// CompileExec returns the function compiled from the text of an executed
// string, compiling and adding it to prog the first time the text is seen.
func CompileExec(prog *code.Program, text string) (int, error) {
	if i, ok := prog.Exec(text); ok {
		return i, nil
	}
	fn := &code.Func{Name: "(exec)"}
	if err := Compile(prog, fn, text); err != nil {
		return 0, err
	}
	fn.Emit(code.OpPopExec)
	return prog.AddExec(text, fn), nil
}

// CompileRead compiles a line of input read by the ? command into fn.
func CompileRead(prog *code.Program, fn *code.Func, src string) error {
	fn.Reset()
	err := Compile(prog, fn, src)
	if err == nil && len(fn.Code) == 0 {
		err = errors.New("empty input")
	}
	if err != nil {
		fn.Reset()
		return errors.Wrap(err, "bad read() expression")
	}
	fn.Emit(code.OpPopExec)
	return nil
}

func (c *compiler) errorf(mess string, args ...interface{}) error {
	return syntaxError{c.line, fmt.Sprintf(mess, args...)}
}

func (c *compiler) compile() error {
	for c.i < len(c.src) {
		ch := c.src[c.i]
		c.i++

		if op := commands[ch]; op != code.OpInvalid {
			c.fn.Emit(op)
			continue
		}

		switch ch {
		case '\n':
			c.line++
		case ' ', '\t', '\r', '\f', '\v':

		case '#':
			for c.i < len(c.src) && c.src[c.i] != '\n' {
				c.i++
			}

		case '[':
			s, err := c.string()
			if err != nil {
				return err
			}
			c.fn.Emit(code.OpStr, c.fn.AddStr(s))

		case '_':
			if c.i < len(c.src) && isNumeric(c.src[c.i]) {
				c.number()
			}
			c.fn.Emit(code.OpNeg)

		case 's', 'l', 'S', 'L':
			reg, err := c.register(ch)
			if err != nil {
				return err
			}
			switch ch {
			case 's':
				c.fn.Emit(code.OpVar, reg)
				c.store()
			case 'l':
				c.fn.Emit(code.OpLoad, reg)
			case 'S':
				c.fn.Emit(code.OpPushReg, reg)
			case 'L':
				c.fn.Emit(code.OpPopReg, reg)
			}

		case ':', ';':
			if c.i >= len(c.src) {
				return c.errorf("%q needs an array name", ch)
			}
			arr := c.prog.Arrays.Intern(c.src[c.i : c.i+1])
			c.i++
			if ch == ':' {
				c.fn.Emit(code.OpArrayElem, arr)
				c.store()
			} else {
				c.fn.Emit(code.OpLoadElem, arr)
			}

		case 'k':
			c.fn.Emit(code.OpScale)
			c.store()
		case 'i':
			c.fn.Emit(code.OpIbase)
			c.store()
		case 'o':
			c.fn.Emit(code.OpObase)
			c.store()

		case '<', '>', '=', '!':
			if err := c.condition(ch); err != nil {
				return err
			}

		default:
			if isDigit(ch) || ch == '.' && c.i < len(c.src) && isDigit(c.src[c.i]) {
				c.i--
				c.number()
				continue
			}
			return c.errorf("bad character %q", rune(ch))
		}
	}
	return nil
}

// store assigns the value under the just pushed storage reference to it.
func (c *compiler) store() {
	c.fn.Emit(code.OpSwap)
	c.fn.Emit(code.OpAssignNoVal, int(code.OpAssign))
}

func (c *compiler) register(cmd byte) (int, error) {
	if c.i >= len(c.src) {
		return 0, c.errorf("%q needs a register name", cmd)
	}
	reg := c.prog.Vars.Intern(c.src[c.i : c.i+1])
	c.i++
	return reg, nil
}

func (c *compiler) condition(ch byte) error {
	rel := string(ch)
	if ch == '!' {
		if c.i >= len(c.src) {
			return c.errorf("bad character '!'")
		}
		rel += c.src[c.i : c.i+1]
		c.i++
	}
	op, ok := conditions[rel]
	if !ok {
		return c.errorf("bad comparison %q", rel)
	}

	then, err := c.register(ch)
	if err != nil {
		return err
	}
	els := code.NoElse
	j := c.i
	for j < len(c.src) && (c.src[j] == ' ' || c.src[j] == '\t') {
		j++
	}
	if j < len(c.src) && c.src[j] == 'e' {
		c.i = j + 1
		reg, err := c.register('e')
		if err != nil {
			return err
		}
		els = reg + 1
	}

	c.fn.Emit(op)
	c.fn.Emit(code.OpExecCond, then, els)
	return nil
}

// string scans a bracketed string whose opening bracket has been consumed;
// brackets nest unless escaped by a backslash.
func (c *compiler) string() (string, error) {
	start, depth := c.i, 1
	for ; c.i < len(c.src); c.i++ {
		switch c.src[c.i] {
		case '\\':
			if c.i+1 < len(c.src) {
				c.i++
			}
		case '\n':
			c.line++
		case '[':
			depth++
		case ']':
			if depth--; depth == 0 {
				s := c.src[start:c.i]
				c.i++
				return s, nil
			}
		}
	}
	return "", ErrIncomplete
}

func (c *compiler) number() {
	start, dot := c.i, false
	for ; c.i < len(c.src); c.i++ {
		ch := c.src[c.i]
		if ch == '.' {
			if dot {
				break
			}
			dot = true
		} else if !isDigit(ch) {
			break
		}
	}
	switch text := c.src[start:c.i]; text {
	case "0":
		c.fn.Emit(code.OpZero)
	case "1":
		c.fn.Emit(code.OpOne)
	default:
		c.fn.Emit(code.OpNum, c.fn.AddConst(text))
	}
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' || 'A' <= ch && ch <= 'F' }

func isNumeric(ch byte) bool { return isDigit(ch) || ch == '.' }
