package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/code"
	"github.com/jcorbin/gobc/internal/num"
)

var one = num.New(1)

// exec runs instructions until the main function is exhausted, some
// instruction fails, or ctx is done.
func (vm *VM) exec(ctx context.Context) error {
	vm.ctx = ctx
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f := &vm.frames[len(vm.frames)-1]
		fn := vm.prog.Funcs[f.fn]
		if f.ip >= len(fn.Code) {
			if len(vm.frames) > 1 {
				return errors.Wrapf(code.ErrCorrupt, "%v ran off the end of its code", fn.Name)
			}
			fn.Reset()
			f.ip = 0
			return nil
		}

		ip := f.ip
		op, args, next, err := code.Decode(fn.Code, ip, vm.argBuf[:0])
		if err != nil {
			return errors.Wrap(err, fn.Name)
		}
		if vm.logfn != nil {
			vm.logf(strings.Repeat(">", len(vm.frames)), "%v %v # %v",
				fn.Name, strings.TrimSpace(vm.prog.FormatOp(fn, ip)), len(vm.results))
		}
		f.ip = next

		if err := vm.step(fn, op, args); err != nil {
			return execError{fn.Name, ip, op, err}
		}
	}
}

// step executes one instruction of fn. Any frame pointer held across a step
// is invalid after it, since calls may grow the frame stack.
func (vm *VM) step(fn *code.Func, op code.Op, args []int) error {
	switch op {

	case code.OpNum:
		n, err := fn.Consts[args[0]].Value(vm.ctx, vm.scope().ibase)
		if err != nil {
			return err
		}
		vm.push(result{kind: resConst, n: n})
	case code.OpStr:
		vm.push(result{kind: resStr, str: fn.Strs[args[0]]})
	case code.OpZero:
		vm.pushNum(new(num.Number))
	case code.OpOne:
		vm.pushNum(num.New(1))
	case code.OpLast:
		vm.push(result{kind: resLast})
	case code.OpIbase:
		vm.push(result{kind: resIbase, n: num.New(int64(vm.scope().ibase))})
	case code.OpObase:
		vm.push(result{kind: resObase, n: num.New(int64(vm.scope().obase))})
	case code.OpScale:
		vm.push(result{kind: resScale, n: num.New(int64(vm.scope().scale))})
	case code.OpVar:
		vm.push(result{kind: resVar, idx: args[0]})
	case code.OpArray:
		vm.push(result{kind: resArray, idx: args[0]})
	case code.OpArrayElem, code.OpLoadElem:
		if err := vm.need(1); err != nil {
			return err
		}
		i, err := vm.index(vm.top(0))
		if err != nil {
			return err
		}
		vm.drop(1)
		if op == code.OpArrayElem {
			vm.push(result{kind: resArrayElem, idx: args[0], elem: i})
			return nil
		}
		el, err := vm.element(args[0], i)
		if err != nil {
			return err
		}
		vm.pushValue(*el)

	case code.OpPow, code.OpMul, code.OpDiv, code.OpMod, code.OpAdd, code.OpSub,
		code.OpPlaces, code.OpLshift, code.OpRshift,
		code.OpEq, code.OpLe, code.OpGe, code.OpNe, code.OpLt, code.OpGt,
		code.OpAnd, code.OpOr:
		return vm.binary(op)

	case code.OpNot, code.OpNeg, code.OpSqrt, code.OpAbs:
		return vm.unary(op)

	case code.OpIncPre, code.OpDecPre, code.OpIncPost, code.OpDecPost:
		return vm.incDec(op)

	case code.OpAssign, code.OpAssignNoVal:
		return vm.assign(code.Op(args[0]), op == code.OpAssign)

	case code.OpCall:
		return vm.call(args[0], args[1])
	case code.OpReturn, code.OpReturnZero, code.OpReturnVoid:
		return vm.ret(op)

	case code.OpLength:
		return vm.length()
	case code.OpScaleOf:
		if err := vm.need(1); err != nil {
			return err
		}
		v, err := vm.value(vm.top(0))
		if err != nil {
			return err
		}
		scale := 0
		if !v.isStr {
			scale = v.n.Scale()
		}
		vm.drop(1)
		vm.pushNum(num.New(int64(scale)))
	case code.OpRead:
		return vm.read()

	case code.OpJump:
		at, err := fn.Label(args[0])
		if err != nil {
			return err
		}
		vm.frames[len(vm.frames)-1].ip = at
	case code.OpJumpZero:
		res, err := vm.pop()
		if err != nil {
			return err
		}
		n, err := vm.number(&res)
		if err != nil {
			return err
		}
		if n.IsZero() {
			at, err := fn.Label(args[0])
			if err != nil {
				return err
			}
			vm.frames[len(vm.frames)-1].ip = at
		}

	case code.OpPrint:
		return vm.print()
	case code.OpPrintPop:
		return vm.printPop()
	case code.OpPrintStr:
		res, err := vm.pop()
		if err != nil {
			return err
		}
		return vm.printer.WriteString(vm.out, res.str)
	case code.OpStream:
		return vm.stream()
	case code.OpPrintStack:
		return vm.printStack()
	case code.OpPop:
		if err := vm.need(1); err != nil {
			return err
		}
		vm.drop(1)
	case code.OpHalt:
		if err := vm.out.Flush(); err != nil {
			return err
		}
		return errQuit

	case code.OpModExp:
		return vm.modExp()
	case code.OpDivMod:
		return vm.divMod()
	case code.OpExec:
		return vm.execString()
	case code.OpExecCond:
		return vm.execCond(args[0], args[1])
	case code.OpQuit:
		return vm.quit(2)
	case code.OpNQuit:
		return vm.nquit()
	case code.OpPopExec:
		return vm.popExec()

	case code.OpClearStack:
		vm.results = vm.results[:0]
	case code.OpStackLen:
		vm.pushNum(num.New(int64(len(vm.results))))
	case code.OpDup:
		if err := vm.need(1); err != nil {
			return err
		}
		v, err := vm.value(vm.top(0))
		if err != nil {
			return err
		}
		vm.pushValue(v)
	case code.OpSwap:
		if err := vm.need(2); err != nil {
			return err
		}
		x, y := vm.top(1), vm.top(0)
		*x, *y = *y, *x
	case code.OpAsciify:
		return vm.asciify()

	case code.OpPushReg:
		res, err := vm.pop()
		if err != nil {
			return err
		}
		v, err := vm.value(&res)
		if err != nil {
			return err
		}
		if !v.isStr {
			v.n = v.n.Clone()
		}
		vm.vars[args[0]] = append(vm.varStack(args[0]), v)
	case code.OpPopReg:
		stack := vm.varStack(args[0])
		if len(stack) < 2 {
			return errors.Wrapf(errStackUnderflow, "register %v", vm.prog.Vars.Name(args[0]))
		}
		v := stack[len(stack)-1]
		vm.vars[args[0]] = stack[:len(stack)-1]
		if v.isStr {
			vm.push(result{kind: resStr, str: v.str})
		} else {
			vm.pushNum(v.n)
		}
	case code.OpLoad:
		vm.pushValue(*vm.variable(args[0]))

	default:
		return errors.Wrapf(code.ErrCorrupt, "unimplemented op %v", op)
	}
	return nil
}

// operands resolves the top n results to numbers, deepest first, leaving
// them on the stack.
func (vm *VM) operands(ns ...**num.Number) error {
	if err := vm.need(len(ns)); err != nil {
		return err
	}
	for i, np := range ns {
		n, err := vm.number(vm.top(len(ns) - 1 - i))
		if err != nil {
			return err
		}
		*np = n
	}
	return nil
}

func (vm *VM) binary(op code.Op) error {
	var x, y *num.Number
	if err := vm.operands(&x, &y); err != nil {
		return err
	}
	if op.IsArith() {
		z, err := vm.arith(op, x, y)
		if err != nil {
			return err
		}
		vm.drop(2)
		vm.pushNum(z)
		return nil
	}

	var b bool
	switch c := x.Cmp(y); op {
	case code.OpEq:
		b = c == 0
	case code.OpLe:
		b = c <= 0
	case code.OpGe:
		b = c >= 0
	case code.OpNe:
		b = c != 0
	case code.OpLt:
		b = c < 0
	case code.OpGt:
		b = c > 0
	case code.OpAnd:
		b = !x.IsZero() && !y.IsZero()
	case code.OpOr:
		b = !x.IsZero() || !y.IsZero()
	}
	vm.drop(2)
	vm.pushBool(b)
	return nil
}

// arith computes x op y into a new number.
func (vm *VM) arith(op code.Op, x, y *num.Number) (*num.Number, error) {
	z, scale := new(num.Number), vm.scope().scale
	switch op {
	case code.OpPow:
		return z.Pow(vm.ctx, x, y, scale)
	case code.OpMul:
		return z.Mul(x, y, scale), nil
	case code.OpDiv:
		return z.Div(vm.ctx, x, y, scale)
	case code.OpMod:
		return z.Mod(vm.ctx, x, y, scale)
	case code.OpAdd:
		return z.Add(x, y), nil
	case code.OpSub:
		return z.Sub(x, y), nil
	case code.OpPlaces:
		return z.Places(x, y)
	case code.OpLshift:
		return z.Lshift(x, y)
	case code.OpRshift:
		return z.Rshift(x, y)
	}
	return nil, errors.Wrapf(code.ErrCorrupt, "%v is not an arithmetic op", op)
}

func (vm *VM) unary(op code.Op) error {
	var x *num.Number
	if err := vm.operands(&x); err != nil {
		return err
	}
	z := new(num.Number)
	switch op {
	case code.OpNot:
		if x.IsZero() {
			z.SetUint64(1)
		}
	case code.OpNeg:
		z.Negate(x)
	case code.OpAbs:
		z.Abs(x)
	case code.OpSqrt:
		if _, err := z.Sqrt(vm.ctx, x, vm.scope().scale); err != nil {
			return err
		}
	}
	vm.drop(1)
	vm.pushNum(z)
	return nil
}

func (vm *VM) incDec(op code.Op) error {
	var x *num.Number
	if err := vm.operands(&x); err != nil {
		return err
	}
	z := new(num.Number)
	if op == code.OpIncPre || op == code.OpIncPost {
		z.Add(x, one)
	} else {
		z.Sub(x, one)
	}
	old := x.Clone()
	dst := *vm.top(0)
	if err := vm.store(&dst, numValue(z)); err != nil {
		return err
	}
	vm.drop(1)
	if op == code.OpIncPost || op == code.OpDecPost {
		vm.pushNum(old)
	} else {
		vm.pushNum(z)
	}
	return nil
}

// assign stores the top result into the storage referred to by the one
// under it, after combining them with an arithmetic op unless op is
// OpAssign.
func (vm *VM) assign(op code.Op, keep bool) error {
	if err := vm.need(2); err != nil {
		return err
	}
	dst := *vm.top(1)
	var v value
	if op == code.OpAssign {
		var err error
		if v, err = vm.value(vm.top(0)); err != nil {
			return err
		}
	} else {
		var x, y *num.Number
		if err := vm.operands(&x, &y); err != nil {
			return err
		}
		z, err := vm.arith(op, x, y)
		if err != nil {
			return err
		}
		v = numValue(z)
	}
	if err := vm.store(&dst, v); err != nil {
		return err
	}
	vm.drop(2)
	if keep {
		vm.pushValue(v)
	}
	return nil
}

func (vm *VM) length() error {
	if err := vm.need(1); err != nil {
		return err
	}
	res := vm.top(0)
	var n int
	if res.kind == resArray {
		n = len(vm.array(res.idx).vals)
	} else {
		v, err := vm.value(res)
		if err != nil {
			return err
		}
		if v.isStr {
			n = len(v.str)
		} else {
			n = v.n.Len()
		}
	}
	vm.drop(1)
	vm.pushNum(num.New(int64(n)))
	return nil
}

func (vm *VM) modExp() error {
	var b, e, m *num.Number
	if err := vm.operands(&b, &e, &m); err != nil {
		return err
	}
	z, err := new(num.Number).ModExp(vm.ctx, b, e, m)
	if err != nil {
		return err
	}
	vm.drop(3)
	vm.pushNum(z)
	return nil
}

// divMod replaces the top two results with their quotient and remainder,
// the remainder on top.
func (vm *VM) divMod() error {
	var x, y *num.Number
	if err := vm.operands(&x, &y); err != nil {
		return err
	}
	r := new(num.Number)
	q, err := new(num.Number).DivMod(vm.ctx, x, y, r, vm.scope().scale)
	if err != nil {
		return err
	}
	vm.drop(2)
	vm.pushNum(q)
	vm.pushNum(r)
	return nil
}

// asciify replaces the top result with a one character string: the first
// character of a string, or a number's integer part modulo 256.
func (vm *VM) asciify() error {
	if err := vm.need(1); err != nil {
		return err
	}
	v, err := vm.value(vm.top(0))
	if err != nil {
		return err
	}
	var s string
	if v.isStr {
		if len(v.str) > 0 {
			s = v.str[:1]
		}
	} else {
		var t num.Number
		t.Truncate(v.n, 0)
		if _, err := t.Mod(vm.ctx, &t, num.New(256), 0); err != nil {
			return err
		}
		c, err := t.Abs(&t).Uint64()
		if err != nil {
			return err
		}
		s = string([]byte{byte(c)})
	}
	vm.drop(1)
	vm.push(result{kind: resStr, str: s})
	return nil
}
