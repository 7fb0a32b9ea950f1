package main

import (
	"io"

	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/code"
	"github.com/jcorbin/gobc/internal/dc"
	"github.com/jcorbin/gobc/internal/num"
)

func (vm *VM) pushFrame(fi int) {
	vm.frames = append(vm.frames, frame{fn: fi, mark: len(vm.results)})
	vm.tails = append(vm.tails, 0)
}

// popFrame discards the top frame; if it is owned by a bc call or read, its
// storage layers and scope go with it.
func (vm *VM) popFrame(owned bool) {
	top := len(vm.frames) - 1
	if owned {
		vm.popLocals(vm.prog.Funcs[vm.frames[top].fn])
		vm.scopes = vm.scopes[:len(vm.scopes)-1]
	}
	vm.frames = vm.frames[:top]
	vm.tails = vm.tails[:top]
}

// call binds the top nargs results to the parameters of function fi and
// enters it. Every argument is resolved before any parameter is bound, so an
// argument naming one of the callee's locals sees the caller's value.
func (vm *VM) call(nargs, fi int) error {
	fn := vm.prog.Funcs[fi]
	if !fn.Defined() {
		return errors.Wrapf(errUndefinedFunc, "%v()", fn.Name)
	}
	if nargs != fn.NParams {
		return errors.Wrapf(errParams, "%v() takes %v, given %v", fn.Name, fn.NParams, nargs)
	}
	if err := vm.need(nargs); err != nil {
		return err
	}

	vals := make([]value, nargs)
	arrs := make([]array, nargs)
	for i := 0; i < nargs; i++ {
		res, auto := vm.top(nargs-1-i), fn.Autos[i]
		if auto.Array != (res.kind == resArray) {
			return errors.Wrapf(errWrongType, "%v() parameter %v", fn.Name, i+1)
		}
		switch {
		case auto.Ref:
			arrs[i].ref = vm.reference(res.idx)
		case auto.Array:
			arrs[i].vals = copyValues(vm.array(res.idx).vals)
		default:
			n, err := vm.number(res)
			if err != nil {
				return err
			}
			vals[i] = numValue(n.Clone())
		}
	}

	vm.drop(nargs)
	vm.pushLocals(fn, vals, arrs)
	vm.scopes = append(vm.scopes, *vm.scope())
	vm.pushFrame(fi)
	return nil
}

// ret leaves a bc function, discarding its locals and any results it left
// behind, then pushes its return value.
func (vm *VM) ret(op code.Op) error {
	if len(vm.frames) < 2 {
		return errors.Wrap(code.ErrCorrupt, "return from the top level")
	}
	var res result
	switch op {
	case code.OpReturn:
		if err := vm.need(1); err != nil {
			return err
		}
		n, err := vm.number(vm.top(0))
		if err != nil {
			return err
		}
		res = result{kind: resTemp, n: n.Clone()}
	case code.OpReturnZero:
		res = result{kind: resTemp, n: new(num.Number)}
	default:
		res = result{kind: resVoid}
	}
	vm.results = vm.results[:vm.frames[len(vm.frames)-1].mark]
	vm.popFrame(true)
	vm.push(res)
	return nil
}

// execString pops a string and runs it as dc code; any other value is left
// alone.
func (vm *VM) execString() error {
	if err := vm.need(1); err != nil {
		return err
	}
	v, err := vm.value(vm.top(0))
	if err != nil || !v.isStr {
		return err
	}
	vm.drop(1)
	return vm.execText(v.str)
}

// execCond pops a condition, then runs the string in register then if it is
// non-zero, else in register els-1 if there is one.
func (vm *VM) execCond(then, els int) error {
	res, err := vm.pop()
	if err != nil {
		return err
	}
	n, err := vm.number(&res)
	if err != nil {
		return err
	}
	reg := then
	if n.IsZero() {
		if els == code.NoElse {
			return nil
		}
		reg = els - 1
	}
	v := vm.variable(reg)
	if !v.isStr {
		return errors.Wrapf(errWrongType, "register %v does not hold a string", vm.prog.Vars.Name(reg))
	}
	return vm.execText(v.str)
}

// execText enters the compiled form of text. When the current frame would
// pop right after, it is replaced instead, and the elision is counted in its
// tail so that quit can still unwind the right number of levels.
func (vm *VM) execText(text string) error {
	fi, err := dc.CompileExec(vm.prog, text)
	if err != nil {
		return err
	}
	if top := len(vm.frames) - 1; top > 0 {
		f := &vm.frames[top]
		fn := vm.prog.Funcs[f.fn]
		if f.ip == len(fn.Code)-1 && code.Op(fn.Code[f.ip]) == code.OpPopExec {
			*f = frame{fn: fi, mark: len(vm.results)}
			vm.tails[top]++
			return nil
		}
	}
	vm.pushFrame(fi)
	return nil
}

func (vm *VM) popExec() error {
	if len(vm.frames) < 2 {
		return errors.Wrap(code.ErrCorrupt, "pop_exec at the top level")
	}
	vm.popFrame(false)
	return nil
}

// nquit pops a number of levels to quit.
func (vm *VM) nquit() error {
	res, err := vm.pop()
	if err != nil {
		return err
	}
	n, err := vm.number(&res)
	if err != nil {
		return err
	}
	levels, err := n.Uint64()
	if err != nil {
		return err
	}
	return vm.quit(levels)
}

// quit unwinds the given number of executed strings, counting each elided
// tail call as a level of its own; unwinding the top level quits.
func (vm *VM) quit(levels uint64) error {
	i := 0
	for ; levels > 0 && i < len(vm.tails); i++ {
		calls := uint64(vm.tails[len(vm.tails)-1-i]) + 1
		if calls >= levels {
			levels = 0
		} else {
			levels -= calls
		}
	}
	if i == len(vm.frames) {
		if err := vm.out.Flush(); err != nil {
			return err
		}
		return errQuit
	}
	for ; i > 0; i-- {
		vm.popFrame(false)
	}
	return nil
}

// read compiles a line of input into the read function and enters it.
func (vm *VM) read() error {
	for _, f := range vm.frames {
		if f.fn == code.ReadFunc {
			return errRecursiveRead
		}
	}
	if vm.readLine == nil {
		return errNoInput
	}
	if err := vm.out.Flush(); err != nil {
		return err
	}
	line, err := vm.readLine()
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if errors.Is(err, io.EOF) {
		return errNoInput
	} else if err != nil {
		return err
	}

	fn := vm.prog.Funcs[code.ReadFunc]
	if vm.mode == ModeDC {
		err = dc.CompileRead(vm.prog, fn, line)
	} else {
		err = vm.bc.CompileRead(fn, line)
	}
	if err != nil {
		return err
	}
	if vm.mode == ModeBC {
		vm.scopes = append(vm.scopes, *vm.scope())
	}
	vm.pushFrame(code.ReadFunc)
	return nil
}
