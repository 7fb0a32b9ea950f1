package main

import (
	"github.com/jcorbin/gobc/internal/runeio"
)

// print writes the top result followed by a newline, leaving it on the
// stack; a printed number becomes the last value.
func (vm *VM) print() error {
	if err := vm.need(1); err != nil {
		return err
	}
	res := vm.top(0)
	if res.kind == resVoid {
		return nil
	}
	v, err := vm.value(res)
	if err != nil {
		return err
	}
	if v.isStr {
		return vm.printer.WriteString(vm.out, v.str+"\n")
	}
	if err := vm.printer.Print(vm.ctx, vm.out, v.n, vm.scope().obase, true); err != nil {
		return err
	}
	vm.last = v.n.Clone()
	return nil
}

// printPop pops and writes the top result without a newline. Strings printed
// by bc have their escapes interpreted.
func (vm *VM) printPop() error {
	res, err := vm.pop()
	if err != nil {
		return err
	}
	v, err := vm.value(&res)
	if err != nil {
		return err
	}
	if !v.isStr {
		return vm.printer.Print(vm.ctx, vm.out, v.n, vm.scope().obase, false)
	}
	if vm.mode == ModeBC {
		return vm.printer.WriteString(vm.out, runeio.Unescape(v.str))
	}
	return vm.printer.WriteString(vm.out, v.str)
}

// stream pops and writes the top result as raw bytes.
func (vm *VM) stream() error {
	res, err := vm.pop()
	if err != nil {
		return err
	}
	v, err := vm.value(&res)
	if err != nil {
		return err
	}
	if v.isStr {
		return vm.printer.WriteString(vm.out, v.str)
	}
	return vm.printer.Stream(vm.ctx, vm.out, v.n)
}

// printStack writes every result, top first, each on its own line.
func (vm *VM) printStack() error {
	for i := len(vm.results) - 1; i >= 0; i-- {
		v, err := vm.value(&vm.results[i])
		if err != nil {
			return err
		}
		if v.isStr {
			err = vm.printer.WriteString(vm.out, v.str+"\n")
		} else {
			err = vm.printer.Print(vm.ctx, vm.out, v.n, vm.scope().obase, true)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
