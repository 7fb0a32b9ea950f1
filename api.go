package main

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/bc"
	"github.com/jcorbin/gobc/internal/code"
	"github.com/jcorbin/gobc/internal/dc"
	"github.com/jcorbin/gobc/internal/num"
	"github.com/jcorbin/gobc/internal/panicerr"
)

// New creates a VM with an empty program.
func New(opts ...VMOption) *VM {
	var vm VM
	vm.apply(opts...)
	vm.init()
	return &vm
}

// Compile compiles src, appending it to the program for the next Exec.
//
// The returned error's Kind is Quit if src compiled bc's quit statement; any
// code compiled ahead of it should still be executed.
func (vm *VM) Compile(src string) error {
	var err error
	if vm.mode == ModeDC {
		err = dc.Compile(vm.prog, vm.prog.Main(), src)
	} else {
		err = vm.bc.Compile(src)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bc.ErrIncomplete), errors.Is(err, dc.ErrIncomplete):
		return errIncomplete
	case errors.Is(err, bc.ErrQuit):
		return errQuit
	}
	return errors.Wrap(err, "parse error")
}

// Exec runs any code compiled since the last Exec. Any error other than a
// Quit unwinds the VM back to its top level, see Reset.
func (vm *VM) Exec(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		return vm.exec(ctx)
	})
	if ferr := vm.out.Flush(); err == nil {
		err = ferr
	}
	if err != nil && ErrorKind(err) != Quit {
		vm.Reset()
	}
	return err
}

// Reset discards all but the outermost call frame along with any storage
// layers and scopes that they own, all pending results, and any code not yet
// executed.
func (vm *VM) Reset() {
	for len(vm.frames) > 1 {
		vm.popFrame(vm.mode == ModeBC)
	}
	vm.tails[0] = 0
	vm.results = vm.results[:0]
	vm.scopes = vm.scopes[:1]
	vm.prog.Main().Reset()
	vm.frames[0].ip = 0
}

// Close flushes any buffered output.
func (vm *VM) Close() error {
	return vm.out.Flush()
}

// Mode returns the language that the VM compiles.
func (vm *VM) Mode() Mode { return vm.mode }

// WithMode sets the language compiled, bc by default.
func WithMode(mode Mode) VMOption { return withMode(mode) }

// WithOutput sets the output stream, discarded by default.
func WithOutput(w io.Writer) VMOption { return withOutput(w) }

// WithTee copies all output to another stream.
func WithTee(w io.Writer) VMOption { return withTee(w) }

// WithLineLength sets the length at which printed numbers are wrapped; a
// length less than 2 disables wrapping.
func WithLineLength(n int) VMOption { return withLineLength(n) }

// WithReadLine sets the source of lines read by bc's read() function and dc's
// ? command.
func WithReadLine(f func() (string, error)) VMOption { return withReadLine(f) }

// WithLogf enables trace logging of every instruction executed.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

func (vm *VM) init() {
	vm.prog = code.NewProgram()
	vm.bc = bc.Compiler{Prog: vm.prog, Limits: limits()}
	vm.scopes = append(vm.scopes[:0], globals{ibase: 10, obase: 10})
	vm.frames = append(vm.frames[:0], frame{fn: code.MainFunc})
	vm.tails = append(vm.tails[:0], 0)
	vm.results = vm.results[:0]
	vm.vars, vm.arrays = nil, nil
	vm.last = new(num.Number)
}
