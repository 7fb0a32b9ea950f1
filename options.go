package main

import (
	"io"
	"io/ioutil"

	"github.com/jcorbin/gobc/internal/flushio"
)

// VMOption configures a VM, see New.
type VMOption interface{ apply(vm *VM) }

// Mode selects the language that a VM compiles.
type Mode int

// Modes, bc being the default.
const (
	ModeBC Mode = iota
	ModeDC
)

func (m Mode) String() string {
	if m == ModeDC {
		return "dc"
	}
	return "bc"
}

const defaultLineLength = 70

var defaults = []VMOption{
	withOutput(ioutil.Discard),
	withLineLength(defaultLineLength),
}

// VMOptions combines any number of options into one.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

func (vm *VM) apply(opts ...VMOption) {
	options(defaults).apply(vm)
	VMOptions(opts...).apply(vm)
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type modeOption Mode
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type lineLengthOption int
type readLineOption func() (string, error)

func withMode(mode Mode) modeOption                        { return modeOption(mode) }
func withOutput(w io.Writer) outputOption                  { return outputOption{w} }
func withTee(w io.Writer) teeOption                        { return teeOption{w} }
func withLineLength(n int) lineLengthOption                { return lineLengthOption(n) }
func withReadLine(f func() (string, error)) readLineOption { return readLineOption(f) }

func (mode modeOption) apply(vm *VM) {
	vm.mode = Mode(mode)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (n lineLengthOption) apply(vm *VM) {
	vm.printer.LineLen = int(n)
}

func (f readLineOption) apply(vm *VM) {
	vm.readLine = f
}
