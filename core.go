package main

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jcorbin/gobc/internal/bc"
	"github.com/jcorbin/gobc/internal/code"
	"github.com/jcorbin/gobc/internal/flushio"
	"github.com/jcorbin/gobc/internal/num"
)

// VM executes compiled bc or dc code.
type VM struct {
	logging
	mode Mode
	prog *code.Program
	bc   bc.Compiler

	out      flushio.WriteFlusher
	printer  num.Printer
	readLine func() (string, error)

	ctx     context.Context
	results []result
	vars    [][]value
	arrays  [][]array
	scopes  []globals
	frames  []frame
	tails   []int
	last    *num.Number

	argBuf [2]int
}

// globals are the dynamically scoped settings; every bc call gets its own
// copy, discarded when it returns.
type globals struct {
	ibase, obase, scale int
}

// frame is an activation of a function; mark is how many results were on
// the stack when it started.
type frame struct {
	fn, ip, mark int
}

// Limits on the globals and arrays.
const (
	minBase  = 2
	maxIbase = num.MaxHexBase
	maxObase = 999
	maxScale = math.MaxInt32
	maxDim   = 1<<16 - 1
)

func limits() string {
	var sb strings.Builder
	for _, lim := range []struct {
		name string
		val  interface{}
	}{
		{"BC_BASE_MAX", maxObase},
		{"BC_DIM_MAX", maxDim},
		{"BC_SCALE_MAX", maxScale},
		{"BC_STRING_MAX", math.MaxInt32},
		{"BC_NAME_MAX", math.MaxInt32},
		{"BC_NUM_MAX", math.MaxInt32},
		{"MAX Exponent", uint64(math.MaxUint64)},
	} {
		fmt.Fprintf(&sb, "%-15v = %v\n", lim.name, lim.val)
	}
	return sb.String()
}

func (vm *VM) scope() *globals { return &vm.scopes[len(vm.scopes)-1] }

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark = strings.Repeat(mark[:1], n) + mark
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
