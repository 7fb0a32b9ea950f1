package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/bc"
	"github.com/jcorbin/gobc/internal/code"
	"github.com/jcorbin/gobc/internal/panicerr"
)

var (
	errQuit       = errors.New("quit")
	errIncomplete = errors.New("incomplete input")

	errVoidValue      = errors.New("void value in expression")
	errWrongType      = errors.New("variable is wrong type")
	errStackUnderflow = errors.New("stack has too few elements")
	errUndefinedFunc  = errors.New("undefined function")
	errParams         = errors.New("mismatched parameters")
	errRecursiveRead  = errors.New("read() call inside of a read() call")
	errNoInput        = errors.New("no input for read()")

	errBadIbase   = errors.New("bad ibase")
	errBadObase   = errors.New("bad obase")
	errBadScale   = errors.New("bad scale")
	errArrayIndex = errors.New("bad array index")
)

// Kind classifies the errors returned by VM.Compile and VM.Exec.
type Kind int

// Error kinds, see ErrorKind.
const (
	// Recoverable errors abort the current statement; definitions and
	// storage survive.
	Recoverable Kind = iota

	// Cancelled execution unwinds like a recoverable error, but is not
	// the user's mistake.
	Cancelled

	// Fatal errors mean that the VM may not continue.
	Fatal

	// Quit means that the program asked to exit.
	Quit
)

var kindNames = [...]string{"recoverable", "cancelled", "fatal", "quit"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ErrorKind classifies a non-nil error.
func ErrorKind(err error) Kind {
	switch {
	case errors.Is(err, errQuit), errors.Is(err, bc.ErrQuit):
		return Quit
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Cancelled
	case errors.Is(err, code.ErrCorrupt), panicerr.IsPanic(err), panicerr.IsExit(err):
		return Fatal
	}
	return Recoverable
}

// execError is an error raised by an instruction.
type execError struct {
	fn  string
	ip  int
	op  code.Op
	err error
}

func (e execError) Error() string {
	if e.fn == code.MainName {
		return fmt.Sprintf("%v: %v", e.op, e.err)
	}
	return fmt.Sprintf("%v @%v %v: %v", e.fn, e.ip, e.op, e.err)
}

func (e execError) Unwrap() error { return e.err }

// rangeError is returned when a global is assigned a value outside its
// limits.
type rangeError struct {
	err    error
	lo, hi int
}

func (e rangeError) Error() string {
	return fmt.Sprintf("%v; must be [%v, %v]", e.err, e.lo, e.hi)
}

func (e rangeError) Unwrap() error { return e.err }
