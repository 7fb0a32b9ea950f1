package num

import "github.com/pkg/errors"

// Math errors; all are recoverable from the interpreter's point of view.
var (
	ErrDivideByZero = errors.New("divide by zero")
	ErrNegative     = errors.New("negative number")
	ErrNonInteger   = errors.New("non integer number")
	ErrOverflow     = errors.New("number cannot fit")
	ErrBadNumber    = errors.New("bad number string")
	ErrBadBase      = errors.New("bad base")
)
