package code

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/num"
)

// ErrDuplicateAuto is returned when a function declares the same parameter or
// auto name twice.
var ErrDuplicateAuto = errors.New("duplicate function parameter or auto name")

// Func is a compiled function: its code stream along with the tables that the
// code's operands index.
type Func struct {
	Name string
	Code []byte

	// Labels maps label indices to code offsets; an unset label is -1.
	Labels []int

	Consts []Const
	Strs   []string

	// Autos lists the function's parameters, then its other locals.
	Autos   []Auto
	NParams int
	Void    bool
}

// Auto is a function local, either a parameter or declared auto.
type Auto struct {
	Name  int // index into Program.Vars or Program.Arrays
	Array bool
	Ref   bool // array parameter passed by reference
}

// Const is a literal number, kept as text since its value depends on the
// input base in effect when it runs.
type Const struct {
	Text string

	base int
	val  *num.Number
}

// Value returns the constant parsed in the given base, reusing the last parse
// if the base hasn't changed. The returned number must not be modified.
func (c *Const) Value(ctx context.Context, base int) (*num.Number, error) {
	if c.val == nil || c.base != base {
		n, err := new(num.Number).Parse(ctx, c.Text, base)
		if err != nil {
			return nil, err
		}
		c.val, c.base = n, base
	}
	return c.val, nil
}

// Defined returns true if fn has any code.
func (fn *Func) Defined() bool { return len(fn.Code) > 0 }

// Emit appends an op and its operands.
func (fn *Func) Emit(op Op, args ...int) {
	if len(args) != op.NArgs() {
		panic(errors.Errorf("code: %v takes %v operands, given %v", op, op.NArgs(), len(args)))
	}
	fn.Code = append(fn.Code, byte(op))
	for _, arg := range args {
		fn.Code = AppendIndex(fn.Code, arg)
	}
}

// AddConst adds a literal number, returning its index.
func (fn *Func) AddConst(text string) int {
	fn.Consts = append(fn.Consts, Const{Text: text})
	return len(fn.Consts) - 1
}

// AddStr adds a string, returning its index.
func (fn *Func) AddStr(s string) int {
	fn.Strs = append(fn.Strs, s)
	return len(fn.Strs) - 1
}

// NewLabel allocates a new unset label.
func (fn *Func) NewLabel() int {
	fn.Labels = append(fn.Labels, -1)
	return len(fn.Labels) - 1
}

// SetLabel points a label at the current end of code.
func (fn *Func) SetLabel(label int) { fn.Labels[label] = len(fn.Code) }

// Label resolves a label to a code offset.
func (fn *Func) Label(label int) (int, error) {
	if label < 0 || label >= len(fn.Labels) {
		return 0, errors.Wrapf(ErrCorrupt, "%v: no label %v", fn.Name, label)
	}
	at := fn.Labels[label]
	if at < 0 {
		return 0, errors.Wrapf(ErrCorrupt, "%v: unresolved label %v", fn.Name, label)
	}
	return at, nil
}

// AddAuto declares a parameter or local.
func (fn *Func) AddAuto(name int, array, ref bool) error {
	for _, auto := range fn.Autos {
		if auto.Name == name && auto.Array == array {
			return ErrDuplicateAuto
		}
	}
	fn.Autos = append(fn.Autos, Auto{Name: name, Array: array, Ref: ref})
	return nil
}

// Mark records the size of every table, so that a failed compile can be
// rolled back with Rewind.
type Mark struct {
	code, labels, consts, strs int
}

// Mark returns the current table sizes.
func (fn *Func) Mark() Mark {
	return Mark{len(fn.Code), len(fn.Labels), len(fn.Consts), len(fn.Strs)}
}

// Rewind truncates fn back to a prior mark.
func (fn *Func) Rewind(m Mark) {
	fn.Code = fn.Code[:m.code]
	fn.Labels = fn.Labels[:m.labels]
	fn.Consts = fn.Consts[:m.consts]
	fn.Strs = fn.Strs[:m.strs]
}

// Reset clears fn so that it can be compiled anew.
func (fn *Func) Reset() {
	fn.Rewind(Mark{})
	fn.Autos = fn.Autos[:0]
	fn.NParams = 0
	fn.Void = false
}
