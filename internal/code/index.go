package code

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCorrupt is returned when decoding runs off the end of a code stream, or
// into an undefined op.
var ErrCorrupt = errors.New("corrupt bytecode")

// AppendIndex appends the encoding of a non-negative index to code: one byte
// counting the bytes that follow, then the value's bytes least significant
// first. Zero encodes as a lone zero count.
func AppendIndex(code []byte, v int) []byte {
	if v < 0 {
		panic(fmt.Sprintf("code: negative index %v", v))
	}
	at := len(code)
	code = append(code, 0)
	for u := uint64(v); u != 0; u >>= 8 {
		code = append(code, byte(u))
	}
	code[at] = byte(len(code) - at - 1)
	return code
}

// ReadIndex decodes an index starting at code[i], returning it along with the
// offset just past it.
func ReadIndex(code []byte, i int) (int, int, error) {
	if i >= len(code) {
		return 0, i, errors.Wrapf(ErrCorrupt, "missing index @%v", i)
	}
	n := int(code[i])
	i++
	if n > 8 || i+n > len(code) {
		return 0, i, errors.Wrapf(ErrCorrupt, "truncated index @%v", i-1)
	}
	var u uint64
	for j := n - 1; j >= 0; j-- {
		u = u<<8 | uint64(code[i+j])
	}
	return int(u), i + n, nil
}

// Decode reads the op at code[i] along with its operands, appending them to
// args; it returns the op, args, and the offset of the next op.
func Decode(code []byte, i int, args []int) (Op, []int, int, error) {
	if i >= len(code) {
		return OpInvalid, args, i, errors.Wrapf(ErrCorrupt, "no op @%v", i)
	}
	op := Op(code[i])
	if !op.Valid() {
		return op, args, i, errors.Wrapf(ErrCorrupt, "invalid op %v @%v", op, i)
	}
	j := i + 1
	for k := op.NArgs(); k > 0; k-- {
		var v int
		var err error
		v, j, err = ReadIndex(code, j)
		if err != nil {
			return op, args, i, err
		}
		args = append(args, v)
	}
	return op, args, j, nil
}
