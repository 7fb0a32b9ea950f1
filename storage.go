package main

import (
	"github.com/pkg/errors"

	"github.com/jcorbin/gobc/internal/code"
	"github.com/jcorbin/gobc/internal/num"
)

type resultKind uint8

const (
	resTemp  resultKind = iota // owns n
	resConst                   // n is a shared constant value, read only
	resStr
	resVar
	resArrayElem
	resArray
	resIbase // n holds the value when pushed
	resObase
	resScale
	resLast
	resVoid
)

var resultKindNames = [...]string{
	resTemp:      "temp",
	resConst:     "const",
	resStr:       "str",
	resVar:       "var",
	resArrayElem: "elem",
	resArray:     "array",
	resIbase:     "ibase",
	resObase:     "obase",
	resScale:     "scale",
	resLast:      "last",
	resVoid:      "void",
}

func (k resultKind) String() string { return resultKindNames[k] }

// result is an entry on the operand stack.
type result struct {
	kind resultKind
	n    *num.Number
	str  string
	idx  int // variable or array name index
	elem int
}

// value is what variables and array elements hold; dc may store strings.
type value struct {
	n     *num.Number
	str   string
	isStr bool
}

func numValue(n *num.Number) value { return value{n: n} }
func strValue(s string) value      { return value{str: s, isStr: true} }

// array is one layer of an array name's storage, either owning its values or
// referring to another layer when passed by reference.
type array struct {
	vals []value
	ref  *arrayRef
}

type arrayRef struct{ idx, depth int }

func (vm *VM) push(res result) { vm.results = append(vm.results, res) }

func (vm *VM) pushNum(n *num.Number) { vm.push(result{kind: resTemp, n: n}) }

func (vm *VM) pushValue(v value) {
	if v.isStr {
		vm.push(result{kind: resStr, str: v.str})
	} else {
		vm.pushNum(v.n.Clone())
	}
}

func (vm *VM) pushBool(b bool) {
	if b {
		vm.pushNum(num.New(1))
	} else {
		vm.pushNum(num.New(0))
	}
}

// need checks that the stack holds at least n results.
func (vm *VM) need(n int) error {
	if len(vm.results) < n {
		return errStackUnderflow
	}
	return nil
}

// top returns the n-th result from the top of the stack.
func (vm *VM) top(n int) *result { return &vm.results[len(vm.results)-1-n] }

func (vm *VM) drop(n int) { vm.results = vm.results[:len(vm.results)-n] }

func (vm *VM) pop() (result, error) {
	if err := vm.need(1); err != nil {
		return result{}, err
	}
	res := *vm.top(0)
	vm.drop(1)
	return res, nil
}

// number resolves a result to a number, which must not be modified.
func (vm *VM) number(res *result) (*num.Number, error) {
	switch res.kind {
	case resTemp, resConst, resIbase, resObase, resScale:
		return res.n, nil
	case resLast:
		return vm.last, nil
	case resVoid:
		return nil, errVoidValue
	case resVar, resArrayElem:
		v, err := vm.value(res)
		if err != nil {
			return nil, err
		}
		if v.isStr {
			return nil, errWrongType
		}
		return v.n, nil
	}
	return nil, errWrongType
}

// value resolves a result to a number or string; a returned number must not
// be modified.
func (vm *VM) value(res *result) (value, error) {
	switch res.kind {
	case resStr:
		return strValue(res.str), nil
	case resVar:
		return *vm.variable(res.idx), nil
	case resArrayElem:
		v, err := vm.element(res.idx, res.elem)
		if err != nil {
			return value{}, err
		}
		return *v, nil
	}
	n, err := vm.number(res)
	return numValue(n), err
}

// variable returns the current value of the named variable, creating it as
// zero on first use.
func (vm *VM) variable(idx int) *value {
	stack := vm.varStack(idx)
	return &stack[len(stack)-1]
}

func (vm *VM) varStack(idx int) []value {
	for len(vm.vars) <= idx {
		vm.vars = append(vm.vars, nil)
	}
	if len(vm.vars[idx]) == 0 {
		vm.vars[idx] = append(vm.vars[idx], numValue(new(num.Number)))
	}
	return vm.vars[idx]
}

// array returns the current layer of the named array, following any
// reference.
func (vm *VM) array(idx int) *array {
	for len(vm.arrays) <= idx {
		vm.arrays = append(vm.arrays, nil)
	}
	if len(vm.arrays[idx]) == 0 {
		vm.arrays[idx] = append(vm.arrays[idx], array{})
	}
	arr := &vm.arrays[idx][len(vm.arrays[idx])-1]
	for arr.ref != nil {
		arr = &vm.arrays[arr.ref.idx][arr.ref.depth]
	}
	return arr
}

// reference returns a reference to the current layer of the named array.
func (vm *VM) reference(idx int) *arrayRef {
	vm.array(idx)
	layers := vm.arrays[idx]
	if ref := layers[len(layers)-1].ref; ref != nil {
		return ref
	}
	return &arrayRef{idx: idx, depth: len(layers) - 1}
}

// element returns an element of the named array, growing the array with
// zeros to reach it.
func (vm *VM) element(idx, i int) (*value, error) {
	arr := vm.array(idx)
	for len(arr.vals) <= i {
		arr.vals = append(arr.vals, numValue(new(num.Number)))
	}
	return &arr.vals[i], nil
}

func copyValues(vals []value) []value {
	if len(vals) == 0 {
		return nil
	}
	cp := make([]value, len(vals))
	for i, v := range vals {
		cp[i] = v
		if !v.isStr {
			cp[i].n = v.n.Clone()
		}
	}
	return cp
}

// index converts a result to an array index.
func (vm *VM) index(res *result) (int, error) {
	n, err := vm.number(res)
	if err != nil {
		return 0, err
	}
	i, err := n.Uint64()
	if err != nil {
		return 0, errors.Wrap(errArrayIndex, err.Error())
	}
	if i > maxDim {
		return 0, rangeError{errArrayIndex, 0, maxDim}
	}
	return int(i), nil
}

// store assigns a value to the storage that a result refers to.
func (vm *VM) store(dst *result, v value) error {
	if !v.isStr {
		v.n = v.n.Clone()
	}
	switch dst.kind {
	case resVar:
		*vm.variable(dst.idx) = v
		return nil
	case resArrayElem:
		el, err := vm.element(dst.idx, dst.elem)
		if err != nil {
			return err
		}
		*el = v
		return nil
	}

	if v.isStr {
		return errWrongType
	}
	switch dst.kind {
	case resLast:
		vm.last = v.n
		return nil
	case resIbase:
		return vm.setGlobal(&vm.scope().ibase, v.n, errBadIbase, minBase, maxIbase)
	case resObase:
		return vm.setGlobal(&vm.scope().obase, v.n, errBadObase, minBase, maxObase)
	case resScale:
		return vm.setGlobal(&vm.scope().scale, v.n, errBadScale, 0, maxScale)
	}
	return errors.Wrapf(errWrongType, "cannot assign to %v", dst.kind)
}

func (vm *VM) setGlobal(g *int, n *num.Number, err error, lo, hi int) error {
	u, uerr := n.Uint64()
	if uerr != nil || u < uint64(lo) || u > uint64(hi) {
		return rangeError{err, lo, hi}
	}
	*g = int(u)
	return nil
}

// pushLocals adds a storage layer for each of a function's parameters and
// autos, the first len(args) of which are bound to argument values.
func (vm *VM) pushLocals(fn *code.Func, args []value, arrs []array) {
	for i, auto := range fn.Autos {
		if auto.Array {
			vm.array(auto.Name)
			var arr array
			if i < len(arrs) {
				arr = arrs[i]
			}
			vm.arrays[auto.Name] = append(vm.arrays[auto.Name], arr)
		} else {
			vm.varStack(auto.Name)
			v := numValue(new(num.Number))
			if i < len(args) {
				v = args[i]
			}
			vm.vars[auto.Name] = append(vm.vars[auto.Name], v)
		}
	}
}

// popLocals removes the storage layers added by pushLocals.
func (vm *VM) popLocals(fn *code.Func) {
	for i := len(fn.Autos) - 1; i >= 0; i-- {
		auto := fn.Autos[i]
		if auto.Array {
			layers := vm.arrays[auto.Name]
			vm.arrays[auto.Name] = layers[:len(layers)-1]
		} else {
			layers := vm.vars[auto.Name]
			vm.vars[auto.Name] = layers[:len(layers)-1]
		}
	}
}
