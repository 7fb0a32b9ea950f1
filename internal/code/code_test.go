package code_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobc/internal/code"
)

func Test_Index(t *testing.T) {
	for _, tc := range []struct {
		v   int
		enc []byte
	}{
		{0, []byte{0}},
		{1, []byte{1, 1}},
		{255, []byte{1, 255}},
		{256, []byte{2, 0, 1}},
		{0x123456, []byte{3, 0x56, 0x34, 0x12}},
	} {
		enc := code.AppendIndex(nil, tc.v)
		assert.Equal(t, tc.enc, enc, "encoding %v", tc.v)

		v, next, err := code.ReadIndex(enc, 0)
		require.NoError(t, err)
		assert.Equal(t, tc.v, v, "decoding %v", tc.enc)
		assert.Equal(t, len(enc), next, "expected to consume all of %v", tc.enc)
	}

	_, _, err := code.ReadIndex([]byte{2, 1}, 0)
	assert.True(t, errors.Is(err, code.ErrCorrupt), "expected truncated index error, got %v", err)
	_, _, err = code.ReadIndex(nil, 0)
	assert.True(t, errors.Is(err, code.ErrCorrupt), "expected missing index error, got %v", err)
}

func Test_Decode(t *testing.T) {
	var fn code.Func
	fn.Emit(code.OpCall, 2, 300)
	fn.Emit(code.OpAdd)

	op, args, next, err := code.Decode(fn.Code, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, code.OpCall, op)
	assert.Equal(t, []int{2, 300}, args)

	op, args, next, err = code.Decode(fn.Code, next, args[:0])
	require.NoError(t, err)
	assert.Equal(t, code.OpAdd, op)
	assert.Empty(t, args)
	assert.Equal(t, len(fn.Code), next)

	_, _, _, err = code.Decode(fn.Code[:3], 0, nil)
	assert.True(t, errors.Is(err, code.ErrCorrupt), "expected truncated op error, got %v", err)
	_, _, _, err = code.Decode([]byte{255}, 0, nil)
	assert.True(t, errors.Is(err, code.ErrCorrupt), "expected invalid op error, got %v", err)

	assert.Panics(t, func() { fn.Emit(code.OpJump) }, "expected operand count check")
}

func Test_Func_labels(t *testing.T) {
	var fn code.Func
	l := fn.NewLabel()
	_, err := fn.Label(l)
	assert.True(t, errors.Is(err, code.ErrCorrupt), "expected unresolved label error, got %v", err)
	_, err = fn.Label(l + 1)
	assert.True(t, errors.Is(err, code.ErrCorrupt), "expected missing label error, got %v", err)

	fn.Emit(code.OpOne)
	fn.SetLabel(l)
	at, err := fn.Label(l)
	require.NoError(t, err)
	assert.Equal(t, 1, at)
}

func Test_Func_rewind(t *testing.T) {
	var fn code.Func
	fn.Emit(code.OpNum, fn.AddConst("1"))
	mark := fn.Mark()

	fn.Emit(code.OpStr, fn.AddStr("hi"))
	fn.Emit(code.OpJump, fn.NewLabel())
	fn.Emit(code.OpNum, fn.AddConst("2"))
	fn.Rewind(mark)

	assert.Equal(t, []byte{byte(code.OpNum), 0}, fn.Code)
	assert.Len(t, fn.Consts, 1)
	assert.Empty(t, fn.Strs)
	assert.Empty(t, fn.Labels)

	require.NoError(t, fn.AddAuto(0, false, false))
	require.NoError(t, fn.AddAuto(0, true, false), "arrays and variables do not collide")
	assert.True(t, errors.Is(fn.AddAuto(0, false, false), code.ErrDuplicateAuto))

	fn.Reset()
	assert.False(t, fn.Defined())
	assert.Empty(t, fn.Autos)
}

func Test_Const(t *testing.T) {
	ctx := context.Background()
	c := code.Const{Text: "10"}

	n, err := c.Value(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "10", n.String())

	again, err := c.Value(ctx, 10)
	require.NoError(t, err)
	assert.True(t, n == again, "expected cached value")

	n, err = c.Value(ctx, 16)
	require.NoError(t, err)
	assert.Equal(t, "16", n.String(), "expected reparse under a new base")

	bad := code.Const{Text: "1.2.3"}
	_, err = bad.Value(ctx, 10)
	assert.Error(t, err)
}

func Test_Program(t *testing.T) {
	prog := code.NewProgram()
	require.Len(t, prog.Funcs, 2)
	assert.True(t, prog.Main() == prog.Funcs[code.MainFunc])

	f := prog.FuncIndex("f")
	assert.Equal(t, 2, f)
	assert.False(t, prog.Funcs[f].Defined(), "expected placeholder")
	assert.Equal(t, f, prog.FuncIndex("f"))

	placeholder := prog.Funcs[f]
	def := &code.Func{Name: "f", NParams: 1}
	def.Emit(code.OpReturnZero)
	assert.Equal(t, f, prog.Define(def))
	assert.True(t, placeholder == prog.Funcs[f], "expected definition in place")
	assert.True(t, placeholder.Defined())
	assert.Equal(t, 1, placeholder.NParams)

	_, ok := prog.Exec("1p")
	assert.False(t, ok)
	x := prog.AddExec("1p", &code.Func{Name: "[1p]"})
	got, ok := prog.Exec("1p")
	assert.True(t, ok)
	assert.Equal(t, x, got)

	i := prog.Vars.Intern("x")
	assert.Equal(t, i, prog.Vars.Intern("x"))
	assert.Equal(t, "x", prog.Vars.Name(i))
	assert.Equal(t, "", prog.Vars.Name(i+1))
	_, ok = prog.Arrays.Lookup("x")
	assert.False(t, ok, "arrays have their own names")
}

func Test_Disasm(t *testing.T) {
	prog := code.NewProgram()
	x := prog.Vars.Intern("x")
	a := prog.Arrays.Intern("a")

	fn := &code.Func{Name: "f"}
	require.NoError(t, fn.AddAuto(x, false, false))
	require.NoError(t, fn.AddAuto(a, true, true))
	fn.NParams = 1
	end := fn.NewLabel()
	fn.Emit(code.OpVar, x)
	fn.Emit(code.OpJumpZero, end)
	fn.Emit(code.OpArray, a)
	fn.Emit(code.OpNum, fn.AddConst("42"))
	fn.Emit(code.OpAssignNoVal, int(code.OpAdd))
	fn.SetLabel(end)
	fn.Emit(code.OpStr, fn.AddStr("done\n"))
	fn.Emit(code.OpPrintStr)
	fn.Emit(code.OpReturnZero)
	prog.Define(fn)

	var sb strings.Builder
	require.NoError(t, prog.Disasm(&sb, prog.FuncIndex("f")))
	assert.Equal(t, strings.Join([]string{
		"f(x; *a[]):",
		"  @0    var x",
		"  @2    jump_zero L0(@11)",
		"  @4    array a[]",
		"  @6    num 42",
		"  @8    =noval +",
		"L0:",
		"  @11   str \"done\\n\"",
		"  @13   print_str",
		"  @14   return0",
		"",
	}, "\n"), sb.String())
}
