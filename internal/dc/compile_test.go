package dc_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobc/internal/code"
	"github.com/jcorbin/gobc/internal/dc"
)

var offsetPattern = regexp.MustCompile(`^\s+@\d+\s+`)

func listing(t *testing.T, prog *code.Program, i int) []string {
	var sb strings.Builder
	require.NoError(t, prog.Disasm(&sb, i))
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	for j, line := range lines {
		lines[j] = offsetPattern.ReplaceAllString(line, "")
	}
	return lines[1:]
}

func Test_Compile(t *testing.T) {
	for _, tc := range []struct {
		src    string
		expect []string
	}{
		{"2 3 + p", []string{"num 2", "num 3", "+", "print"}},
		{"_5 _ 1.5", []string{"num 5", "neg", "neg", "num 1.5"}},
		{".5 0 1", []string{"num .5", "zero", "one"}},
		{"[1p]sa la x", []string{
			`str "1p"`, "var a", "swap", "=noval =",
			"load a", "exec",
		}},
		{"[[nested] \\]]", []string{`str "[nested] \\]"`}},
		{"5 :a 1;a", []string{
			"num 5", "array_elem a[]", "swap", "=noval =",
			"one", "load_elem a[]",
		}},
		{"10k K 16i", []string{
			"num 10", "scale", "swap", "=noval =",
			"scale",
			"num 16", "ibase", "swap", "=noval =",
		}},
		{"1 2<a 3 4!=b ec", []string{
			"one", "num 2", ">", "exec_cond a -",
			"num 3", "num 4", "!=", "exec_cond b c",
		}},
		{"Sa La", []string{"push_reg a", "pop_reg a"}},
		{"c d r z Z X f a P n q Q ?", []string{
			"clear_stack", "dup", "swap", "stack_len", "length", "scale_of",
			"print_stack", "asciify", "stream", "print_pop", "quit", "nquit", "read",
		}},
		{"~ | v @ H h", []string{"divmod", "modexp", "sqrt", "@", "<<", ">>"}},
		{"# comment\n1", []string{"one"}},
	} {
		t.Run(tc.src, func(t *testing.T) {
			prog := code.NewProgram()
			require.NoError(t, dc.Compile(prog, prog.Main(), tc.src))
			assert.Equal(t, tc.expect, listing(t, prog, code.MainFunc))
		})
	}
}

func Test_Compile_errors(t *testing.T) {
	for _, tc := range []struct {
		src string
		err string
	}{
		{"1 2 s", "needs a register name"},
		{"1 2 $", "bad character"},
		{"1 2 !x", "bad comparison"},
		{"1 2 :", "needs an array name"},
		{"1 . 2", "bad character"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			prog := code.NewProgram()
			err := dc.Compile(prog, prog.Main(), tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
			assert.Empty(t, prog.Main().Code, "expected rollback")
		})
	}

	prog := code.NewProgram()
	err := dc.Compile(prog, prog.Main(), "[1p")
	assert.True(t, errors.Is(err, dc.ErrIncomplete), "expected incomplete, got %v", err)
}

func Test_CompileExec(t *testing.T) {
	prog := code.NewProgram()

	i, err := dc.CompileExec(prog, "1p")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "print", "pop_exec"}, listing(t, prog, i))

	again, err := dc.CompileExec(prog, "1p")
	require.NoError(t, err)
	assert.Equal(t, i, again, "expected the compiled string to be reused")

	_, err = dc.CompileExec(prog, "1 $")
	assert.Error(t, err)
}

func Test_CompileRead(t *testing.T) {
	prog := code.NewProgram()
	read := prog.Funcs[code.ReadFunc]

	require.NoError(t, dc.CompileRead(prog, read, "2 3+\n"))
	assert.Equal(t, []string{"num 2", "num 3", "+", "pop_exec"}, listing(t, prog, code.ReadFunc))

	err := dc.CompileRead(prog, read, "\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad read() expression")
	assert.Empty(t, read.Code)
}
