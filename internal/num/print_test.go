package num_test

import (
	"bytes"
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobc/internal/num"
)

func Test_Parse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		base int
		want string
		err  error
	}{
		{"FF", 16, "255", nil},
		{"ff", 16, "", num.ErrBadNumber},
		{"10", 2, "2", nil},
		{"777", 8, "511", nil},
		{"1.8", 16, "1.5", nil},
		{"1.1", 2, "1.5", nil},
		{"0.0", 16, "0", nil},
		{"A", 10, "10", nil},
		{"AA", 10, "99", nil},
		{"G", 16, "16", nil},
		{"Z", 2, "35", nil},
		{"1G", 16, "31", nil},
		{"19", 8, "17", nil},
		{".5", 10, ".5", nil},
		{"5.", 10, "5", nil},
		{"1.2.3", 10, "", num.ErrBadNumber},
		{"", 10, "", num.ErrBadNumber},
		{"-1", 10, "", num.ErrBadNumber},
		{"1", 1, "", num.ErrBadBase},
		{"1", 37, "", num.ErrBadBase},
	} {
		t.Run(tc.in+"_"+strconv.Itoa(tc.base), func(t *testing.T) {
			n, err := new(num.Number).Parse(context.Background(), tc.in, tc.base)
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err), "expected error %v, got %v", tc.err, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, n.String())
		})
	}
}

func printed(t testing.TB, p *num.Printer, n *num.Number, base int) string {
	var buf bytes.Buffer
	require.NoError(t, p.Print(context.Background(), &buf, n, base, false))
	return buf.String()
}

func Test_Printer_Print(t *testing.T) {
	for _, tc := range []struct {
		in   string
		base int
		want string
	}{
		{"0", 10, "0"},
		{"0.000", 16, "0"},
		{"0.3333", 10, ".3333"},
		{"-0.5", 10, "-.5"},
		{"255", 16, "FF"},
		{"-255", 16, "-FF"},
		{"5", 2, "101"},
		{"0.5", 16, ".8"},
		{"10.5", 16, "A.8"},
		{"1515", 100, " 15 15"},
		{"1000", 1000, " 001 000"},
		{"7", 20, " 07"},
	} {
		t.Run(tc.in+"_"+strconv.Itoa(tc.base), func(t *testing.T) {
			var p num.Printer
			assert.Equal(t, tc.want, printed(t, &p, parse(t, tc.in), tc.base))
		})
	}
}

func Test_Printer_wrap(t *testing.T) {
	p := num.Printer{LineLen: 5}
	assert.Equal(t, "1234\\\n5678\\\n9", printed(t, &p, parse(t, "123456789"), 10))
	assert.Equal(t, 1, p.Col)

	var buf bytes.Buffer
	require.NoError(t, p.Print(context.Background(), &buf, num.New(1), 10, true))
	assert.Equal(t, "1\n", buf.String(), "expected column to carry over")
	assert.Equal(t, 0, p.Col)

	p = num.Printer{LineLen: 1}
	assert.Equal(t, "123456789", printed(t, &p, parse(t, "123456789"), 10), "expected no wrapping")
}

func Test_Printer_columns(t *testing.T) {
	var (
		p   num.Printer
		buf bytes.Buffer
	)
	require.NoError(t, p.WriteString(&buf, "abc"))
	assert.Equal(t, 3, p.Col)
	require.NoError(t, p.WriteString(&buf, "d\nef"))
	assert.Equal(t, 2, p.Col)
	require.NoError(t, p.WriteByte(&buf, '\n'))
	assert.Equal(t, 0, p.Col)
	assert.Equal(t, "abcd\nef\n", buf.String())
}

func Test_Printer_Stream(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"65", "A"},
		{"16706", "AB"},
		{"65.9", "A"},
		{"0", ""},
	} {
		var (
			p   num.Printer
			buf bytes.Buffer
		)
		require.NoError(t, p.Stream(context.Background(), &buf, parse(t, tc.in)))
		assert.Equal(t, tc.want, buf.String(), "streaming %v", tc.in)
	}
}

func Test_Printer_roundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		v := rng.Int63()
		base := 2 + rng.Intn(num.MaxHexBase-1)
		n := num.New(v)

		var p num.Printer
		s := printed(t, &p, n, base)
		back, err := new(num.Number).Parse(context.Background(), s, base)
		require.NoError(t, err, "parsing %q in base %v", s, base)
		assert.Equal(t, 0, back.Cmp(n), "%v printed in base %v as %q", v, base, s)
	}
}
