package runeio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	r := NewReader(strings.NewReader("one\ntwo\nthree"))

	line, err := ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, "one\n", line)

	line, err = ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, "two\n", line)

	line, err = ReadLine(r)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "three", line)

	line, err = ReadLine(r)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "", line)
}

func TestNamed(t *testing.T) {
	nr := Named("first", strings.NewReader("x"))
	assert.Equal(t, "first", nr.Name())

	renamed := Named("second", nr)
	assert.Equal(t, "second", renamed.Name())
	assert.Equal(t, nr.Reader, renamed.Reader, "expected renaming to keep the buffered reader")

	same := NewReader(renamed)
	assert.Equal(t, renamed, same)
}
