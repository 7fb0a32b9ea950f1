package panicerr

import (
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	errBoom := errors.New("boom")

	assert.NoError(t, Recover("ok", func() error { return nil }))

	err := Recover("fail", func() error { return errBoom })
	assert.Equal(t, errBoom, err)
	assert.False(t, IsPanic(err))

	err = Recover("vm", func() error { panic(errBoom) })
	assert.True(t, IsPanic(err), "expected a panic error, got %v", err)
	assert.True(t, errors.Is(err, errBoom), "expected panic value to be unwrapped")
	assert.EqualError(t, err, "vm panic: boom")
	assert.NotEmpty(t, PanicStack(err))

	err = Recover("", func() error { panic("nope") })
	assert.EqualError(t, err, "panic: nope")
	assert.False(t, errors.Is(err, errBoom))

	err = Recover("quitter", func() error {
		runtime.Goexit()
		return nil
	})
	assert.True(t, IsExit(err), "expected an exit error, got %v", err)
	assert.EqualError(t, err, "quitter called runtime.Goexit")
	assert.Empty(t, PanicStack(err))
}
