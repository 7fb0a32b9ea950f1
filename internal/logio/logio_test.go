package logio

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("nope") }

func TestLogger(t *testing.T) {
	var out strings.Builder
	log := NewLogger(&out)

	log.Printf("INFO", "hello %v", "world")
	log.Leveledf("WARN")("careful\n")
	assert.Equal(t, 0, log.ExitCode())

	log.ErrorIf(nil)
	assert.Equal(t, 0, log.ExitCode())

	log.ErrorIf(errors.New("boom"))
	log.Errorf("%v: %v", "a.bc:3", "bad")
	assert.Equal(t, 1, log.ExitCode())

	log.Printf("", "bare")
	assert.Equal(t, strings.Join([]string{
		"INFO: hello world",
		"WARN: careful",
		"ERROR: boom",
		"ERROR: a.bc:3: bad",
		"bare",
	}, "\n")+"\n", out.String())

	log.SetOutput(failWriter{})
	log.Printf("INFO", "lost")
	assert.Equal(t, 2, log.ExitCode())
}

func TestWriter(t *testing.T) {
	var logged []string
	lw := Writer{Logf: func(mess string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(mess, args...))
	}}
	lw.Write([]byte("one\ntw"))
	lw.Write([]byte("o\nthr"))
	assert.Equal(t, []string{"one", "two"}, logged)
	assert.NoError(t, lw.Close())
	assert.Equal(t, []string{"one", "two", "thr"}, logged)
}
