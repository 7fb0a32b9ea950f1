// Package fileinput reads lines through a queue of named input streams.
package fileinput

import (
	"fmt"
	"io"

	"github.com/jcorbin/gobc/internal/runeio"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string {
	if loc.Line == 0 {
		return loc.Name
	}
	return fmt.Sprintf("%v:%v", loc.Name, loc.Line)
}

// Input reads lines from each stream of its Queue in turn. Loc is the
// location of the last line read.
type Input struct {
	Queue []io.Reader
	Loc   Location

	src io.Reader
	rr  io.RuneReader
}

// ReadLine returns the next line of the current stream, including its
// newline. Each stream ends with exactly one io.EOF, returned along with any
// unterminated final line; the next call moves on to the following stream.
// Once the Queue is exhausted every call returns io.EOF.
func (in *Input) ReadLine() (string, error) {
	if in.rr == nil && !in.nextIn() {
		return "", io.EOF
	}
	line, err := runeio.ReadLine(in.rr)
	if line != "" {
		in.Loc.Line++
	}
	if err != nil {
		in.close()
	}
	return line, err
}

// Done returns true once every queued stream has been read through.
func (in *Input) Done() bool {
	return in.rr == nil && len(in.Queue) == 0
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.src, in.rr = r, runeio.NewReader(r)
	in.Loc = Location{Name: nameOf(r)}
	return true
}

func (in *Input) close() {
	if cl, ok := in.src.(io.Closer); ok {
		cl.Close()
	}
	in.src, in.rr = nil, nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
