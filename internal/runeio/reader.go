package runeio

import (
	"bufio"
	"io"
	"strings"
)

// Reader is an io.Reader that can also read runes.
type Reader interface {
	io.Reader
	io.RuneReader
}

// NewReader returns r if it already reads runes, or else buffers it. A name
// provided by r, as with *os.File, is kept.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	br := bufio.NewReader(r)
	if impl, ok := r.(interface{ Name() string }); ok {
		return Named(impl.Name(), br)
	}
	return br
}

// NamedReader is a Reader that knows where its input came from.
type NamedReader struct {
	Reader
	name string
}

// Named attaches a name to r.
func Named(name string, r io.Reader) NamedReader {
	if nr, ok := r.(NamedReader); ok {
		r = nr.Reader
	}
	return NamedReader{NewReader(r), name}
}

// Name returns the name given to Named.
func (nr NamedReader) Name() string { return nr.name }

// ReadLine reads runes up to and including the next newline. At the end of
// input it returns any final unterminated line along with io.EOF.
func ReadLine(rr io.RuneReader) (string, error) {
	var sb strings.Builder
	for {
		r, _, err := rr.ReadRune()
		if err != nil {
			return sb.String(), err
		}
		sb.WriteRune(r)
		if r == '\n' {
			return sb.String(), nil
		}
	}
}
