// Package logio routes program output and diagnostics through line oriented
// logging functions.
package logio

import (
	"bytes"
	"sync"
)

// Writer is an io.Writer that passes each complete line written to Logf,
// without its newline.
type Writer struct {
	Logf func(string, ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p and logs any lines that it completes; it never fails.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.logLines(false)
	return len(p), nil
}

// Close logs any final partial line.
func (lw *Writer) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.logLines(true)
	return nil
}

func (lw *Writer) logLines(all bool) {
	for lw.buf.Len() > 0 {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		switch {
		case i >= 0:
			line := string(lw.buf.Next(i))
			lw.buf.Next(1)
			lw.Logf("%s", line)
		case all:
			lw.Logf("%s", string(lw.buf.Next(lw.buf.Len())))
		default:
			return
		}
	}
}
