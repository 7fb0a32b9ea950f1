package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jcorbin/gobc/internal/runeio"
)

type fmtBuf interface {
	Len() int
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	WriteString(s string) (n int, err error)
}

// lineBuffer accumulates one line of dump output at a time.
type lineBuffer struct{ bytes.Buffer }

func (buf *lineBuffer) WriteTo(w io.Writer) (int64, error) {
	if b := buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		buf.WriteByte('\n')
	}
	return buf.Buffer.WriteTo(w)
}

type vmDumper struct {
	vm  *VM
	out io.Writer

	// code enables disassembly of every defined function.
	code bool
}

func (dump vmDumper) dump() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  mode: %v\n", vm.mode)
	fmt.Fprintf(dump.out, "  scopes: %v\n", vm.scopes)
	fmt.Fprintf(dump.out, "  tails: %v\n", vm.tails)
	fmt.Fprintf(dump.out, "  last: %v\n", vm.last)

	dump.dumpFrames()
	dump.dumpResults()
	dump.dumpVars()
	dump.dumpArrays()
	if dump.code {
		dump.dumpCode()
	}
}

func (dump vmDumper) dumpFrames() {
	var buf lineBuffer
	buf.WriteString("  frames:")
	for _, f := range dump.vm.frames {
		fmt.Fprintf(&buf, " %v@%v", dump.vm.prog.Funcs[f.fn].Name, f.ip)
		if f.mark > 0 {
			fmt.Fprintf(&buf, "^%v", f.mark)
		}
	}
	buf.WriteTo(dump.out)
}

func (dump vmDumper) dumpResults() {
	if len(dump.vm.results) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Results\n")
	width := len(strconv.Itoa(len(dump.vm.results)))
	var buf lineBuffer
	for i := len(dump.vm.results) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "  @% *v ", width, i)
		dump.formatResult(&buf, dump.vm.results[i])
		buf.WriteTo(dump.out)
	}
}

func (dump vmDumper) formatResult(buf fmtBuf, res result) {
	buf.WriteString(res.kind.String())
	switch res.kind {
	case resTemp, resConst, resIbase, resObase, resScale:
		buf.WriteByte(' ')
		buf.WriteString(res.n.String())
	case resStr:
		buf.WriteByte(' ')
		buf.WriteString(strconv.Quote(res.str))
	case resVar:
		buf.WriteByte(' ')
		buf.WriteString(dump.vm.prog.Vars.Name(res.idx))
	case resArray:
		buf.WriteByte(' ')
		buf.WriteString(dump.vm.prog.Arrays.Name(res.idx))
		buf.WriteString("[]")
	case resArrayElem:
		fmt.Fprintf(buf, " %v[%v]", dump.vm.prog.Arrays.Name(res.idx), res.elem)
	}
}

func (dump vmDumper) dumpVars() {
	header := false
	var buf lineBuffer
	for i, stack := range dump.vm.vars {
		if len(stack) == 0 {
			continue
		}
		if !header {
			fmt.Fprintf(dump.out, "# Variables\n")
			header = true
		}
		fmt.Fprintf(&buf, "  %v:", dump.vm.prog.Vars.Name(i))
		for _, v := range stack {
			buf.WriteByte(' ')
			formatValue(&buf, v)
		}
		buf.WriteTo(dump.out)
	}
}

func (dump vmDumper) dumpArrays() {
	header := false
	var buf lineBuffer
	for i, layers := range dump.vm.arrays {
		if len(layers) == 0 {
			continue
		}
		if !header {
			fmt.Fprintf(dump.out, "# Arrays\n")
			header = true
		}
		fmt.Fprintf(&buf, "  %v[]:", dump.vm.prog.Arrays.Name(i))
		for _, arr := range layers {
			if arr.ref != nil {
				fmt.Fprintf(&buf, " &%v[]@%v", dump.vm.prog.Arrays.Name(arr.ref.idx), arr.ref.depth)
				continue
			}
			buf.WriteString(" [")
			for j, v := range arr.vals {
				if j > 0 {
					buf.WriteByte(' ')
				}
				formatValue(&buf, v)
			}
			buf.WriteByte(']')
		}
		buf.WriteTo(dump.out)
	}
}

func (dump vmDumper) dumpCode() {
	fmt.Fprintf(dump.out, "# Functions\n")
	for i, fn := range dump.vm.prog.Funcs {
		if fn.Defined() {
			dump.vm.prog.Disasm(dump.out, i)
		}
	}
}

func formatValue(buf fmtBuf, v value) {
	if v.isStr {
		buf.WriteByte('[')
		buf.WriteString(runeio.Visible(v.str))
		buf.WriteByte(']')
	} else {
		buf.WriteString(v.n.String())
	}
}
