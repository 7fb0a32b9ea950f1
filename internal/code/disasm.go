package code

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Disasm writes a listing of the i-th function, one instruction per line.
func (p *Program) Disasm(w io.Writer, i int) error {
	fn := p.Funcs[i]

	var sb strings.Builder
	sb.WriteString(fn.Name)
	if len(fn.Autos) > 0 {
		sb.WriteByte('(')
		for j, auto := range fn.Autos {
			if j == fn.NParams {
				sb.WriteString("; ")
			} else if j > 0 {
				sb.WriteString(", ")
			}
			if auto.Ref {
				sb.WriteByte('*')
			}
			if auto.Array {
				sb.WriteString(p.Arrays.Name(auto.Name))
				sb.WriteString("[]")
			} else {
				sb.WriteString(p.Vars.Name(auto.Name))
			}
		}
		sb.WriteByte(')')
	}
	if fn.Void {
		sb.WriteString(" void")
	}
	sb.WriteString(":\n")

	for ip := 0; ip < len(fn.Code); {
		for label, at := range fn.Labels {
			if at == ip {
				fmt.Fprintf(&sb, "L%v:\n", label)
			}
		}
		next, err := p.formatOp(&sb, fn, ip)
		sb.WriteByte('\n')
		if err != nil {
			io.WriteString(w, sb.String())
			return err
		}
		ip = next
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatOp returns a one line rendering of the instruction at fn.Code[ip].
func (p *Program) FormatOp(fn *Func, ip int) string {
	var sb strings.Builder
	if _, err := p.formatOp(&sb, fn, ip); err != nil {
		sb.WriteString(" !")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (p *Program) formatOp(sb *strings.Builder, fn *Func, ip int) (int, error) {
	var buf [2]int
	op, args, next, err := Decode(fn.Code, ip, buf[:0])
	fmt.Fprintf(sb, "  @%-4v %v", ip, op)
	if err != nil {
		return next, err
	}
	for i, arg := range args {
		sb.WriteByte(' ')
		switch op {
		case OpNum:
			if arg < len(fn.Consts) {
				sb.WriteString(fn.Consts[arg].Text)
			} else {
				fmt.Fprintf(sb, "const#%v", arg)
			}
		case OpStr:
			if arg < len(fn.Strs) {
				sb.WriteString(strconv.Quote(fn.Strs[arg]))
			} else {
				fmt.Fprintf(sb, "str#%v", arg)
			}
		case OpVar, OpPushReg, OpPopReg, OpLoad:
			p.formatName(sb, p.Vars, arg)
		case OpArrayElem, OpArray, OpLoadElem:
			p.formatName(sb, p.Arrays, arg)
			sb.WriteString("[]")
		case OpAssign, OpAssignNoVal:
			sb.WriteString(Op(arg).String())
		case OpCall:
			if i == 0 {
				sb.WriteString(strconv.Itoa(arg))
			} else if arg < len(p.Funcs) {
				sb.WriteString(p.Funcs[arg].Name)
			} else {
				fmt.Fprintf(sb, "func#%v", arg)
			}
		case OpJump, OpJumpZero:
			fmt.Fprintf(sb, "L%v", arg)
			if arg < len(fn.Labels) {
				fmt.Fprintf(sb, "(@%v)", fn.Labels[arg])
			}
		case OpExecCond:
			if i == 1 {
				if arg == NoElse {
					sb.WriteString("-")
					break
				}
				arg--
			}
			p.formatName(sb, p.Vars, arg)
		default:
			sb.WriteString(strconv.Itoa(arg))
		}
	}
	return next, nil
}

func (p *Program) formatName(sb *strings.Builder, names Names, i int) {
	if name := names.Name(i); name != "" {
		sb.WriteString(name)
	} else {
		fmt.Fprintf(sb, "UNDEFINED_NAME_%v", i)
	}
}
