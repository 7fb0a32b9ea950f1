package num

import (
	"context"
	"io"
	"strconv"
)

const hexDigits = "0123456789ABCDEF"

// MaxHexBase is the largest output base whose digits print as single
// characters; larger bases print space separated decimal groups.
const MaxHexBase = 16

// Printer writes numbers and text to an output stream, tracking the output
// column so that long numbers are broken with a backslash continuation once
// they reach LineLen-1 characters.
type Printer struct {
	// LineLen is the output line length; wrapping is disabled below 2.
	LineLen int

	// Col is the number of characters written since the last newline.
	Col int

	buf []byte
}

// Print writes x in the given output base, followed by a newline if asked.
// The context is consulted between output digits.
func (p *Printer) Print(ctx context.Context, w io.Writer, x *Number, base int, newline bool) error {
	if base < 2 {
		return ErrBadBase
	}
	p.buf = p.buf[:0]
	switch {
	case x.IsZero():
		p.hexDigit(0, false)
	case base == 10:
		p.appendDecimal(x)
	default:
		if err := p.appendBase(ctx, x, base); err != nil {
			p.buf = p.buf[:0]
			return err
		}
	}
	if newline {
		p.buf = append(p.buf, '\n')
		p.Col = 0
	}
	return p.flush(w)
}

// Stream writes the integer part of |x| as a sequence of base 256 bytes, most
// significant first.
func (p *Printer) Stream(ctx context.Context, w io.Writer, x *Number) error {
	p.buf = p.buf[:0]
	d := trimTop(x.dig[min(x.scale, len(x.dig)):])
	var stack []byte
	for len(d) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		var r uint64
		d, r = divSmall(d, 256)
		stack = append(stack, byte(r))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		p.buf = append(p.buf, stack[i])
		p.Col++
	}
	return p.flush(w)
}

// WriteString writes s verbatim, updating the output column.
func (p *Printer) WriteString(w io.Writer, s string) error {
	p.buf = append(p.buf[:0], s...)
	p.advance(s)
	return p.flush(w)
}

// WriteByte writes a single byte, updating the output column.
func (p *Printer) WriteByte(w io.Writer, c byte) error {
	p.buf = append(p.buf[:0], c)
	p.advance(string(c))
	return p.flush(w)
}

func (p *Printer) advance(s string) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' {
			p.Col = len(s) - i - 1
			return
		}
	}
	p.Col += len(s)
}

func (p *Printer) flush(w io.Writer) error {
	if len(p.buf) == 0 {
		return nil
	}
	_, err := w.Write(p.buf)
	p.buf = p.buf[:0]
	return err
}

func (p *Printer) wrap() {
	if p.LineLen > 1 && p.Col >= p.LineLen-1 {
		p.buf = append(p.buf, '\\', '\n')
		p.Col = 0
	}
}

func (p *Printer) hexDigit(d int, radix bool) {
	if radix {
		p.wrap()
		p.buf = append(p.buf, '.')
		p.Col++
	}
	p.wrap()
	p.buf = append(p.buf, hexDigits[d])
	p.Col++
}

func (p *Printer) groupDigit(d int, width int, radix bool) {
	p.wrap()
	if radix {
		p.buf = append(p.buf, '.')
	} else {
		p.buf = append(p.buf, ' ')
	}
	p.Col++
	s := strconv.Itoa(d)
	for i := len(s); i < width; i++ {
		s = "0" + s
	}
	p.wrap()
	for i := 0; i < len(s); i++ {
		p.wrap()
		p.buf = append(p.buf, s[i])
		p.Col++
	}
}

func (p *Printer) appendDecimal(x *Number) {
	if x.IsZero() {
		p.hexDigit(0, false)
		return
	}
	if x.neg {
		p.buf = append(p.buf, '-')
		p.Col++
	}
	leading := true
	for i := len(x.dig) - 1; i >= 0; i-- {
		radix := i == x.scale-1
		if radix {
			leading = false
		}
		if leading && x.dig[i] == 0 {
			continue
		}
		leading = false
		p.hexDigit(int(x.dig[i]), radix)
	}
}

func (p *Printer) appendBase(ctx context.Context, x *Number, base int) error {
	digit := p.hexDigit
	width := 1
	if base > MaxHexBase {
		width = len(strconv.Itoa(base - 1))
		digit = func(d int, radix bool) { p.groupDigit(d, width, radix) }
	}
	b := uint64(base)

	if x.neg {
		p.buf = append(p.buf, '-')
		p.Col++
	}

	var stack []int
	for d := trimTop(x.dig[min(x.scale, len(x.dig)):]); len(d) > 0; {
		if err := ctx.Err(); err != nil {
			return err
		}
		var r uint64
		d, r = divSmall(d, b)
		stack = append(stack, int(r))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		digit(stack[i], false)
	}

	if x.scale == 0 {
		return nil
	}
	frac := append([]byte(nil), x.dig[:min(x.scale, len(x.dig))]...)
	fracLen := []byte{1}
	for radix := true; len(trimTop(fracLen)) <= x.scale; radix = false {
		if err := ctx.Err(); err != nil {
			return err
		}
		frac = mulSmall(frac, b)
		var d uint64
		if len(frac) > x.scale {
			d = digitsValue(frac[x.scale:])
			frac = frac[:x.scale]
		}
		digit(int(d), radix)
		fracLen = mulSmall(fracLen, b)
	}
	return nil
}
