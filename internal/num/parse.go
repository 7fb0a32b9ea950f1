package num

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// MaxLetterBase is the base implied by the largest single letter digit, Z.
const MaxLetterBase = 36

// ValidLiteral returns true if s is made only of digits, upper case letters,
// and at most one radix point.
func ValidLiteral(s string) bool {
	if s == "" {
		return false
	}
	dot := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			if dot {
				return false
			}
			dot = true
		case '0' <= c && c <= '9', 'A' <= c && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// Parse sets z to the value of the literal s read in the given base.
//
// Letters take values from 10 upward, but are clamped to base-1 when used as
// a digit; a literal of a single letter keeps the letter's value regardless
// of base. Non-decimal fractions are computed to as many digits as the
// literal has after its radix point.
func (z *Number) Parse(ctx context.Context, s string, base int) (*Number, error) {
	if !ValidLiteral(s) {
		return z, errors.Wrapf(ErrBadNumber, "%q", s)
	}
	if base < 2 || base > MaxLetterBase {
		return z, errors.Wrapf(ErrBadBase, "%v", base)
	}
	if len(s) == 1 && s[0] != '.' {
		return z.SetUint64(uint64(digitValue(s[0], MaxLetterBase))), nil
	}
	if base == 10 {
		z.parseDecimal(s)
		return z, nil
	}
	return z.parseBase(ctx, s, base)
}

func digitValue(c byte, base int) int {
	if 'A' <= c && c <= 'Z' {
		v := int(c-'A') + 10
		if v >= base {
			v = base - 1
		}
		return v
	}
	return int(c - '0')
}

func (z *Number) parseDecimal(s string) {
	s = strings.TrimLeft(s, "0")
	scale := 0
	if i := strings.IndexByte(s, '.'); i >= 0 {
		scale = len(s) - i - 1
	}
	dig := make([]byte, 0, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		switch c := s[i]; {
		case c == '.':
		case 'A' <= c && c <= 'Z':
			dig = append(dig, 9)
		default:
			dig = append(dig, c-'0')
		}
	}
	z.dig, z.scale, z.neg = dig, scale, false
	z.norm()
}

func (z *Number) parseBase(ctx context.Context, s string, base int) (*Number, error) {
	if strings.Trim(s, "0.") == "" {
		return z.setZero(0), nil
	}
	var n, b, d, t Number
	b.SetUint64(uint64(base))

	i := 0
	for ; i < len(s) && s[i] != '.'; i++ {
		if err := ctx.Err(); err != nil {
			return z, err
		}
		t.Mul(&n, &b, 0)
		d.SetUint64(uint64(digitValue(s[i], base)))
		n.Add(&t, &d)
	}
	if i == len(s) {
		return z.Set(&n), nil
	}

	var frac, mult Number
	mult.SetUint64(1)
	digs := 0
	for i++; i < len(s); i, digs = i+1, digs+1 {
		if err := ctx.Err(); err != nil {
			return z, err
		}
		frac.Mul(&frac, &b, 0)
		d.SetUint64(uint64(digitValue(s[i], base)))
		frac.Add(&frac, &d)
		mult.Mul(&mult, &b, 0)
	}
	if _, err := frac.Div(ctx, &frac, &mult, digs*2); err != nil {
		return z, err
	}
	frac.Truncate(&frac, digs)
	n.Add(&n, &frac)
	if n.IsZero() {
		return z.setZero(0), nil
	}
	if n.scale < digs {
		n.extend(digs - n.scale)
	}
	return z.Set(&n), nil
}
