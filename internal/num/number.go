// Package num implements the arbitrary precision decimal numbers of bc and dc.
//
// A Number is a sequence of decimal digits, least significant first, along
// with a scale counting how many of those digits are fractional. Arithmetic
// follows the familiar z.Op(x, y) shape: the receiver is the destination, and
// may be the same Number as either operand.
package num

// Number is an arbitrary precision decimal number. The zero value is 0.
type Number struct {
	dig   []byte
	scale int
	neg   bool
}

// New returns a new Number set to the given value.
func New(v int64) *Number { return new(Number).SetInt64(v) }

// Zero returns a new zero Number with the given scale.
func Zero(scale int) *Number { return new(Number).setZero(scale) }

// Clone returns a deep copy of x.
func (x *Number) Clone() *Number { return new(Number).Set(x) }

// Scale returns the number of fractional digits of x.
func (x *Number) Scale() int { return x.scale }

// Len returns the number of significant digits in x, as reported by the bc
// length builtin; a fractional number counts its full scale.
func (x *Number) Len() int { return len(x.dig) }

// IsZero returns true if x is zero, whatever its scale.
func (x *Number) IsZero() bool { return len(x.dig) == 0 }

// Neg returns true if x is strictly negative.
func (x *Number) Neg() bool { return x.neg }

// Sign returns -1, 0, or +1.
func (x *Number) Sign() int {
	switch {
	case len(x.dig) == 0:
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsOne returns true if x is exactly the integer 1 with no fractional digits.
func (x *Number) IsOne() bool {
	return !x.neg && x.scale == 0 && len(x.dig) == 1 && x.dig[0] == 1
}

// isUnit is like IsOne, but ignores sign.
func (x *Number) isUnit() bool {
	return x.scale == 0 && len(x.dig) == 1 && x.dig[0] == 1
}

// IsInt returns true if all of x's fractional digits are zero.
func (x *Number) IsInt() bool {
	for i := 0; i < x.scale && i < len(x.dig); i++ {
		if x.dig[i] != 0 {
			return false
		}
	}
	return true
}

// intLen returns the number of integer digits in x.
func (x *Number) intLen() int {
	if n := len(x.dig) - x.scale; n > 0 {
		return n
	}
	return 0
}

// Set sets z to a copy of x.
func (z *Number) Set(x *Number) *Number {
	if z == x {
		return z
	}
	z.dig = append(z.dig[:0], x.dig...)
	z.scale = x.scale
	z.neg = x.neg
	return z
}

// SetUint64 sets z to v with zero scale.
func (z *Number) SetUint64(v uint64) *Number {
	z.dig = z.dig[:0]
	z.scale = 0
	z.neg = false
	for ; v != 0; v /= 10 {
		z.dig = append(z.dig, byte(v%10))
	}
	return z
}

// SetInt64 sets z to v with zero scale.
func (z *Number) SetInt64(v int64) *Number {
	if v >= 0 {
		return z.SetUint64(uint64(v))
	}
	z.SetUint64(uint64(-(v + 1)) + 1)
	z.neg = true
	return z
}

// Uint64 returns the integer part of x, ignoring any fractional digits.
func (x *Number) Uint64() (uint64, error) {
	if x.neg {
		return 0, ErrNegative
	}
	const maxDiv10 = ^uint64(0) / 10
	var r uint64
	for i := len(x.dig) - 1; i >= x.scale; i-- {
		if r > maxDiv10 {
			return 0, ErrOverflow
		}
		d := uint64(x.dig[i])
		if r*10 > ^uint64(0)-d {
			return 0, ErrOverflow
		}
		r = r*10 + d
	}
	return r, nil
}

// Negate sets z to -x.
func (z *Number) Negate(x *Number) *Number {
	z.Set(x)
	if len(z.dig) > 0 {
		z.neg = !z.neg
	}
	return z
}

// Abs sets z to |x|.
func (z *Number) Abs(x *Number) *Number {
	z.Set(x)
	z.neg = false
	return z
}

// Truncate sets z to x with its fractional digits cut down to scale, if it
// has more than that.
func (z *Number) Truncate(x *Number, scale int) *Number {
	z.Set(x)
	if n := z.scale - scale; n > 0 {
		z.truncate(n)
	}
	return z
}

// SetScale sets z to x, truncated or zero extended to exactly scale
// fractional digits.
func (z *Number) SetScale(x *Number, scale int) *Number {
	z.Set(x)
	if n := z.scale - scale; n > 0 {
		z.truncate(n)
	} else if n < 0 {
		z.extend(-n)
	}
	return z
}

// truncate drops the n least significant fractional digits.
func (z *Number) truncate(n int) {
	if n > z.scale {
		n = z.scale
	}
	z.scale -= n
	if n >= len(z.dig) {
		z.dig = z.dig[:0]
	} else {
		copy(z.dig, z.dig[n:])
		z.dig = z.dig[:len(z.dig)-n]
	}
	z.norm()
}

// extend appends n zero fractional digits.
func (z *Number) extend(n int) {
	z.scale += n
	if len(z.dig) == 0 {
		return
	}
	old := len(z.dig)
	z.dig = append(z.dig, make([]byte, n)...)
	copy(z.dig[n:], z.dig[:old])
	for i := 0; i < n; i++ {
		z.dig[i] = 0
	}
}

func (z *Number) setZero(scale int) *Number {
	z.dig = z.dig[:0]
	z.scale = scale
	z.neg = false
	return z
}

// norm trims superfluous integer zeros, keeping at least scale digits for a
// non-zero value, and canonicalizes zero.
func (z *Number) norm() *Number {
	n := len(z.dig)
	for n > z.scale && z.dig[n-1] == 0 {
		n--
	}
	z.dig = z.dig[:n]
	if n < z.scale {
		z.dig = append(z.dig, make([]byte, z.scale-n)...)
	}
	if isZeros(z.dig) {
		z.dig = z.dig[:0]
		z.neg = false
	}
	return z
}

// buffer returns a zeroed digit slice of length n for z to hold a result;
// z's own storage is reused only when it is not shared with any operand.
func (z *Number) buffer(n int, operands ...*Number) []byte {
	if cap(z.dig) >= n && !z.alias(operands...) {
		d := z.dig[:n]
		for i := range d {
			d[i] = 0
		}
		return d
	}
	return make([]byte, n)
}

func (z *Number) alias(operands ...*Number) bool {
	for _, x := range operands {
		if x == z {
			return true
		}
		if cap(z.dig) > 0 && cap(x.dig) > 0 &&
			&z.dig[:cap(z.dig)][cap(z.dig)-1] == &x.dig[:cap(x.dig)][cap(x.dig)-1] {
			return true
		}
	}
	return false
}

// Cmp compares x and y, returning -1, 0, or +1.
func (x *Number) Cmp(y *Number) int {
	c, _ := x.cmpAt(y)
	return c
}

// cmpAt is like Cmp, but also returns how many leading digits of the two
// numbers agree, counted over the longer fractional alignment.
func (x *Number) cmpAt(y *Number) (int, int) {
	xs, ys := x.Sign(), y.Sign()
	if xs != ys {
		if xs < ys {
			return -1, 0
		}
		return 1, 0
	}
	if xs == 0 {
		return 0, 0
	}
	c, agree := cmpAbsAt(x, y)
	if x.neg {
		c = -c
	}
	return c, agree
}

func cmpAbsAt(x, y *Number) (int, int) {
	if xi, yi := x.intLen(), y.intLen(); xi != yi {
		if xi < yi {
			return -1, 0
		}
		return 1, 0
	}
	scale := x.scale
	if y.scale > scale {
		scale = y.scale
	}
	xd, yd := x.aligned(scale), y.aligned(scale)
	n := len(xd)
	if len(yd) > n {
		n = len(yd)
	}
	agree := 0
	for i := n - 1; i >= 0; i-- {
		a, b := digitAt(xd, i), digitAt(yd, i)
		if a != b {
			if a < b {
				return -1, agree
			}
			return 1, agree
		}
		agree++
	}
	return 0, agree
}

func digitAt(d []byte, i int) byte {
	if i < len(d) {
		return d[i]
	}
	return 0
}

// aligned returns a fresh copy of x's magnitude digits extended to scale
// fractional digits; scale must not be less than x.scale.
func (x *Number) aligned(scale int) []byte {
	pad := scale - x.scale
	d := make([]byte, pad+len(x.dig))
	copy(d[pad:], x.dig)
	return d
}

// String returns x formatted in base 10, as bc would print it.
func (x *Number) String() string {
	var p Printer
	p.appendDecimal(x)
	return string(p.buf)
}
