package num

import "context"

// Magnitude helpers over least significant first digit slices. None of them
// retain their arguments.

func isZeros(d []byte) bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

func trimTop(d []byte) []byte {
	n := len(d)
	for n > 0 && d[n-1] == 0 {
		n--
	}
	return d[:n]
}

func cmpDigits(x, y []byte) int {
	x, y = trimTop(x), trimTop(y)
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// addDigits stores x+y into z, which must be at least one digit longer than
// the longer operand.
func addDigits(z, x, y []byte) []byte {
	if len(x) < len(y) {
		x, y = y, x
	}
	var carry byte
	i := 0
	for ; i < len(y); i++ {
		s := x[i] + y[i] + carry
		carry = s / 10
		z[i] = s % 10
	}
	for ; i < len(x); i++ {
		s := x[i] + carry
		carry = s / 10
		z[i] = s % 10
	}
	z[i] = carry
	return z[:i+1]
}

// subDigits stores x-y into z, which must be as long as x; x must not be less
// than y.
func subDigits(z, x, y []byte) []byte {
	var borrow byte
	i := 0
	for ; i < len(y); i++ {
		a, b := x[i], y[i]+borrow
		if a < b {
			z[i] = a + 10 - b
			borrow = 1
		} else {
			z[i] = a - b
			borrow = 0
		}
	}
	for ; i < len(x); i++ {
		a := x[i]
		if a < borrow {
			z[i] = a + 10 - borrow
		} else {
			z[i] = a - borrow
			borrow = 0
		}
	}
	return z[:len(x)]
}

// mulDigits stores x*y into z, which must hold len(x)+len(y) digits.
// Partial products accumulate uncarried, then carries propagate in one pass.
func mulDigits(z, x, y []byte) []byte {
	acc := make([]uint64, len(x)+len(y))
	for i, a := range x {
		if a == 0 {
			continue
		}
		for j, b := range y {
			acc[i+j] += uint64(a) * uint64(b)
		}
	}
	var carry uint64
	for i, v := range acc {
		v += carry
		z[i] = byte(v % 10)
		carry = v / 10
	}
	return z[:len(acc)]
}

// divDigits returns the integer quotient of n / d, computing each quotient
// digit by counting subtractions of d from the running remainder. The context
// is consulted between quotient digits.
func divDigits(ctx context.Context, n, d []byte) ([]byte, error) {
	d = trimTop(d)
	q := make([]byte, len(n))
	r := make([]byte, 0, len(d)+1)
	for i := len(n) - 1; i >= 0; i-- {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		r = append(r, 0)
		copy(r[1:], r)
		r[0] = n[i]
		r = trimTop(r)
		var c byte
		for cmpDigits(r, d) >= 0 {
			r = trimTop(subDigits(r, r, d))
			c++
		}
		q[i] = c
	}
	return q, nil
}

// divSmall divides d by a small divisor, returning the quotient and remainder.
func divSmall(d []byte, b uint64) ([]byte, uint64) {
	q := make([]byte, len(d))
	var r uint64
	for i := len(d) - 1; i >= 0; i-- {
		r = r*10 + uint64(d[i])
		q[i] = byte(r / b)
		r %= b
	}
	return trimTop(q), r
}

// mulSmall returns d*m.
func mulSmall(d []byte, m uint64) []byte {
	z := make([]byte, 0, len(d)+20)
	var carry uint64
	for _, v := range d {
		p := uint64(v)*m + carry
		z = append(z, byte(p%10))
		carry = p / 10
	}
	for ; carry != 0; carry /= 10 {
		z = append(z, byte(carry%10))
	}
	return z
}

// digitsValue returns the value of a short digit slice.
func digitsValue(d []byte) uint64 {
	var v uint64
	for i := len(d) - 1; i >= 0; i-- {
		v = v*10 + uint64(d[i])
	}
	return v
}
