package num

// Places sets z to x with exactly n fractional digits, where n is the integer
// value of y.
func (z *Number) Places(x, y *Number) (*Number, error) {
	n, err := shiftCount(y)
	if err != nil {
		return z, err
	}
	return z.SetScale(x, n), nil
}

// Lshift sets z to x * 10**n, where n is the integer value of y.
func (z *Number) Lshift(x, y *Number) (*Number, error) {
	n, err := shiftCount(y)
	if err != nil {
		return z, err
	}
	z.Set(x)
	z.lshift(n)
	return z, nil
}

// Rshift sets z to x / 10**n exactly, where n is the integer value of y.
func (z *Number) Rshift(x, y *Number) (*Number, error) {
	n, err := shiftCount(y)
	if err != nil {
		return z, err
	}
	z.Set(x)
	z.rshift(n)
	return z, nil
}

func shiftCount(y *Number) (int, error) {
	if !y.IsInt() {
		return 0, ErrNonInteger
	}
	n, err := y.Uint64()
	if err != nil {
		return 0, err
	}
	if n > maxWorkScale {
		return 0, ErrOverflow
	}
	return int(n), nil
}

// lshift multiplies z by 10**n in place, consuming fractional digits first.
func (z *Number) lshift(n int) {
	if n <= 0 {
		return
	}
	if z.IsZero() {
		z.scale = max(z.scale-n, 0)
		return
	}
	if z.scale >= n {
		z.scale -= n
	} else {
		pad := n - z.scale
		z.scale = 0
		z.dig = append(z.dig, make([]byte, pad)...)
		copy(z.dig[pad:], z.dig)
		for i := 0; i < pad; i++ {
			z.dig[i] = 0
		}
	}
	z.norm()
}

// rshift divides z by 10**n in place, turning integer digits fractional.
func (z *Number) rshift(n int) {
	if n <= 0 {
		return
	}
	z.scale += n
	z.norm()
}
