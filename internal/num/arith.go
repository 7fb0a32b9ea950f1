package num

import "context"

// Add sets z to x+y; the result carries the larger of the operand scales.
func (z *Number) Add(x, y *Number) *Number { return z.add(x, y, false) }

// Sub sets z to x-y; the result carries the larger of the operand scales.
func (z *Number) Sub(x, y *Number) *Number { return z.add(x, y, true) }

func (z *Number) add(x, y *Number, sub bool) *Number {
	scale := max(x.scale, y.scale)
	xd, yd := x.aligned(scale), y.aligned(scale)
	xneg, yneg := x.neg, y.neg != sub
	if y.IsZero() {
		yneg = false
	}

	if x.IsZero() {
		z.dig = append(z.buffer(0, x, y), yd...)
		z.scale, z.neg = scale, yneg
		return z.norm()
	}

	if xneg == yneg {
		n := max(len(xd), len(yd)) + 1
		z.dig = addDigits(z.buffer(n, x, y), xd, yd)
		z.neg = xneg
	} else {
		switch cmpDigits(xd, yd) {
		case 0:
			z.dig = z.buffer(0, x, y)
		case 1:
			z.dig = subDigits(z.buffer(len(xd), x, y), xd, yd)
			z.neg = xneg
		case -1:
			z.dig = subDigits(z.buffer(len(yd), x, y), yd, xd)
			z.neg = yneg
		}
	}
	z.scale = scale
	return z.norm()
}

// Mul sets z to x*y. The result keeps all x.scale+y.scale digits, but no more
// than the largest of scale, x.scale, and y.scale.
func (z *Number) Mul(x, y *Number, scale int) *Number {
	rscale := min(x.scale+y.scale, max(scale, max(x.scale, y.scale)))
	if x.IsZero() || y.IsZero() {
		return z.setZero(rscale)
	}
	neg := x.neg != y.neg
	if x.isUnit() || y.isUnit() {
		if x.isUnit() {
			z.Set(y)
		} else {
			z.Set(x)
		}
		z.neg = neg
		return z
	}

	dig := mulDigits(z.buffer(len(x.dig)+len(y.dig), x, y), x.dig, y.dig)
	z.dig, z.scale, z.neg = dig, x.scale+y.scale, neg
	if n := z.scale - rscale; n > 0 {
		z.truncate(n)
	}
	return z.norm()
}

// Div sets z to x/y, truncated to scale fractional digits.
func (z *Number) Div(ctx context.Context, x, y *Number, scale int) (*Number, error) {
	if y.IsZero() {
		return z, ErrDivideByZero
	}
	if x.IsZero() {
		return z.setZero(scale), nil
	}
	neg := x.neg != y.neg
	if y.isUnit() {
		z.SetScale(x, scale)
		z.neg = neg
		return z.norm(), nil
	}

	// |x|/|y| * 10^scale == X * 10^(scale+y.scale-x.scale) / Y
	var n []byte
	if e := scale + y.scale - x.scale; e >= 0 {
		n = make([]byte, e+len(x.dig))
		copy(n[e:], x.dig)
	} else if -e < len(x.dig) {
		n = append([]byte(nil), x.dig[-e:]...)
	}
	q, err := divDigits(ctx, n, y.dig)
	if err != nil {
		return z, err
	}
	z.dig, z.scale, z.neg = q, scale, neg
	return z.norm(), nil
}

// Mod sets z to the remainder of x/y computed at scale: x - (x/y)*y, with
// max(scale+y.scale, x.scale) fractional digits.
func (z *Number) Mod(ctx context.Context, x, y *Number, scale int) (*Number, error) {
	var q Number
	_, err := q.DivMod(ctx, x, y, z, scale)
	return z, err
}

// DivMod sets z to x/y truncated to scale, and r to the matching remainder as
// computed by Mod. z and r must be distinct.
func (z *Number) DivMod(ctx context.Context, x, y, r *Number, scale int) (*Number, error) {
	if z == r {
		panic("num: DivMod with identical quotient and remainder")
	}
	if y.IsZero() {
		return z, ErrDivideByZero
	}
	ts := max(scale+y.scale, x.scale)

	var q Number
	if _, err := q.Div(ctx, x, y, scale); err != nil {
		return z, err
	}
	mscale := 0
	if scale != 0 {
		mscale = ts + 1
	}
	var t, d Number
	t.Mul(&q, y, mscale)
	d.Sub(x, &t)
	d.SetScale(&d, ts)

	z.Set(&q)
	r.Set(&d)
	return z, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
