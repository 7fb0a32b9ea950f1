package num

import "context"

// Pow sets z to x**y. The exponent must be an integer. A positive exponent
// keeps min(x.scale*y, max(scale, x.scale)) fractional digits; a negative one
// computes the positive power and inverts it at scale.
func (z *Number) Pow(ctx context.Context, x, y *Number, scale int) (*Number, error) {
	if !y.IsInt() {
		return z, ErrNonInteger
	}
	var e Number
	e.Truncate(y, 0)
	if e.IsZero() {
		return z.SetUint64(1), nil
	}
	if x.IsZero() {
		return z.setZero(scale), nil
	}
	if e.isUnit() {
		if !e.neg {
			return z.Set(x), nil
		}
		return z.Div(ctx, one, x, scale)
	}

	neg := e.neg
	e.neg = false
	p, err := e.Uint64()
	if err != nil {
		return z, err
	}
	if !neg {
		scale = powScale(x.scale, p, scale)
	}

	var base, res Number
	base.Set(x)
	powrdx := x.scale
	for ; p&1 == 0; p >>= 1 {
		if err := ctx.Err(); err != nil {
			return z, err
		}
		powrdx = double(powrdx)
		base.Mul(&base, &base, powrdx)
	}
	res.Set(&base)
	resrdx := powrdx
	for p >>= 1; p != 0; p >>= 1 {
		if err := ctx.Err(); err != nil {
			return z, err
		}
		powrdx = double(powrdx)
		base.Mul(&base, &base, powrdx)
		if p&1 != 0 {
			resrdx = sum(resrdx, powrdx)
			res.Mul(&res, &base, resrdx)
		}
	}

	if neg {
		if _, err := res.Div(ctx, one, &res, scale); err != nil {
			return z, err
		}
	}
	if res.scale > scale {
		res.truncate(res.scale - scale)
	}
	if res.IsZero() {
		res.setZero(scale)
	}
	return z.Set(&res), nil
}

// maxWorkScale bounds intermediate scales that would otherwise grow without
// limit under repeated doubling.
const maxWorkScale = 1 << 30

func double(n int) int {
	if n >= maxWorkScale/2 {
		return maxWorkScale
	}
	return n * 2
}

func sum(a, b int) int {
	if a+b >= maxWorkScale {
		return maxWorkScale
	}
	return a + b
}

func powScale(xscale int, p uint64, scale int) int {
	want := max(scale, xscale)
	if xscale == 0 {
		return 0
	}
	if p >= uint64(want/xscale)+1 {
		return want
	}
	return min(xscale*int(p), want)
}

var (
	one  = New(1)
	two  = New(2)
	half = &Number{dig: []byte{5}, scale: 1}
)

// Sqrt sets z to the square root of x, with max(scale, x.scale) fractional
// digits. The context is consulted between Newton iterations.
func (z *Number) Sqrt(ctx context.Context, x *Number, scale int) (*Number, error) {
	if x.neg {
		return z, ErrNegative
	}
	scale = max(scale, x.scale)
	if x.IsZero() {
		return z.setZero(scale), nil
	}
	if x.IsOne() {
		return z.SetScale(one, scale), nil
	}

	var x0, x1, f, fp Number
	x0.SetUint64(1)
	if pow := x.intLen(); pow > 0 {
		if pow&1 != 0 {
			x0.dig[0] = 2
		} else {
			x0.dig[0] = 6
		}
		pow -= 2 - (pow & 1)
		x0.lshift(pow / 2)
	}

	rscale := scale + 2
	want := x0.intLen() + rscale - 1
	// bound on iterations spent oscillating in the last digit
	const maxTimes = 4
	maxIter := 64 + 4*(x.Len()+rscale)
	cmp1, cmp2, digs1, times := 2, 2, 0, 0

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return z, err
		}
		if _, err := f.Div(ctx, x, &x0, rscale); err != nil {
			return z, err
		}
		fp.Add(&x0, &f)
		x1.Mul(&fp, half, rscale)

		cmp, agree := x1.cmpAt(&x0)
		if cmp == 0 && agree >= want {
			break
		}
		digs := agree
		if cmp == cmp2 && digs == digs1 {
			times++
		} else {
			times = 0
		}
		if times > maxTimes {
			rscale++
		}
		cmp2, cmp1, digs1 = cmp1, cmp, digs

		x0, x1 = x1, x0
		if x0.IsZero() || i >= maxIter {
			break
		}
	}
	return z.SetScale(&x0, scale), nil
}

// ModExp sets z to (b ** e) mod m. All operands must be integers, e must not
// be negative, and m must not be zero.
func (z *Number) ModExp(ctx context.Context, b, e, m *Number) (*Number, error) {
	if m.IsZero() {
		return z, ErrDivideByZero
	}
	if e.neg {
		return z, ErrNegative
	}
	if !b.IsInt() || !e.IsInt() || !m.IsInt() {
		return z, ErrNonInteger
	}

	var base, exp, res, bit, t, mod Number
	mod.Truncate(m, 0)
	exp.Truncate(e, 0)
	base.Truncate(b, 0)
	if _, err := base.Mod(ctx, &base, &mod, 0); err != nil {
		return z, err
	}
	res.SetUint64(1)

	for !exp.IsZero() {
		if _, err := exp.DivMod(ctx, &exp, two, &bit, 0); err != nil {
			return z, err
		}
		if bit.IsOne() {
			t.Mul(&res, &base, 0)
			if _, err := res.Mod(ctx, &t, &mod, 0); err != nil {
				return z, err
			}
		}
		t.Mul(&base, &base, 0)
		if _, err := base.Mod(ctx, &t, &mod, 0); err != nil {
			return z, err
		}
	}
	return z.Set(&res), nil
}
