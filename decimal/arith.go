package decimal

import "math/big"

// Add returns d + o at scale max(d.Scale(), o.Scale()).
func (d Decimal) Add(o Decimal) Decimal {
	s := max(d.scale, o.scale)
	c := new(big.Int).Add(rescale(d.c(), d.scale, s, HalfUp), rescale(o.c(), o.scale, s, HalfUp))
	return Decimal{coef: c, scale: s, precision: sumPrecision(d, o, s, c)}
}

// Sub returns d - o at scale max(d.Scale(), o.Scale()).
func (d Decimal) Sub(o Decimal) Decimal {
	s := max(d.scale, o.scale)
	c := new(big.Int).Sub(rescale(d.c(), d.scale, s, HalfUp), rescale(o.c(), o.scale, s, HalfUp))
	return Decimal{coef: c, scale: s, precision: sumPrecision(d, o, s, c)}
}

// sumPrecision estimates the integer digits of a sum from the operands and
// widens to the actual digit count when a carry adds one.
func sumPrecision(a, b Decimal, scale int, c *big.Int) int {
	est := max(a.Precision()-a.scale, b.Precision()-b.scale) + scale
	return max(est, numDigits(c), 1)
}

// Mul returns d * o. The exact product has scale d.Scale()+o.Scale(); the
// result is published at max(d.Scale(), o.Scale()), rounded half-up.
func (d Decimal) Mul(o Decimal) Decimal {
	prod := new(big.Int).Mul(d.c(), o.c())
	s := max(d.scale, o.scale)
	c := rescale(prod, d.scale+o.scale, s, HalfUp)
	return Decimal{coef: c, scale: s, precision: max(d.Precision(), o.Precision(), numDigits(c))}
}

// Div returns d / o at the divisor's scale, rounded half-up on the sign of
// the true quotient.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.IsZero() {
		return Decimal{}, newError("div", d.String()+" / "+o.String(), ErrDivisionByZero)
	}
	// q = d.coef * 10^(o.scale + target - d.scale) / o.coef
	target := o.scale
	num := new(big.Int).Set(d.c())
	den := new(big.Int).Set(o.c())
	if e := o.scale + target - d.scale; e >= 0 {
		num.Mul(num, pow10(e))
	} else {
		den.Mul(den, pow10(-e))
	}
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		twice := new(big.Int).Abs(r)
		twice.Lsh(twice, 1)
		if twice.CmpAbs(den) >= 0 {
			if num.Sign()*den.Sign() < 0 {
				q.Sub(q, bigOne)
			} else {
				q.Add(q, bigOne)
			}
		}
	}
	return Decimal{coef: q, scale: target, precision: max(d.Precision(), o.Precision(), numDigits(q))}, nil
}

// Mod returns the truncated remainder of d / o; it carries the dividend's
// sign and the aligned scale max(d.Scale(), o.Scale()).
func (d Decimal) Mod(o Decimal) (Decimal, error) {
	if o.IsZero() {
		return Decimal{}, newError("mod", d.String()+" % "+o.String(), ErrDivisionByZero)
	}
	s := max(d.scale, o.scale)
	a := rescale(d.c(), d.scale, s, HalfUp)
	b := rescale(o.c(), o.scale, s, HalfUp)
	c := new(big.Int).Rem(a, b)
	return Decimal{coef: c, scale: s, precision: max(d.Precision(), o.Precision(), numDigits(c))}, nil
}

// Cmp compares two decimals of identical precision and scale and returns -1, 0
// or +1. Mismatched shapes fail with ErrShapeMismatch; Convert one side first.
func (d Decimal) Cmp(o Decimal) (int, error) {
	if d.Precision() != o.Precision() || d.scale != o.scale {
		return 0, newError("cmp", d.String()+" <> "+o.String(), ErrShapeMismatch)
	}
	return d.c().Cmp(o.c()), nil
}

// Align converts a and b to a shared shape wide enough for both, so they can
// be compared with Cmp.
func Align(a, b Decimal) (Decimal, Decimal, error) {
	s := max(a.scale, b.scale)
	p := max(a.Precision()-a.scale, b.Precision()-b.scale) + s
	x, err := a.Convert(p, s)
	if err != nil {
		return Decimal{}, Decimal{}, err
	}
	y, err := b.Convert(p, s)
	if err != nil {
		return Decimal{}, Decimal{}, err
	}
	return x, y, nil
}
