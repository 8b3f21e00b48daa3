package decimal

import "math/big"

// RoundingMode selects how digits are dropped when the scale shrinks.
type RoundingMode int

const (
	// HalfUp rounds exact ties away from zero, regardless of sign.
	HalfUp RoundingMode = iota
	// Ceiling rounds toward positive infinity.
	Ceiling
	// Floor rounds toward negative infinity.
	Floor
)

func (m RoundingMode) String() string {
	switch m {
	case HalfUp:
		return "half-up"
	case Ceiling:
		return "ceiling"
	case Floor:
		return "floor"
	default:
		return "unknown"
	}
}

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)

	pow10Cache [32]*big.Int
)

func init() {
	p := big.NewInt(1)
	for i := range pow10Cache {
		pow10Cache[i] = new(big.Int).Set(p)
		p.Mul(p, bigTen)
	}
}

// pow10 returns 10^n. The result must not be mutated.
func pow10(n int) *big.Int {
	if n < len(pow10Cache) {
		return pow10Cache[n]
	}
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// numDigits counts the decimal digits of |x|; zero has one digit.
func numDigits(x *big.Int) int {
	if x.Sign() == 0 {
		return 1
	}
	return len(new(big.Int).Abs(x).Text(10))
}

// rescale moves coef from scale cur to scale target. Growing the scale
// zero-pads and is exact; shrinking drops digits according to mode, with carry
// propagating into the integer part (9.99 -> 10.0).
func rescale(coef *big.Int, cur, target int, mode RoundingMode) *big.Int {
	if target == cur {
		return new(big.Int).Set(coef)
	}
	if target > cur {
		return new(big.Int).Mul(coef, pow10(target-cur))
	}
	div := pow10(cur - target)
	q, r := new(big.Int).QuoRem(coef, div, new(big.Int))
	if r.Sign() == 0 {
		return q
	}
	switch mode {
	case HalfUp:
		twice := new(big.Int).Abs(r)
		twice.Lsh(twice, 1)
		if twice.Cmp(div) >= 0 {
			if coef.Sign() < 0 {
				q.Sub(q, bigOne)
			} else {
				q.Add(q, bigOne)
			}
		}
	case Ceiling:
		// truncation already moved negatives toward zero
		if coef.Sign() > 0 {
			q.Add(q, bigOne)
		}
	case Floor:
		if coef.Sign() < 0 {
			q.Sub(q, bigOne)
		}
	}
	return q
}

// Round returns d at the given scale using round-half-up, failing when the
// result needs more than precision digits.
func (d Decimal) Round(precision, scale int) (Decimal, error) {
	return d.roundWith("round", precision, scale, HalfUp)
}

// Ceil returns d at the given scale rounded toward positive infinity.
func (d Decimal) Ceil(precision, scale int) (Decimal, error) {
	return d.roundWith("ceil", precision, scale, Ceiling)
}

// Floor returns d at the given scale rounded toward negative infinity.
func (d Decimal) Floor(precision, scale int) (Decimal, error) {
	return d.roundWith("floor", precision, scale, Floor)
}

// RoundMode is the generic form of Round/Ceil/Floor.
func (d Decimal) RoundMode(precision, scale int, mode RoundingMode) (Decimal, error) {
	return d.roundWith("round", precision, scale, mode)
}

func (d Decimal) roundWith(op string, precision, scale int, mode RoundingMode) (Decimal, error) {
	if err := checkShape(op, precision, scale); err != nil {
		return Decimal{}, err
	}
	c := rescale(d.c(), d.scale, scale, mode)
	if numDigits(c) > precision {
		return Decimal{}, newError(op, d.String(), ErrPrecisionOverflow)
	}
	return Decimal{coef: c, scale: scale, precision: precision}, nil
}
