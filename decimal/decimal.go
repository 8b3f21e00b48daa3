// Package decimal implements an immutable arbitrary-precision decimal value:
// a signed coefficient, a scale (digits right of the point) and a precision
// budget (significant digits). Every operation returns a fresh value.
//
// Invariants: 0 <= scale <= precision, and the digit count of |coefficient|
// never exceeds precision.
//
//	a, _ := decimal.NewWith("10.0", 3, 1)
//	b, _ := decimal.NewWith("3.0", 2, 1)
//	r, _ := a.Mod(b) // "1.0"
//
// The zero value is 0 with precision 1 and scale 0.
package decimal

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Decimal is an immutable (coefficient, scale, precision) triple.
type Decimal struct {
	coef      *big.Int
	scale     int
	precision int
}

// New parses a literal and infers precision and scale from its significant
// digits. Leading zeros of the integer part do not count.
func New(s string) (Decimal, error) {
	coef, scale, err := parseLiteral(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{coef: coef, scale: scale, precision: fitPrecision(coef, scale)}, nil
}

// NewWith parses a literal, rounds it half-up to scale and fails when the
// result needs more than precision significant digits.
func NewWith(s string, precision, scale int) (Decimal, error) {
	if err := checkShape("parse", precision, scale); err != nil {
		return Decimal{}, err
	}
	coef, litScale, err := parseLiteral(s)
	if err != nil {
		return Decimal{}, err
	}
	c := rescale(coef, litScale, scale, HalfUp)
	if numDigits(c) > precision {
		return Decimal{}, newError("parse", s, ErrPrecisionOverflow)
	}
	return Decimal{coef: c, scale: scale, precision: precision}, nil
}

// MustNew is New that panics on error. Intended for constants in tests and
// examples.
func MustNew(s string) Decimal {
	d, err := New(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MustNewWith is NewWith that panics on error.
func MustNewWith(s string, precision, scale int) Decimal {
	d, err := NewWith(s, precision, scale)
	if err != nil {
		panic(err)
	}
	return d
}

// FromFloat converts a float64. Both precision and scale are required since a
// binary float carries no decimal shape of its own.
func FromFloat(f float64, precision, scale int) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, newError("float", strconv.FormatFloat(f, 'g', -1, 64), ErrInvalidLiteral)
	}
	return NewWith(strconv.FormatFloat(f, 'f', -1, 64), precision, scale)
}

// FromBigInt builds a decimal with the given coefficient and scale; precision
// is inferred.
func FromBigInt(coef *big.Int, scale int) (Decimal, error) {
	if coef == nil || scale < 0 {
		return Decimal{}, newError("bigint", "", ErrInvalidOperand)
	}
	c := new(big.Int).Set(coef)
	return Decimal{coef: c, scale: scale, precision: fitPrecision(c, scale)}, nil
}

// Convert reshapes d. Growing the scale zero-pads (the padded digits must fit
// precision); shrinking it rounds half-up and recomputes precision from the
// result; an unchanged scale only validates the digit count.
func (d Decimal) Convert(precision, scale int) (Decimal, error) {
	if err := checkShape("convert", precision, scale); err != nil {
		return Decimal{}, err
	}
	switch {
	case scale < d.scale:
		c := rescale(d.c(), d.scale, scale, HalfUp)
		p := fitPrecision(c, scale)
		if p > precision {
			return Decimal{}, newError("convert", d.String(), ErrPrecisionOverflow)
		}
		return Decimal{coef: c, scale: scale, precision: p}, nil
	default:
		c := rescale(d.c(), d.scale, scale, HalfUp)
		if numDigits(c) > precision {
			return Decimal{}, newError("convert", d.String(), ErrPrecisionOverflow)
		}
		return Decimal{coef: c, scale: scale, precision: precision}, nil
	}
}

// Precision returns the significant-digit budget.
func (d Decimal) Precision() int {
	if d.coef == nil {
		return 1
	}
	return d.precision
}

// Scale returns the number of digits right of the point.
func (d Decimal) Scale() int { return d.scale }

// Coefficient returns a copy of the signed coefficient.
func (d Decimal) Coefficient() *big.Int { return new(big.Int).Set(d.c()) }

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int { return d.c().Sign() }

// IsZero reports whether the value is zero.
func (d Decimal) IsZero() bool { return d.c().Sign() == 0 }

// Neg returns -d with the same shape.
func (d Decimal) Neg() Decimal {
	return Decimal{coef: new(big.Int).Neg(d.c()), scale: d.scale, precision: d.Precision()}
}

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 {
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}

// String renders the value with exactly Scale() fractional digits.
func (d Decimal) String() string {
	c := d.c()
	digits := new(big.Int).Abs(c).Text(10)
	if d.scale > 0 {
		if len(digits) <= d.scale {
			digits = strings.Repeat("0", d.scale-len(digits)+1) + digits
		}
		cut := len(digits) - d.scale
		digits = digits[:cut] + "." + digits[cut:]
	}
	if c.Sign() < 0 {
		return "-" + digits
	}
	return digits
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler with inferred shape.
func (d *Decimal) UnmarshalText(b []byte) error {
	v, err := New(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON encodes the value as a JSON string so no digits are lost.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON accepts a JSON string or number.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := string(b)
	if uq, err := strconv.Unquote(s); err == nil {
		s = uq
	}
	return d.UnmarshalText([]byte(s))
}

func (d Decimal) c() *big.Int {
	if d.coef == nil {
		return new(big.Int)
	}
	return d.coef
}

func checkShape(op string, precision, scale int) error {
	if precision < 1 || scale < 0 || scale > precision {
		return newError(op, "precision="+strconv.Itoa(precision)+" scale="+strconv.Itoa(scale), ErrInvalidScale)
	}
	return nil
}

// fitPrecision is the smallest precision that holds coef at scale.
func fitPrecision(coef *big.Int, scale int) int {
	return max(numDigits(coef), scale, 1)
}

// parseLiteral reads [sign] int [. frac] [e[sign]exp] [m] into a coefficient
// and a non-negative scale.
func parseLiteral(s string) (*big.Int, int, error) {
	lit := strings.TrimSpace(s)
	lit = strings.TrimSuffix(lit, "m")
	if lit == "" {
		return nil, 0, newError("parse", s, ErrInvalidLiteral)
	}
	neg := false
	switch lit[0] {
	case '-':
		neg = true
		lit = lit[1:]
	case '+':
		lit = lit[1:]
	}
	exp := 0
	if i := strings.IndexAny(lit, "eE"); i >= 0 {
		e, err := strconv.Atoi(lit[i+1:])
		if err != nil {
			return nil, 0, newError("parse", s, ErrInvalidLiteral)
		}
		exp = e
		lit = lit[:i]
	}
	intPart, fracPart, _ := strings.Cut(lit, ".")
	if intPart == "" && fracPart == "" {
		return nil, 0, newError("parse", s, ErrInvalidLiteral)
	}
	for _, part := range [2]string{intPart, fracPart} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return nil, 0, newError("parse", s, ErrInvalidLiteral)
			}
		}
	}
	digits := strings.TrimLeft(intPart+fracPart, "0")
	coef := new(big.Int)
	if digits != "" {
		coef.SetString(digits, 10)
	}
	scale := len(fracPart) - exp
	if scale < 0 {
		coef.Mul(coef, pow10(-scale))
		scale = 0
	}
	if neg {
		coef.Neg(coef)
	}
	return coef, scale, nil
}
