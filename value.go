package ioschema

import (
	"math/big"
	"reflect"
	"time"

	"github.com/reoring/ioschema/decimal"
)

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

func (UndefinedValue) String() string { return "undefined" }

// Undefined marks an absent value. It is distinct from nil, which is null.
var Undefined = UndefinedValue{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedValue)
	return ok
}

// TokenTypeOf reports the literal kind of a native value.
func TokenTypeOf(v any) TokenType {
	switch v.(type) {
	case nil:
		return TokenNull
	case UndefinedValue:
		return TokenUndefined
	case string:
		return TokenString
	case bool:
		return TokenBool
	case *big.Int:
		return TokenBigInt
	case decimal.Decimal:
		return TokenDecimal
	case time.Time:
		return TokenDateTime
	}
	if _, ok := ToFloat(v); ok {
		return TokenNumber
	}
	return TokenUndefined
}

// ToFloat converts Go numeric kinds to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Equal is the default equality used for choice membership. Numbers compare
// by value across Go kinds, decimals after alignment, times with time.Equal;
// anything else falls back to reflect.DeepEqual.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		if !ok {
			return false
		}
		xa, ya, err := decimal.Align(x, y)
		if err != nil {
			return false
		}
		c, err := xa.Cmp(ya)
		return err == nil && c == 0
	case *big.Int:
		switch y := b.(type) {
		case *big.Int:
			return x.Cmp(y) == 0
		default:
			if f, ok := ToFloat(b); ok && x.IsInt64() {
				return float64(x.Int64()) == f
			}
			return false
		}
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *Map:
		y, ok := b.(*Map)
		return ok && x.Equal(y)
	}
	if fa, ok := ToFloat(a); ok {
		if fb, ok := ToFloat(b); ok {
			return fa == fb
		}
		if bi, ok := b.(*big.Int); ok {
			return Equal(bi, a)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}
