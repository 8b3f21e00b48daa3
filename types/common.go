// Package types holds the built-in type handlers and wires them into a
// catalog.
//
//	cat := types.Default()
//	rec, err := cat.Parse(node, schema, defs)
//
// Handlers are stateless; composite handlers recurse through the catalog
// they were registered with.
package types

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/decimal"
)

// boundsOf reads min and max from m, dereferencing @variables, and converts
// them with conv. Unset bounds stay nil.
func boundsOf[T any](m *ioschema.MemberDef, defs *ioschema.Definitions, node ioschema.Node, conv func(any) (T, bool)) (lo, hi *T, err error) {
	read := func(raw any, name string) (*T, error) {
		if raw == nil {
			return nil, nil
		}
		v, err := ioschema.DerefFor(defs, raw, m, node)
		if err != nil {
			return nil, err
		}
		if n, ok := v.(ioschema.Node); ok {
			v = n.Resolve(defs)
		}
		t, ok := conv(v)
		if !ok {
			return nil, ioschema.Fail(ioschema.CodeInvalidRange, m, node, map[string]string{name: fmt.Sprint(v)})
		}
		return &t, nil
	}
	if lo, err = read(m.Min, "min"); err != nil {
		return nil, nil, err
	}
	if hi, err = read(m.Max, "max"); err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

// checkBounds enforces lo <= v <= hi with cmp, reporting out-of-range with a
// rendered bound. A declared lo > hi is an invalid-range.
func checkBounds[T any](v T, lo, hi *T, cmp func(a, b T) (int, error), show func(T) string, m *ioschema.MemberDef, node ioschema.Node) error {
	if lo != nil && hi != nil {
		c, err := cmp(*lo, *hi)
		if err != nil || c > 0 {
			return ioschema.FailCause(ioschema.CodeInvalidRange, m, node, err, map[string]string{"min": show(*lo), "max": show(*hi)})
		}
	}
	if lo != nil {
		c, err := cmp(v, *lo)
		if err != nil {
			return ioschema.FailCause(ioschema.CodeInvalidValue, m, node, err, map[string]string{"reason": err.Error()})
		}
		if c < 0 {
			return outOfRange(m, node, ">= "+show(*lo), show(v))
		}
	}
	if hi != nil {
		c, err := cmp(v, *hi)
		if err != nil {
			return ioschema.FailCause(ioschema.CodeInvalidValue, m, node, err, map[string]string{"reason": err.Error()})
		}
		if c > 0 {
			return outOfRange(m, node, "<= "+show(*hi), show(v))
		}
	}
	return nil
}

func outOfRange(m *ioschema.MemberDef, node ioschema.Node, bound, got string) error {
	return ioschema.Fail(ioschema.CodeOutOfRange, m, node, map[string]string{"bound": bound, "got": got})
}

// typeMismatch reports a value of the wrong kind with the handler's code.
func typeMismatch(code string, m *ioschema.MemberDef, node ioschema.Node, v any) error {
	return ioschema.Fail(code, m, node, map[string]string{"expected": m.Type, "got": fmt.Sprintf("%T", v)})
}

// tokenRaw returns the source text of a number token, if known.
func tokenRaw(node ioschema.Node) (string, bool) {
	t, ok := node.(*ioschema.TokenNode)
	if !ok || t.Raw == "" {
		return "", false
	}
	switch t.Type {
	case ioschema.TokenNumber, ioschema.TokenBigInt, ioschema.TokenDecimal:
		return t.Raw, true
	}
	return "", false
}

// toBigInt accepts *big.Int and integral Go numbers.
func toBigInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, true
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return big.NewInt(int64(n)), true
	case uint16:
		return big.NewInt(int64(n)), true
	case uint32:
		return big.NewInt(int64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		f := new(big.Float).SetFloat64(n)
		if !f.IsInt() {
			return nil, false
		}
		b, _ := f.Int(nil)
		return b, true
	case string:
		s := n
		if len(s) > 0 && s[len(s)-1] == 'n' {
			s = s[:len(s)-1]
		}
		b, ok := new(big.Int).SetString(s, 10)
		return b, ok
	}
	return nil, false
}

// toDecimal accepts decimal.Decimal, integers, floats and decimal literals.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *big.Int:
		d, err := decimal.FromBigInt(n, 0)
		return d, err == nil
	case string:
		d, err := decimal.New(n)
		return d, err == nil
	case float64:
		d, err := decimal.New(strconv.FormatFloat(n, 'f', -1, 64))
		return d, err == nil
	case float32:
		d, err := decimal.New(strconv.FormatFloat(float64(n), 'f', -1, 32))
		return d, err == nil
	}
	if b, ok := toBigInt(v); ok {
		d, err := decimal.FromBigInt(b, 0)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
