package types

import (
	"math/big"

	"github.com/reoring/ioschema"
)

// BigInt validates arbitrary-precision integers (*big.Int). Number tokens
// whose source text is an exact integer are accepted as well.
type BigInt struct{}

func (BigInt) Name() string             { return "bigint" }
func (BigInt) Schema() *ioschema.Schema { return numberOptions }

func (b BigInt) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, equalBigInt)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	v := ck.Value
	if raw, ok := tokenRaw(node); ok {
		if bi, ok := new(big.Int).SetString(trimSuffix(raw, 'n'), 10); ok {
			v = bi
		}
	}
	return b.validate(v, m, defs, node)
}

func (b BigInt) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, equalBigInt)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return b.validate(ck.Value, m, defs, nil)
}

func (b BigInt) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	out, err := b.Load(v, m, defs)
	if err != nil {
		return "", false, err
	}
	return stringifyScalar(out)
}

func (BigInt) validate(v any, m *ioschema.MemberDef, defs *ioschema.Definitions, node ioschema.Node) (any, error) {
	if _, isStr := v.(string); isStr {
		return nil, typeMismatch(ioschema.CodeInvalidType, m, node, v)
	}
	bi, ok := toBigInt(v)
	if !ok {
		return nil, typeMismatch(ioschema.CodeInvalidType, m, node, v)
	}
	lo, hi, err := boundsOf(m, defs, node, toBigInt)
	if err != nil {
		return nil, err
	}
	cmp := func(a, b *big.Int) (int, error) { return a.Cmp(b), nil }
	show := func(x *big.Int) string { return x.String() + "n" }
	if err := checkBounds(bi, lo, hi, cmp, show, m, node); err != nil {
		return nil, err
	}
	if m.MultipleOf != nil {
		mv, err := ioschema.DerefFor(defs, m.MultipleOf, m, node)
		if err != nil {
			return nil, err
		}
		mo, ok := toBigInt(mv)
		if !ok {
			return nil, ioschema.Fail(ioschema.CodeInvalidValue, m, node, map[string]string{"reason": "multipleOf is not an integer"})
		}
		if mo.Sign() == 0 {
			return nil, ioschema.Fail(ioschema.CodeDivisionByZero, m, node, nil)
		}
		if new(big.Int).Rem(bi, mo).Sign() != 0 {
			return nil, ioschema.Fail(ioschema.CodeNotMultipleOf, m, node, map[string]string{"multipleOf": show(mo)})
		}
	}
	return new(big.Int).Set(bi), nil
}

// equalBigInt compares choices numerically across integer representations.
func equalBigInt(a, b any) bool {
	x, okx := toBigInt(a)
	y, oky := toBigInt(b)
	if !okx || !oky {
		return ioschema.Equal(a, b)
	}
	return x.Cmp(y) == 0
}

func trimSuffix(s string, c byte) string {
	if len(s) > 0 && s[len(s)-1] == c {
		return s[:len(s)-1]
	}
	return s
}
