package types

import (
	"errors"
	"strconv"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/decimal"
)

// Decimal validates decimal.Decimal values. Descriptors may fix precision
// and scale; values are reshaped to them, never silently truncated.
type Decimal struct{}

func (Decimal) Name() string             { return "decimal" }
func (Decimal) Schema() *ioschema.Schema { return decimalOptions }

func (d Decimal) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, equalDecimal)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	v := ck.Value
	if raw, ok := tokenRaw(node); ok {
		if dv, err := decimal.New(raw); err == nil {
			v = dv
		}
	}
	return d.validate(v, m, defs, node)
}

func (d Decimal) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, equalDecimal)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return d.validate(ck.Value, m, defs, nil)
}

func (d Decimal) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	out, err := d.Load(v, m, defs)
	if err != nil {
		return "", false, err
	}
	return stringifyScalar(out)
}

func (Decimal) validate(v any, m *ioschema.MemberDef, defs *ioschema.Definitions, node ioschema.Node) (any, error) {
	if _, isStr := v.(string); isStr {
		return nil, typeMismatch(ioschema.CodeInvalidType, m, node, v)
	}
	dv, ok := toDecimal(v)
	if !ok {
		return nil, typeMismatch(ioschema.CodeInvalidType, m, node, v)
	}
	dv, err := reshape(dv, m, node)
	if err != nil {
		return nil, err
	}

	lo, hi, err := boundsOf(m, defs, node, toDecimal)
	if err != nil {
		return nil, err
	}
	if err := checkBounds(dv, lo, hi, cmpDecimal, decimal.Decimal.String, m, node); err != nil {
		return nil, err
	}

	if m.MultipleOf != nil {
		mv, err := ioschema.DerefFor(defs, m.MultipleOf, m, node)
		if err != nil {
			return nil, err
		}
		mo, ok := toDecimal(mv)
		if !ok {
			return nil, ioschema.Fail(ioschema.CodeInvalidValue, m, node, map[string]string{"reason": "multipleOf is not a decimal"})
		}
		rem, err := dv.Mod(mo)
		if err != nil {
			return nil, decimalIssue(err, m, node)
		}
		if !rem.IsZero() {
			return nil, ioschema.Fail(ioschema.CodeNotMultipleOf, m, node, map[string]string{"multipleOf": mo.String()})
		}
	}
	return dv, nil
}

// reshape applies the declared precision and scale. A value with more
// fractional digits than the declared scale is rejected.
func reshape(dv decimal.Decimal, m *ioschema.MemberDef, node ioschema.Node) (decimal.Decimal, error) {
	if m.Precision == nil && m.Scale == nil {
		return dv, nil
	}
	scale := dv.Scale()
	if m.Scale != nil {
		if dv.Scale() > *m.Scale {
			return decimal.Decimal{}, ioschema.Fail(ioschema.CodeInvalidScale, m, node, map[string]string{"scale": strconv.Itoa(*m.Scale)})
		}
		scale = *m.Scale
	}
	precision := max(dv.Precision()-dv.Scale()+scale, scale, 1)
	if m.Precision != nil {
		precision = *m.Precision
	}
	out, err := dv.Convert(precision, scale)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, decimal.ErrInvalidScale):
		return decimal.Decimal{}, ioschema.FailCause(ioschema.CodeInvalidScale, m, node, err, map[string]string{"scale": strconv.Itoa(scale)})
	default:
		return decimal.Decimal{}, ioschema.FailCause(ioschema.CodeInvalidPrec, m, node, err, map[string]string{"precision": strconv.Itoa(precision)})
	}
}

// cmpDecimal aligns both sides to a shared shape, since Cmp itself refuses
// mismatched shapes.
func cmpDecimal(a, b decimal.Decimal) (int, error) {
	x, y, err := decimal.Align(a, b)
	if err != nil {
		return 0, err
	}
	return x.Cmp(y)
}

// equalDecimal compares choices numerically, so a JSON 1.5 matches 1.50m.
func equalDecimal(a, b any) bool {
	x, okx := toDecimal(a)
	y, oky := toDecimal(b)
	if !okx || !oky {
		return ioschema.Equal(a, b)
	}
	c, err := cmpDecimal(x, y)
	return err == nil && c == 0
}

// decimalIssue wraps an arithmetic failure raised during validation.
func decimalIssue(err error, m *ioschema.MemberDef, node ioschema.Node) error {
	if errors.Is(err, decimal.ErrDivisionByZero) {
		return ioschema.FailCause(ioschema.CodeDivisionByZero, m, node, err, nil)
	}
	return ioschema.FailCause(ioschema.CodeInvalidValue, m, node, err, map[string]string{"reason": err.Error()})
}
