package types

import (
	"math"
	"math/big"
	"strconv"

	"github.com/reoring/ioschema"
)

// variant holds the implied bounds and result kind of one numeric type name.
// Integer variants also carry their exact range, since the 64-bit limits do
// not survive conversion to float64.
type variant struct {
	min, max float64
	bounded  bool
	integer  bool
	unsigned bool
	ilo      int64
	ihi      uint64
}

var variants = map[string]variant{
	"number":  {},
	"float":   {},
	"float64": {},
	"float32": {min: -math.MaxFloat32, max: math.MaxFloat32, bounded: true},
	"int":     {min: math.MinInt64, max: math.MaxInt64, bounded: true, integer: true, ilo: math.MinInt64, ihi: math.MaxInt64},
	"int8":    {min: math.MinInt8, max: math.MaxInt8, bounded: true, integer: true, ilo: math.MinInt8, ihi: math.MaxInt8},
	"int16":   {min: math.MinInt16, max: math.MaxInt16, bounded: true, integer: true, ilo: math.MinInt16, ihi: math.MaxInt16},
	"int32":   {min: math.MinInt32, max: math.MaxInt32, bounded: true, integer: true, ilo: math.MinInt32, ihi: math.MaxInt32},
	"int64":   {min: math.MinInt64, max: math.MaxInt64, bounded: true, integer: true, ilo: math.MinInt64, ihi: math.MaxInt64},
	"uint":    {min: 0, max: math.MaxUint64, bounded: true, integer: true, unsigned: true, ihi: math.MaxUint64},
	"uint8":   {min: 0, max: math.MaxUint8, bounded: true, integer: true, unsigned: true, ihi: math.MaxUint8},
	"uint16":  {min: 0, max: math.MaxUint16, bounded: true, integer: true, unsigned: true, ihi: math.MaxUint16},
	"uint32":  {min: 0, max: math.MaxUint32, bounded: true, integer: true, unsigned: true, ihi: math.MaxUint32},
	"uint64":  {min: 0, max: math.MaxUint64, bounded: true, integer: true, unsigned: true, ihi: math.MaxUint64},
}

// NumberNames lists the fixed-width names NewNumber accepts besides
// "bigint" and "decimal".
func NumberNames() []string {
	return []string{
		"number", "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float", "float32", "float64",
	}
}

// Number validates the numeric family. Fixed-width variants apply their
// implied bounds unless min/max are declared; "bigint" and "decimal" delegate
// to the arbitrary-precision handlers.
type Number struct {
	name     string
	v        variant
	delegate ioschema.TypeHandler
}

// NewNumber returns the handler for a numeric type name. Unknown names
// behave like "number".
func NewNumber(name string) *Number {
	n := &Number{name: name, v: variants[name]}
	switch name {
	case "bigint":
		n.delegate = BigInt{}
	case "decimal":
		n.delegate = Decimal{}
	}
	return n
}

func (n *Number) Name() string { return n.name }

func (n *Number) Schema() *ioschema.Schema {
	if n.delegate != nil {
		return n.delegate.Schema()
	}
	return numberOptions
}

func (n *Number) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	if n.delegate != nil {
		return n.delegate.Parse(node, m, defs)
	}
	ck, err := ioschema.CheckNode(m, node, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	raw, _ := tokenRaw(node)
	return n.validate(ck.Value, raw, m, defs, node)
}

func (n *Number) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	if l, ok := n.delegate.(ioschema.Loader); ok {
		return l.Load(v, m, defs)
	}
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return n.validate(ck.Value, "", m, defs, nil)
}

func (n *Number) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	if s, ok := n.delegate.(ioschema.Stringifier); ok {
		return s.Stringify(v, m, defs)
	}
	out, err := n.Load(v, m, defs)
	if err != nil {
		return "", false, err
	}
	return stringifyScalar(out)
}

func (n *Number) validate(v any, raw string, m *ioschema.MemberDef, defs *ioschema.Definitions, node ioschema.Node) (any, error) {
	f, ok := ioschema.ToFloat(v)
	if !ok || math.IsNaN(f) {
		return nil, typeMismatch(ioschema.CodeNotANumber, m, node, v)
	}
	if n.v.integer && f != math.Trunc(f) {
		return nil, ioschema.Fail(ioschema.CodeNotAnInteger, m, node, map[string]string{"got": formatFloat(f)})
	}

	if n.v.integer {
		if err := n.checkExact(v, raw, m, node); err != nil {
			return nil, err
		}
	}

	lo, hi, err := boundsOf(m, defs, node, ioschema.ToFloat)
	if err != nil {
		return nil, err
	}
	if n.v.bounded {
		if lo == nil {
			lo = &n.v.min
		}
		if hi == nil {
			hi = &n.v.max
		}
	}
	if err := checkBounds(f, lo, hi, cmpFloat, formatFloat, m, node); err != nil {
		return nil, err
	}

	if m.MultipleOf != nil {
		mv, err := ioschema.DerefFor(defs, m.MultipleOf, m, node)
		if err != nil {
			return nil, err
		}
		mo, ok := ioschema.ToFloat(mv)
		if !ok {
			return nil, ioschema.Fail(ioschema.CodeInvalidValue, m, node, map[string]string{"reason": "multipleOf is not a number"})
		}
		if mo == 0 {
			return nil, ioschema.Fail(ioschema.CodeDivisionByZero, m, node, nil)
		}
		if math.Mod(f, mo) != 0 {
			return nil, ioschema.Fail(ioschema.CodeNotMultipleOf, m, node, map[string]string{"multipleOf": formatFloat(mo)})
		}
	}
	return n.result(v, f, raw), nil
}

// checkExact applies the implied integer range without going through
// float64. Declared min/max replace the implied bound on their side.
func (n *Number) checkExact(v any, raw string, m *ioschema.MemberDef, node ioschema.Node) error {
	x, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		if x, ok = toBigInt(v); !ok {
			return nil
		}
	}
	lo := big.NewInt(n.v.ilo)
	hi := new(big.Int).SetUint64(n.v.ihi)
	if m.Min == nil && x.Cmp(lo) < 0 {
		return outOfRange(m, node, ">= "+lo.String(), x.String())
	}
	if m.Max == nil && x.Cmp(hi) > 0 {
		return outOfRange(m, node, "<= "+hi.String(), x.String())
	}
	return nil
}

// result converts to the variant's Go kind; integer text is parsed exactly
// so large 64-bit values survive.
func (n *Number) result(v any, f float64, raw string) any {
	switch {
	case n.v.unsigned:
		if raw != "" {
			if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
				return u
			}
		}
		if u, ok := v.(uint64); ok {
			return u
		}
		return uint64(f)
	case n.v.integer:
		if raw != "" {
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return i
			}
		}
		if i, ok := v.(int64); ok {
			return i
		}
		return int64(f)
	default:
		return f
	}
}

func cmpFloat(a, b float64) (int, error) {
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
