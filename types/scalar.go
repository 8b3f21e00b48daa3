package types

import (
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/codec"
)

// Bool validates booleans.
type Bool struct{}

func (Bool) Name() string             { return "bool" }
func (Bool) Schema() *ioschema.Schema { return boolOptions }

func (b Bool) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return b.validate(ck.Value, m, node)
}

func (b Bool) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return b.validate(ck.Value, m, nil)
}

func (b Bool) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	out, err := b.Load(v, m, defs)
	if err != nil {
		return "", false, err
	}
	return stringifyScalar(out)
}

func (Bool) validate(v any, m *ioschema.MemberDef, node ioschema.Node) (any, error) {
	bv, ok := v.(bool)
	if !ok {
		return nil, typeMismatch(ioschema.CodeNotABool, m, node, v)
	}
	return bv, nil
}

// String validates strings; the "email" and "url" names add a format check.
type String struct {
	name string
}

// NewString returns the handler for "string", "email" or "url".
func NewString(name string) *String { return &String{name: name} }

func (s *String) Name() string             { return s.name }
func (s *String) Schema() *ioschema.Schema { return stringOptions }

func (s *String) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return s.validate(ck.Value, m, node)
}

func (s *String) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return s.validate(ck.Value, m, nil)
}

func (s *String) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	out, err := s.Load(v, m, defs)
	if err != nil {
		return "", false, err
	}
	return stringifyScalar(out)
}

func (s *String) validate(v any, m *ioschema.MemberDef, node ioschema.Node) (any, error) {
	str, ok := v.(string)
	if !ok {
		return nil, typeMismatch(ioschema.CodeNotAString, m, node, v)
	}
	if err := checkLength(utf8.RuneCountInString(str), m, node); err != nil {
		return nil, err
	}
	if m.Pattern != "" {
		re, err := compilePattern(m.Pattern)
		if err != nil {
			return nil, ioschema.FailCause(ioschema.CodeInvalidPattern, m, node, err, map[string]string{"pattern": m.Pattern})
		}
		if !re.MatchString(str) {
			return nil, ioschema.Fail(ioschema.CodeInvalidPattern, m, node, map[string]string{"pattern": m.Pattern})
		}
	}
	switch s.name {
	case "email":
		if a, err := mail.ParseAddress(str); err != nil || a.Address != str {
			return nil, ioschema.Fail(ioschema.CodeInvalidValue, m, node, map[string]string{"reason": "not an email address"})
		}
	case "url":
		if u, err := url.ParseRequestURI(str); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, ioschema.Fail(ioschema.CodeInvalidValue, m, node, map[string]string{"reason": "not an absolute URL"})
		}
	}
	return str, nil
}

// checkLength applies len, minLen and maxLen, in that order.
func checkLength(n int, m *ioschema.MemberDef, node ioschema.Node) error {
	if m.Len != nil && n != *m.Len {
		return ioschema.Fail(ioschema.CodeInvalidLength, m, node, map[string]string{"len": strconv.Itoa(*m.Len), "got": strconv.Itoa(n)})
	}
	if m.MinLen != nil && n < *m.MinLen {
		return ioschema.Fail(ioschema.CodeInvalidMinLen, m, node, map[string]string{"min": strconv.Itoa(*m.MinLen), "got": strconv.Itoa(n)})
	}
	if m.MaxLen != nil && n > *m.MaxLen {
		return ioschema.Fail(ioschema.CodeInvalidMaxLen, m, node, map[string]string{"max": strconv.Itoa(*m.MaxLen), "got": strconv.Itoa(n)})
	}
	return nil
}

var patterns sync.Map // pattern -> *regexp.Regexp

func compilePattern(p string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(p); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, err
	}
	patterns.Store(p, re)
	return re, nil
}

// DateTime validates time.Time values for "datetime", "date" and "time".
// Strings are parsed in the kind's text form.
type DateTime struct {
	name string
	kind codec.Kind
}

// NewDateTime returns the handler for "datetime", "date" or "time".
func NewDateTime(name string) *DateTime {
	return &DateTime{name: name, kind: codec.KindOf(name)}
}

func (d *DateTime) Name() string             { return d.name }
func (d *DateTime) Schema() *ioschema.Schema { return dateTimeOptions }

func (d *DateTime) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return d.validate(ck.Value, m, defs, node)
}

func (d *DateTime) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	return d.validate(ck.Value, m, defs, nil)
}

func (d *DateTime) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	out, err := d.Load(v, m, defs)
	if err != nil {
		return "", false, err
	}
	if t, ok := out.(time.Time); ok {
		return codec.Notation(d.kind, t), true, nil
	}
	return stringifyScalar(out)
}

func (d *DateTime) validate(v any, m *ioschema.MemberDef, defs *ioschema.Definitions, node ioschema.Node) (any, error) {
	t, err := d.toTime(v)
	if err != nil {
		return nil, ioschema.FailCause(ioschema.CodeInvalidDateTime, m, node, err, map[string]string{"expected": d.name})
	}
	lo, hi, err := boundsOf(m, defs, node, func(b any) (time.Time, bool) {
		bt, err := d.toTime(b)
		return bt, err == nil
	})
	if err != nil {
		return nil, err
	}
	cmp := func(a, b time.Time) (int, error) { return a.Compare(b), nil }
	show := func(x time.Time) string { return codec.Format(d.kind, x) }
	if err := checkBounds(t, lo, hi, cmp, show, m, node); err != nil {
		return nil, err
	}
	return t, nil
}

func (d *DateTime) toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		if d.kind == codec.KindTime {
			return codec.OnSentinel(x), nil
		}
		return x, nil
	case string:
		return codec.Parse(d.kind, x)
	}
	return time.Time{}, codec.ErrInvalid
}
