package types

import (
	"github.com/reoring/ioschema"
)

const noneMatched = "none of the constraints matched"

// Any accepts every value that passes the common pipeline. With anyOf it
// tries each alternative in order and keeps the first success.
type Any struct {
	cat *ioschema.Catalog
}

// NewAny returns the any handler bound to cat for alternative lookups.
func NewAny(cat *ioschema.Catalog) *Any { return &Any{cat: cat} }

func (*Any) Name() string             { return "any" }
func (*Any) Schema() *ioschema.Schema { return anyOptions }

func (a *Any) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	if len(m.AnyOf) == 0 {
		return ck.Value, nil
	}
	src := node
	if ck.Node != nil {
		src = ck.Node
	}
	return a.firstMatch(m, node, func(alt *ioschema.MemberDef) (any, error) {
		return a.cat.ParseMember(src, alt, defs)
	})
}

func (a *Any) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	if len(m.AnyOf) == 0 {
		return ck.Value, nil
	}
	return a.firstMatch(m, nil, func(alt *ioschema.MemberDef) (any, error) {
		return a.cat.LoadMember(ck.Value, alt, defs)
	})
}

// Stringify renders v with the first alternative that accepts it, or infers
// the notation from the value's shape when no alternatives are declared.
func (a *Any) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil {
		return "", false, err
	}
	if ck.Final || len(m.AnyOf) == 0 {
		return inferNotation(ck.Value)
	}
	for _, alt := range m.AnyOf {
		c := alternative(m, alt)
		if _, err := a.cat.LoadMember(ck.Value, c, defs); err != nil {
			if _, ok := ioschema.AsIssues(err); ok {
				continue
			}
			return "", false, err
		}
		return a.cat.StringifyMember(ck.Value, c, defs)
	}
	return "", false, ioschema.Fail(ioschema.CodeInvalidValue, m, nil, map[string]string{"reason": noneMatched})
}

// firstMatch runs try for each alternative. Validation failures of single
// alternatives are discarded; configuration errors abort at once.
func (a *Any) firstMatch(m *ioschema.MemberDef, node ioschema.Node, try func(*ioschema.MemberDef) (any, error)) (any, error) {
	for _, alt := range m.AnyOf {
		v, err := try(alternative(m, alt))
		if err == nil {
			return v, nil
		}
		if _, ok := ioschema.AsIssues(err); !ok {
			return nil, err
		}
	}
	return nil, ioschema.Fail(ioschema.CodeInvalidValue, m, node, map[string]string{"reason": noneMatched})
}

// alternative places alt at m's position in the tree.
func alternative(m, alt *ioschema.MemberDef) *ioschema.MemberDef {
	c := alt.Clone()
	c.Name = m.Name
	c.Path = m.Path
	return c
}
