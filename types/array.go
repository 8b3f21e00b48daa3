package types

import (
	"strings"

	"github.com/reoring/ioschema"
)

// Array validates sequences. Each element goes through the element
// descriptor (m.Of, or any) at path field[i]. Length constraints are checked
// only after every element passed.
type Array struct {
	cat *ioschema.Catalog
}

// NewArray returns the array handler bound to cat for element lookups.
func NewArray(cat *ioschema.Catalog) *Array { return &Array{cat: cat} }

func (*Array) Name() string             { return "array" }
func (*Array) Schema() *ioschema.Schema { return arrayOptions }

func (a *Array) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	src := node
	if ck.Node != nil {
		src = ck.Node
	}
	arr, ok := src.(*ioschema.ArrayNode)
	if !ok {
		return a.load(ck.Value, m, defs, node)
	}
	out := make([]any, len(arr.Children))
	var issues ioschema.Issues
	for i, child := range arr.Children {
		v, err := a.cat.ParseMember(child, m.Elem(i), defs)
		if err != nil {
			if issues, err = ioschema.MergeIssues(issues, err); err != nil {
				return nil, err
			}
			continue
		}
		out[i] = element(v)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	if err := checkLength(len(out), m, src); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Array) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	if arr, ok := ck.Node.(*ioschema.ArrayNode); ok {
		return a.Parse(arr, m, defs)
	}
	return a.load(ck.Value, m, defs, nil)
}

func (a *Array) load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions, node ioschema.Node) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, typeMismatch(ioschema.CodeNotAnArray, m, node, v)
	}
	out := make([]any, len(items))
	var issues ioschema.Issues
	for i, item := range items {
		r, err := a.cat.LoadMember(item, m.Elem(i), defs)
		if err != nil {
			if issues, err = ioschema.MergeIssues(issues, err); err != nil {
				return nil, err
			}
			continue
		}
		out[i] = element(r)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	if err := checkLength(len(out), m, node); err != nil {
		return nil, err
	}
	return out, nil
}

// element stores an absent optional element as null.
func element(v any) any {
	if ioschema.IsUndefined(v) {
		return nil
	}
	return v
}

func (a *Array) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil {
		return "", false, err
	}
	if ck.Final {
		return stringifyScalar(ck.Value)
	}
	items, ok := ck.Value.([]any)
	if !ok {
		return "", false, typeMismatch(ioschema.CodeNotAnArray, m, nil, ck.Value)
	}
	if err := checkLength(len(items), m, nil); err != nil {
		return "", false, err
	}
	parts := make([]string, len(items))
	for i, item := range items {
		text, _, err := a.cat.StringifyMember(item, m.Elem(i), defs)
		if err != nil {
			return "", false, err
		}
		parts[i] = text
	}
	return "[" + strings.Join(parts, ", ") + "]", true, nil
}
