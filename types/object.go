package types

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/ioschema"
)

// Object validates records against a schema. Members are matched in
// declaration order, positionally or by key; every member issue is
// collected before failing.
type Object struct {
	cat *ioschema.Catalog
}

// NewObject returns the object handler bound to cat for member lookups.
func NewObject(cat *ioschema.Catalog) *Object { return &Object{cat: cat} }

func (*Object) Name() string             { return "object" }
func (*Object) Schema() *ioschema.Schema { return objectOptions }

var errNoCompiler = errors.New("types: no schema compiler installed")

func (o *Object) Parse(node ioschema.Node, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.CheckNode(m, node, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	src := node
	if ck.Node != nil {
		src = ck.Node
	}
	if m.IsSchema {
		sc := o.cat.Compiler()
		if sc == nil {
			return nil, errNoCompiler
		}
		return sc.Compile(src, defs)
	}
	s, err := m.ResolveSchema(defs)
	if err != nil {
		return nil, err
	}
	obj, ok := src.(*ioschema.ObjectNode)
	if !ok {
		// values reached through @variables may already be native
		return o.load(ck.Value, s, m, defs, node)
	}
	return o.parseMembers(obj, s, m, defs)
}

func (o *Object) Load(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil || ck.Final {
		return ck.Value, err
	}
	if m.IsSchema {
		if s, ok := ck.Value.(*ioschema.Schema); ok {
			return s, nil
		}
		return nil, typeMismatch(ioschema.CodeInvalidObject, m, nil, ck.Value)
	}
	s, err := m.ResolveSchema(defs)
	if err != nil {
		return nil, err
	}
	if ck.Node != nil {
		if obj, ok := ck.Node.(*ioschema.ObjectNode); ok {
			return o.parseMembers(obj, s, m, defs)
		}
	}
	return o.load(ck.Value, s, m, defs, nil)
}

func (o *Object) parseMembers(obj *ioschema.ObjectNode, s *ioschema.Schema, m *ioschema.MemberDef, defs *ioschema.Definitions) (any, error) {
	var issues ioschema.Issues
	out := ioschema.NewMap()
	used := make([]bool, len(obj.Members))
	keyed := map[string]int{}
	for i, mem := range obj.Members {
		if mem == nil || !mem.HasKey {
			continue
		}
		if _, dup := keyed[mem.Key]; !dup {
			keyed[mem.Key] = i
		}
	}

	var names []string
	if s != nil {
		names = s.Names
	}
	for i, name := range names {
		var valNode ioschema.Node
		if i < len(obj.Members) && obj.Members[i] != nil && !obj.Members[i].HasKey {
			valNode = obj.Members[i].Value
			used[i] = true
		} else if j, ok := keyed[name]; ok {
			valNode = obj.Members[j].Value
			used[j] = true
		}
		v, err := o.cat.ParseMember(valNode, m.Child(s.Defs[name]), defs)
		if err != nil {
			if issues, err = ioschema.MergeIssues(issues, err); err != nil {
				return nil, err
			}
			continue
		}
		if !ioschema.IsUndefined(v) {
			out.Set(name, v)
		}
	}

	for i, mem := range obj.Members {
		if mem == nil || used[i] {
			continue
		}
		key := mem.Key
		if !mem.HasKey {
			key = strconv.Itoa(i)
		}
		if err := o.checkExtra(key, s, m, mem); err != nil {
			issues = append(issues, err...)
			continue
		}
		if mem.Value == nil {
			continue
		}
		v, err := o.cat.ParseMember(mem.Value, m.ChildAt(key, wildcard(s)), defs)
		if err != nil {
			if issues, err = ioschema.MergeIssues(issues, err); err != nil {
				return nil, err
			}
			continue
		}
		out.Set(key, v)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

// checkExtra decides whether a member outside the declared fields is
// allowed. A nil schema accepts everything.
func (o *Object) checkExtra(key string, s *ioschema.Schema, m *ioschema.MemberDef, node ioschema.Node) ioschema.Issues {
	if s == nil || s.Open {
		return nil
	}
	at := m.ChildAt(key, nil)
	if _, declared := s.Defs[key]; declared {
		return ioschema.Issues{ioschema.NewIssue(ioschema.CodeInvalidValue, at, node, map[string]string{"reason": "duplicate member"})}
	}
	return ioschema.Issues{ioschema.NewIssue(ioschema.CodeUnknownMember, at, node, nil)}
}

func wildcard(s *ioschema.Schema) *ioschema.MemberDef {
	if s == nil {
		return nil
	}
	return s.Wildcard
}

// load validates a native record: *ioschema.Map, map[string]any (extra keys
// are visited in sorted order) or a positional []any.
func (o *Object) load(v any, s *ioschema.Schema, m *ioschema.MemberDef, defs *ioschema.Definitions, node ioschema.Node) (any, error) {
	rec, ok := asRecord(v, s)
	if !ok {
		return nil, typeMismatch(ioschema.CodeInvalidObject, m, node, v)
	}
	var issues ioschema.Issues
	out := ioschema.NewMap()
	var names []string
	if s != nil {
		names = s.Names
	}
	for _, name := range names {
		val, ok := rec.Get(name)
		if !ok {
			val = ioschema.Undefined
		}
		r, err := o.cat.LoadMember(val, m.Child(s.Defs[name]), defs)
		if err != nil {
			if issues, err = ioschema.MergeIssues(issues, err); err != nil {
				return nil, err
			}
			continue
		}
		if !ioschema.IsUndefined(r) {
			out.Set(name, r)
		}
	}
	for _, key := range rec.Keys() {
		if s != nil {
			if _, declared := s.Defs[key]; declared {
				continue
			}
		}
		if s != nil && !s.Open {
			issues = append(issues, ioschema.NewIssue(ioschema.CodeUnknownMember, m.ChildAt(key, nil), node, nil))
			continue
		}
		val, _ := rec.Get(key)
		r, err := o.cat.LoadMember(val, m.ChildAt(key, wildcard(s)), defs)
		if err != nil {
			if issues, err = ioschema.MergeIssues(issues, err); err != nil {
				return nil, err
			}
			continue
		}
		out.Set(key, r)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

// asRecord normalizes the accepted record shapes to a *ioschema.Map.
// Positional values take the declared names, extras keep their index.
func asRecord(v any, s *ioschema.Schema) (*ioschema.Map, bool) {
	switch x := v.(type) {
	case *ioschema.Map:
		return x, true
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := ioschema.NewMap()
		for _, k := range keys {
			out.Set(k, x[k])
		}
		return out, true
	case []any:
		out := ioschema.NewMap()
		for i, e := range x {
			key := strconv.Itoa(i)
			if s != nil && i < len(s.Names) {
				key = s.Names[i]
			}
			out.Set(key, e)
		}
		return out, true
	}
	return nil, false
}

// Stringify renders a record positionally: declared fields in order, with
// empty slots for omitted inner fields and omitted trailing fields dropped.
// Extra members of open schemas follow as key: value pairs.
func (o *Object) Stringify(v any, m *ioschema.MemberDef, defs *ioschema.Definitions) (string, bool, error) {
	ck, err := ioschema.Check(m, v, nil, defs, nil)
	if err != nil {
		return "", false, err
	}
	if ck.Final {
		return stringifyScalar(ck.Value)
	}
	if sch, ok := ck.Value.(*ioschema.Schema); ok && m.IsSchema {
		return describeSchema(sch), true, nil
	}
	s, err := m.ResolveSchema(defs)
	if err != nil {
		return "", false, err
	}
	if s == nil {
		return inferNotation(ck.Value)
	}
	rec, ok := asRecord(ck.Value, s)
	if !ok {
		return "", false, typeMismatch(ioschema.CodeInvalidObject, m, nil, ck.Value)
	}

	parts := make([]string, 0, len(s.Names))
	present := make([]bool, 0, len(s.Names))
	for _, name := range s.Names {
		val, ok := rec.Get(name)
		if !ok {
			val = ioschema.Undefined
		}
		text, ok, err := o.cat.StringifyMember(val, m.Child(s.Defs[name]), defs)
		if err != nil {
			return "", false, err
		}
		parts = append(parts, text)
		present = append(present, ok)
	}
	body := joinPositional(parts, present)

	for _, key := range rec.Keys() {
		if _, declared := s.Defs[key]; declared {
			continue
		}
		if !s.Open {
			return "", false, ioschema.Fail(ioschema.CodeUnknownMember, m.ChildAt(key, nil), nil, nil)
		}
		val, _ := rec.Get(key)
		text, ok, err := o.cat.StringifyMember(val, m.ChildAt(key, wildcard(s)), defs)
		if err != nil {
			return "", false, err
		}
		if !ok {
			continue
		}
		if body != "" {
			body += ", "
		}
		body += memberKey(key) + ": " + text
	}
	return "{" + body + "}", true, nil
}

// describeSchema renders a compiled schema back into member notation.
func describeSchema(s *ioschema.Schema) string {
	parts := make([]string, 0, len(s.Names)+1)
	for _, name := range s.Names {
		d := s.Defs[name]
		key := memberKey(name)
		if d.Optional {
			key += "?"
		}
		if d.Null {
			key += "*"
		}
		switch {
		case d.Schema != nil:
			parts = append(parts, key+": "+describeSchema(d.Schema))
		case d.SchemaRef != "":
			parts = append(parts, key+": "+d.SchemaRef)
		case d.Type == "" || d.Type == "any":
			parts = append(parts, key)
		default:
			parts = append(parts, key+": "+d.Type)
		}
	}
	if s.Open {
		if s.Wildcard != nil && s.Wildcard.Type != "" {
			parts = append(parts, "*: "+s.Wildcard.Type)
		} else {
			parts = append(parts, "*")
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
