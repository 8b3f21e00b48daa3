// Package compile turns schema notation into *ioschema.Schema values.
//
// Member forms:
//
//	name            any value, required
//	name?           optional
//	name*           nullable
//	*               open schema (extra members accepted)
//	*: number       open schema, extra members validated as number
//	name: number    typed member
//	name: {number, min: 1, max: 9}
//	name: {street, city}   nested schema
//	name: {street, "zip?"} markers inside flow maps are quoted
//	name: [string]         array of strings
//	name: $address         member typed by a defined schema
//
// Descriptor options are validated against the type's self-describing
// schema, so {number, minimum: 1} fails with unknown-member.
package compile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/ioschema"
)

// Compiler compiles schema nodes with the types registered in a catalog.
type Compiler struct {
	cat *ioschema.Catalog
}

// New returns a compiler bound to cat.
func New(cat *ioschema.Catalog) *Compiler { return &Compiler{cat: cat} }

// Compile implements ioschema.SchemaCompiler. node is an *ObjectNode with
// member definitions, or a "$name" token naming a defined schema.
func (c *Compiler) Compile(node ioschema.Node, defs *ioschema.Definitions) (*ioschema.Schema, error) {
	return c.compile("", node, defs)
}

// CompileNamed is Compile with a schema name (used in diagnostics).
func (c *Compiler) CompileNamed(name string, node ioschema.Node, defs *ioschema.Definitions) (*ioschema.Schema, error) {
	s, err := c.compile("", node, defs)
	if err != nil {
		return nil, err
	}
	s.Name = strings.TrimPrefix(name, "$")
	return s, nil
}

func (c *Compiler) compile(path string, node ioschema.Node, defs *ioschema.Definitions) (*ioschema.Schema, error) {
	switch n := node.(type) {
	case *ioschema.TokenNode:
		if ref, ok := n.Value.(string); ok && strings.HasPrefix(ref, "$") {
			return defs.SchemaOf(ref)
		}
	case *ioschema.ObjectNode:
		return c.compileObject(path, n, defs)
	}
	return nil, fail(ioschema.CodeInvalidObject, path, node, nil)
}

func (c *Compiler) compileObject(path string, obj *ioschema.ObjectNode, defs *ioschema.Definitions) (*ioschema.Schema, error) {
	s := ioschema.NewSchema("")
	var issues ioschema.Issues
	for _, mem := range obj.Members {
		if mem == nil {
			continue
		}
		if !mem.HasKey {
			tok, ok := mem.Value.(*ioschema.TokenNode)
			name, isStr := "", false
			if ok {
				name, isStr = tok.Value.(string)
			}
			if !isStr {
				issues = append(issues, issue(ioschema.CodeInvalidValue, path, mem.Value, map[string]string{"reason": "member definition needs a name"}))
				continue
			}
			if name == "*" {
				s.Open = true
				continue
			}
			fname, optional, null := splitName(name)
			s.Add(&ioschema.MemberDef{
				Name:     fname,
				Type:     "any",
				Path:     ioschema.JoinPath(path, fname),
				Optional: optional,
				Null:     null,
			})
			continue
		}

		if mem.Key == "*" {
			def, err := c.typedef(ioschema.JoinPath(path, "*"), mem.Value, defs)
			if err != nil {
				if issues, err = ioschema.MergeIssues(issues, err); err != nil {
					return nil, err
				}
				continue
			}
			s.Open = true
			s.Wildcard = def
			continue
		}
		fname, optional, null := splitName(mem.Key)
		fpath := ioschema.JoinPath(path, fname)
		def, err := c.typedef(fpath, mem.Value, defs)
		if err != nil {
			if issues, err = ioschema.MergeIssues(issues, err); err != nil {
				return nil, err
			}
			continue
		}
		def.Name = fname
		def.Path = fpath
		def.Optional = def.Optional || optional
		def.Null = def.Null || null
		s.Add(def)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return s, nil
}

// splitName strips the optional (?) and nullable (*) markers, in any order.
func splitName(raw string) (name string, optional, null bool) {
	name = raw
	for len(name) > 1 {
		switch name[len(name)-1] {
		case '?':
			optional = true
		case '*':
			null = true
		default:
			return name, optional, null
		}
		name = name[:len(name)-1]
	}
	return name, optional, null
}

// typedef compiles the value side of a member definition.
func (c *Compiler) typedef(path string, node ioschema.Node, defs *ioschema.Definitions) (*ioschema.MemberDef, error) {
	switch n := node.(type) {
	case nil:
		return &ioschema.MemberDef{Type: "any", Path: path}, nil
	case *ioschema.TokenNode:
		if n.Type == ioschema.TokenNull {
			return &ioschema.MemberDef{Type: "any", Path: path}, nil
		}
		name, ok := n.Value.(string)
		if !ok {
			return nil, fail(ioschema.CodeInvalidType, path, node, map[string]string{"expected": "type name"})
		}
		return c.named(path, name, node)
	case *ioschema.ArrayNode:
		def := &ioschema.MemberDef{Type: "array", Path: path}
		if len(n.Children) > 0 && n.Children[0] != nil {
			of, err := c.typedef(path, n.Children[0], defs)
			if err != nil {
				return nil, err
			}
			def.Of = of
		}
		return def, nil
	case *ioschema.ObjectNode:
		if first := leadingType(n); first != "" && (strings.HasPrefix(first, "$") || c.cat.Has(first)) {
			return c.withOptions(path, first, n, defs)
		}
		s, err := c.compileObject(path, n, defs)
		if err != nil {
			return nil, err
		}
		return &ioschema.MemberDef{Type: "object", Path: path, Schema: s}, nil
	}
	return nil, fail(ioschema.CodeInvalidType, path, node, map[string]string{"expected": "type definition"})
}

// named resolves a bare type name or $schema reference.
func (c *Compiler) named(path, name string, node ioschema.Node) (*ioschema.MemberDef, error) {
	if strings.HasPrefix(name, "$") {
		return &ioschema.MemberDef{Type: "object", Path: path, SchemaRef: name}, nil
	}
	if !c.cat.Has(name) {
		return nil, fail(ioschema.CodeInvalidType, path, node, map[string]string{"expected": "a registered type, got " + name})
	}
	return &ioschema.MemberDef{Type: name, Path: path}, nil
}

// leadingType returns the first member when it is an unkeyed string token,
// as in {number, min: 1}.
func leadingType(obj *ioschema.ObjectNode) string {
	if len(obj.Members) == 0 || obj.Members[0] == nil || obj.Members[0].HasKey {
		return ""
	}
	tok, ok := obj.Members[0].Value.(*ioschema.TokenNode)
	if !ok {
		return ""
	}
	s, _ := tok.Value.(string)
	return s
}

// withOptions compiles {type, opt: value, ...}. Options are first validated
// against the type's option schema through the object handler.
func (c *Compiler) withOptions(path, typeName string, obj *ioschema.ObjectNode, defs *ioschema.Definitions) (*ioschema.MemberDef, error) {
	def, err := c.named(path, typeName, obj.Members[0].Value)
	if err != nil {
		return nil, err
	}
	h, err := c.cat.Lookup(def.Type)
	if err != nil {
		return nil, err
	}
	var opts *ioschema.Map
	if os := h.Schema(); os != nil {
		v, err := c.cat.ParseMember(obj, &ioschema.MemberDef{Type: "object", Path: path, Schema: os}, defs)
		if err != nil {
			return nil, err
		}
		opts, _ = v.(*ioschema.Map)
	} else {
		opts, _ = obj.Resolve(defs).(*ioschema.Map)
	}
	if err := applyOptions(def, opts); err != nil {
		return nil, fail(ioschema.CodeInvalidValue, path, obj, map[string]string{"reason": err.Error()})
	}

	// element and alternative descriptors are type definitions themselves
	if mem, ok := obj.Member("of"); ok {
		of, err := c.typedef(path, mem.Value, defs)
		if err != nil {
			return nil, err
		}
		def.Of = of
	}
	if mem, ok := obj.Member("anyOf"); ok {
		arr, isArr := mem.Value.(*ioschema.ArrayNode)
		if !isArr {
			return nil, fail(ioschema.CodeNotAnArray, ioschema.JoinPath(path, "anyOf"), mem.Value, nil)
		}
		for _, alt := range arr.Children {
			d, err := c.typedef(path, alt, defs)
			if err != nil {
				return nil, err
			}
			def.AnyOf = append(def.AnyOf, d)
		}
	}
	return def, nil
}

var errOptionType = errors.New("option has the wrong type")

// applyOptions copies validated options onto def.
func applyOptions(def *ioschema.MemberDef, opts *ioschema.Map) error {
	var err error
	opts.Range(func(k string, v any) bool {
		switch k {
		case "type", "of", "anyOf", "path":
		case "optional":
			def.Optional, _ = v.(bool)
		case "null":
			def.Null, _ = v.(bool)
		case "default":
			def.Default = v
		case "choices":
			def.Choices, _ = v.([]any)
		case "min":
			def.Min = v
		case "max":
			def.Max = v
		case "multipleOf":
			def.MultipleOf = v
		case "pattern":
			def.Pattern, _ = v.(string)
		case "len", "minLen", "maxLen", "precision", "scale":
			n, ok := v.(int64)
			if !ok {
				err = fmt.Errorf("%w: %s", errOptionType, k)
				return false
			}
			p := ioschema.IntPtr(int(n))
			switch k {
			case "len":
				def.Len = p
			case "minLen":
				def.MinLen = p
			case "maxLen":
				def.MaxLen = p
			case "precision":
				def.Precision = p
			case "scale":
				def.Scale = p
			}
		case "schema":
			s, ok := v.(*ioschema.Schema)
			if !ok {
				err = fmt.Errorf("%w: %s", errOptionType, k)
				return false
			}
			def.Schema = s
		default:
			if def.Options == nil {
				def.Options = map[string]any{}
			}
			def.Options[k] = v
		}
		return true
	})
	return err
}

// Definitions compiles a definitions block: $name entries become schemas,
// every other entry keeps its resolved value. Entries are added in order, so
// a schema may refer to schemas defined before it by name.
func (c *Compiler) Definitions(node ioschema.Node) (*ioschema.Definitions, error) {
	obj, ok := node.(*ioschema.ObjectNode)
	if !ok {
		return nil, fail(ioschema.CodeInvalidObject, "", node, nil)
	}
	defs := ioschema.NewDefinitions()
	var issues ioschema.Issues
	for _, mem := range obj.Members {
		if mem == nil || !mem.HasKey {
			continue
		}
		if strings.HasPrefix(mem.Key, "$") {
			s, err := c.compile("", mem.Value, defs)
			if err != nil {
				if issues, err = ioschema.MergeIssues(issues, err); err != nil {
					return nil, err
				}
				continue
			}
			s.Name = strings.TrimPrefix(mem.Key, "$")
			defs.Set(mem.Key, s)
			continue
		}
		if mem.Value == nil {
			defs.Set(mem.Key, nil)
			continue
		}
		defs.Set(mem.Key, mem.Value.Resolve(defs))
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return defs, nil
}

func issue(code, path string, node ioschema.Node, data map[string]string) ioschema.Issue {
	return ioschema.NewIssue(code, &ioschema.MemberDef{Path: path}, node, data)
}

func fail(code, path string, node ioschema.Node, data map[string]string) error {
	return ioschema.Issues{issue(code, path, node, data)}
}
