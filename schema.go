package ioschema

import (
	"fmt"
	"strconv"
)

// Schema is an ordered, named collection of field descriptors plus an
// open/closed flag.
type Schema struct {
	Name  string
	Names []string
	Defs  map[string]*MemberDef
	// Open schemas accept members not named in Defs. Wildcard, when set,
	// validates those extra members.
	Open     bool
	Wildcard *MemberDef
}

// NewSchema returns an empty closed schema.
func NewSchema(name string) *Schema {
	return &Schema{Name: name, Defs: map[string]*MemberDef{}}
}

// Add appends field descriptors in order. A descriptor's Path defaults to its
// Name.
func (s *Schema) Add(defs ...*MemberDef) *Schema {
	if s.Defs == nil {
		s.Defs = map[string]*MemberDef{}
	}
	for _, d := range defs {
		if d.Path == "" {
			d.Path = d.Name
		}
		if _, ok := s.Defs[d.Name]; !ok {
			s.Names = append(s.Names, d.Name)
		}
		s.Defs[d.Name] = d
	}
	return s
}

// Get returns the descriptor for a field name.
func (s *Schema) Get(name string) (*MemberDef, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.Defs[name]
	return d, ok
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Names)
}

// MemberDef describes one field: declared type, presence rules and the
// type-specific constraints. It is read-only during validation; handlers
// derive child descriptors with Child and Elem.
type MemberDef struct {
	Name string // field key within its schema
	Type string // handler name, e.g. "number", "object"
	Path string // dotted diagnostics path

	Optional bool
	Null     bool
	// Default applies when the value is absent. It may be a @variable; the
	// strings "N", "T"/"true" and "F"/"false" stand for null, true and false.
	Default any
	// Choices is the closed set of accepted values; entries may be
	// @variables.
	Choices []any

	Min        any // number, decimal, bigint, time or @variable
	Max        any
	MultipleOf any

	Len     *int
	MinLen  *int
	MaxLen  *int
	Pattern string

	Precision *int
	Scale     *int

	// AnyOf lists alternatives tried in order by the any handler.
	AnyOf []*MemberDef
	// Of describes array elements.
	Of *MemberDef
	// Schema or SchemaRef ("$name") describe object members.
	Schema    *Schema
	SchemaRef string
	// IsSchema marks a field whose value is itself a schema definition; the
	// object handler compiles it instead of validating data.
	IsSchema bool

	// Options keeps descriptor options not mapped to a field above.
	Options map[string]any
}

// Clone returns a shallow copy.
func (m *MemberDef) Clone() *MemberDef {
	c := *m
	return &c
}

// Child derives the descriptor of member d inside m, with a rebased path.
func (m *MemberDef) Child(d *MemberDef) *MemberDef {
	c := d.Clone()
	c.Path = JoinPath(m.path(), d.Name)
	return c
}

// ChildAt derives a descriptor for key using d, or an untyped descriptor when
// d is nil.
func (m *MemberDef) ChildAt(key string, d *MemberDef) *MemberDef {
	var c *MemberDef
	if d != nil {
		c = d.Clone()
	} else {
		c = &MemberDef{Type: "any"}
	}
	c.Name = key
	c.Path = JoinPath(m.path(), key)
	return c
}

// Elem derives the descriptor for element i of an array field. A missing
// element descriptor accepts anything.
func (m *MemberDef) Elem(i int) *MemberDef {
	var c *MemberDef
	if m.Of != nil {
		c = m.Of.Clone()
	} else {
		c = &MemberDef{Type: "any"}
	}
	c.Path = IndexPath(m.path(), i)
	return c
}

// Opt returns an extra option by name.
func (m *MemberDef) Opt(name string) (any, bool) {
	if m == nil || m.Options == nil {
		return nil, false
	}
	v, ok := m.Options[name]
	return v, ok
}

func (m *MemberDef) path() string {
	if m == nil {
		return ""
	}
	return m.Path
}

func (m *MemberDef) String() string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%s", m.Path, m.Type)
}

// ResolveSchema returns the embedded schema or dereferences SchemaRef.
func (m *MemberDef) ResolveSchema(defs *Definitions) (*Schema, error) {
	if m.Schema != nil {
		return m.Schema, nil
	}
	if m.SchemaRef == "" {
		return nil, nil
	}
	s, err := defs.SchemaOf(m.SchemaRef)
	if err != nil {
		return nil, derefIssue(err, m, nil, m.SchemaRef)
	}
	return s, nil
}

// IntPtr returns &n; convenient for Len/MinLen/MaxLen/Precision/Scale.
func IntPtr(n int) *int { return &n }

// JoinPath appends a field name to a dotted path.
func JoinPath(base, name string) string {
	if base == "" {
		return name
	}
	if name == "" {
		return base
	}
	return base + "." + name
}

// IndexPath appends an element index: field[2].
func IndexPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}
