package ioschema

import (
	"errors"
	"fmt"
	"strings"
)

// Definitions is the ordered table of schema ($name), variable (@name) and
// plain entries that references resolve against. A nil *Definitions is an
// empty table.
type Definitions struct {
	keys []string
	vals map[string]any
}

// NewDefinitions returns an empty table.
func NewDefinitions() *Definitions { return &Definitions{vals: map[string]any{}} }

// Set adds or replaces an entry; keys include their sigil ("$address",
// "@currency").
func (d *Definitions) Set(key string, v any) *Definitions {
	if d.vals == nil {
		d.vals = map[string]any{}
	}
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
	return d
}

// Get returns the raw entry for key without dereferencing.
func (d *Definitions) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[key]
	return v, ok
}

// Keys returns the entry keys in definition order.
func (d *Definitions) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Len returns the number of entries.
func (d *Definitions) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// IsRef reports whether v is a reference string ($schema or @variable).
func IsRef(v any) bool {
	s, ok := v.(string)
	return ok && len(s) > 1 && (s[0] == '$' || s[0] == '@')
}

// Deref resolves references transitively. Non-references are returned
// unchanged. @name falls back to a plain name entry; an undefined @variable
// is returned as its literal text; an undefined $schema fails with
// ErrSchemaNotFound.
func (d *Definitions) Deref(v any) (any, error) {
	var seen map[string]bool
	for IsRef(v) {
		key := v.(string)
		next, ok := d.Get(key)
		if !ok && key[0] == '@' {
			next, ok = d.Get(key[1:])
		}
		if !ok {
			if key[0] == '$' {
				return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, key)
			}
			return v, nil
		}
		if seen == nil {
			seen = map[string]bool{}
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrReferenceCycle, key)
		}
		seen[key] = true
		v = next
	}
	return v, nil
}

// SchemaOf dereferences name (with or without the leading '$') to a schema.
func (d *Definitions) SchemaOf(name string) (*Schema, error) {
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	v, err := d.Deref(name)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*Schema)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrSchemaNotFound, name, v)
	}
	return s, nil
}

// derefIssue maps a Deref failure to an issue at m.
func derefIssue(err error, m *MemberDef, node Node, ref any) error {
	code := CodeInvalidValue
	data := map[string]string{"reason": err.Error()}
	if errors.Is(err, ErrSchemaNotFound) {
		code = CodeSchemaNotFound
		data = map[string]string{"schema": fmt.Sprint(ref)}
	}
	return FailCause(code, m, node, err, data)
}

// DerefFor resolves v against d and reports failures as issues at m.
func DerefFor(d *Definitions, v any, m *MemberDef, node Node) (any, error) {
	out, err := d.Deref(v)
	if err != nil {
		return nil, derefIssue(err, m, node, v)
	}
	return out, nil
}
