package ioschema

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Checked is the outcome of the common pipeline. When Final is set, Value is
// the field's result and the handler must not run its own checks.
type Checked struct {
	Value any
	Final bool
	// Node is the syntax node Value came from, after any @variable
	// indirection; nil for native values.
	Node Node
}

// EqualFunc compares a candidate with a choice entry.
type EqualFunc func(a, b any) bool

// Check runs the pre-validation shared by every handler: absence (default or
// optional), null, node resolution with @variable dereference, and the choice
// set. v is a native value, a Node, or Undefined; node is the originating
// syntax node used for diagnostics. eq defaults to Equal.
func Check(m *MemberDef, v any, node Node, defs *Definitions, eq EqualFunc) (Checked, error) {
	var src Node
	if n, ok := v.(Node); ok {
		if node == nil {
			node = n
		}
		src = n
		v = n.Resolve(defs)
	}
	if IsRef(v) && strings.HasPrefix(v.(string), "@") {
		r, err := DerefFor(defs, v, m, node)
		if err != nil {
			return Checked{}, err
		}
		src = nil
		if n, ok := r.(Node); ok {
			src = n
			r = n.Resolve(defs)
		}
		v = r
	}

	if IsUndefined(v) {
		if m.Default != nil {
			dv, err := DerefFor(defs, m.Default, m, node)
			if err != nil {
				return Checked{}, err
			}
			return Checked{Value: defaultLiteral(dv), Final: true}, nil
		}
		if m.Optional {
			return Checked{Value: Undefined, Final: true}, nil
		}
		return Checked{}, Fail(CodeValueRequired, m, node, nil)
	}

	if v == nil {
		if m.Null {
			return Checked{Value: nil, Final: true}, nil
		}
		return Checked{}, Fail(CodeNullNotAllowed, m, node, nil)
	}

	if len(m.Choices) > 0 {
		if eq == nil {
			eq = Equal
		}
		choices := make([]any, 0, len(m.Choices))
		for _, c := range m.Choices {
			r, err := DerefFor(defs, c, m, node)
			if err != nil {
				return Checked{}, err
			}
			choices = append(choices, r)
		}
		matched := false
		for _, c := range choices {
			if eq(v, c) {
				matched = true
				break
			}
		}
		if !matched {
			return Checked{}, Fail(CodeInvalidChoice, m, node, map[string]string{
				"choices": describeChoices(choices),
				"got":     fmt.Sprint(v),
			})
		}
	}
	return Checked{Value: v, Node: src}, nil
}

// CheckNode is Check for a syntax node that may be absent (nil).
func CheckNode(m *MemberDef, node Node, defs *Definitions, eq EqualFunc) (Checked, error) {
	if node == nil {
		return Check(m, Undefined, nil, defs, eq)
	}
	return Check(m, node, node, defs, eq)
}

func defaultLiteral(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch s {
	case "N":
		return nil
	case "T", "true":
		return true
	case "F", "false":
		return false
	}
	return v
}

// describeChoices renders "one of [a, b]" or just "a" for a single choice.
func describeChoices(choices []any) string {
	parts := lo.Map(choices, func(c any, _ int) string {
		if s, ok := c.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		return fmt.Sprint(c)
	})
	if len(parts) == 1 {
		return parts[0]
	}
	return "one of [" + strings.Join(parts, ", ") + "]"
}
