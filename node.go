package ioschema

import (
	"fmt"
	"strconv"
)

// Pos is a source position. Line and Col are 1-based; zero means unknown.
type Pos struct {
	Line   int
	Col    int
	Offset int64
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsValid reports whether the position carries a line.
func (p Pos) IsValid() bool { return p.Line > 0 }

// TokenType identifies the literal kind held by a TokenNode.
type TokenType int

const (
	TokenString TokenType = iota
	TokenNumber
	TokenBigInt
	TokenDecimal
	TokenBool
	TokenNull
	TokenDateTime
	TokenUndefined
)

var tokenTypeNames = [...]string{
	TokenString:    "string",
	TokenNumber:    "number",
	TokenBigInt:    "bigint",
	TokenDecimal:   "decimal",
	TokenBool:      "bool",
	TokenNull:      "null",
	TokenDateTime:  "datetime",
	TokenUndefined: "undefined",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// Node is a parsed, pre-validation piece of notation text. The variant set is
// closed: *TokenNode, *ObjectNode, *ArrayNode and *MemberNode.
type Node interface {
	// Resolve converts the node to its native value. Objects become *Map,
	// arrays []any (empty slots are nil), tokens their literal value.
	Resolve(defs *Definitions) any
	Position() Pos
	node()
}

// TokenNode is a leaf literal. Value holds string, float64, *big.Int,
// decimal.Decimal, bool, nil or time.Time according to Type.
type TokenNode struct {
	Value any
	Type  TokenType
	Raw   string // source text, when known
	P     Pos
}

func (t *TokenNode) Resolve(*Definitions) any {
	if t.Type == TokenUndefined {
		return Undefined
	}
	return t.Value
}

func (t *TokenNode) Position() Pos { return t.P }
func (*TokenNode) node()           {}

// ObjectNode is an ordered sequence of members; keyed and positional members
// may be mixed.
type ObjectNode struct {
	Members []*MemberNode
	P       Pos
}

// Resolve builds a *Map. Positional members are keyed by their index.
func (o *ObjectNode) Resolve(defs *Definitions) any {
	m := NewMap()
	for i, mem := range o.Members {
		if mem == nil || mem.Value == nil {
			continue
		}
		key := mem.Key
		if !mem.HasKey {
			key = strconv.Itoa(i)
		}
		m.Set(key, resolveNode(mem.Value, defs))
	}
	return m
}

func (o *ObjectNode) Position() Pos { return o.P }
func (*ObjectNode) node()           {}

// Member returns the member with the given key.
func (o *ObjectNode) Member(key string) (*MemberNode, bool) {
	for _, mem := range o.Members {
		if mem != nil && mem.HasKey && mem.Key == key {
			return mem, true
		}
	}
	return nil, false
}

// ArrayNode is an ordered sequence; a nil child marks an empty slot.
type ArrayNode struct {
	Children []Node
	P        Pos
}

func (a *ArrayNode) Resolve(defs *Definitions) any {
	out := make([]any, len(a.Children))
	for i, c := range a.Children {
		if c != nil {
			out[i] = c.Resolve(defs)
		}
	}
	return out
}

func (a *ArrayNode) Position() Pos { return a.P }
func (*ArrayNode) node()           {}

// MemberNode pairs an optional key with a value node. A nil Value is an empty
// slot (the member was skipped in positional notation).
type MemberNode struct {
	Key    string
	HasKey bool
	Value  Node
	P      Pos
}

func (m *MemberNode) Resolve(defs *Definitions) any { return resolveNode(m.Value, defs) }
func (m *MemberNode) Position() Pos                 { return m.P }
func (*MemberNode) node()                           {}

func resolveNode(n Node, defs *Definitions) any {
	if n == nil {
		return Undefined
	}
	return n.Resolve(defs)
}

// Token builds a TokenNode, inferring Type from the Go value.
func Token(v any) *TokenNode {
	return &TokenNode{Value: v, Type: TokenTypeOf(v)}
}
