// Package yaml is the YAML front-end. It converts yaml.v3 node trees into
// ioschema syntax nodes with line and column positions, and loads schema
// files.
//
// A mapping entry without a value ("name:" in block style, "{number, min: 0}"
// in flow style) becomes an unkeyed member holding the key text, so the
// positional notation of descriptors and records reads naturally in YAML.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/decimal"
)

// Parse decodes the first YAML document into a syntax node.
func Parse(data []byte, opt ioschema.ParseOpt) (ioschema.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return Convert(&doc, opt)
}

// ParseRecords decodes a record stream. A document holding a single
// sequence yields its elements; otherwise every document is a record.
func ParseRecords(data []byte, opt ioschema.ParseOpt) ([]ioschema.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []ioschema.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		n, err := Convert(&doc, opt)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 1 {
		if arr, ok := out[0].(*ioschema.ArrayNode); ok {
			return arr.Children, nil
		}
	}
	return out, nil
}

// Convert turns a yaml.v3 node into a syntax node, applying the duplicate
// key and depth policy of opt.
func Convert(n *yaml.Node, opt ioschema.ParseOpt) (ioschema.Node, error) {
	c := &converter{opt: opt, anchors: map[*yaml.Node]bool{}}
	return c.node(n, "", 0)
}

type converter struct {
	opt     ioschema.ParseOpt
	anchors map[*yaml.Node]bool // aliases being expanded
}

func pos(n *yaml.Node) ioschema.Pos {
	return ioschema.Pos{Line: n.Line, Col: n.Column, Offset: -1}
}

func (c *converter) node(n *yaml.Node, path string, depth int) (ioschema.Node, error) {
	if c.opt.MaxDepth > 0 && depth > c.opt.MaxDepth {
		return nil, c.issue(path, n, "max depth "+strconv.Itoa(c.opt.MaxDepth)+" exceeded")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &ioschema.TokenNode{Type: ioschema.TokenNull, P: pos(n)}, nil
		}
		return c.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		if c.anchors[n.Alias] {
			return nil, c.issue(path, n, "recursive alias "+strconv.Quote(n.Value))
		}
		c.anchors[n.Alias] = true
		defer delete(c.anchors, n.Alias)
		return c.node(n.Alias, path, depth)
	case yaml.SequenceNode:
		arr := &ioschema.ArrayNode{P: pos(n)}
		for i, child := range n.Content {
			v, err := c.node(child, ioschema.IndexPath(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			arr.Children = append(arr.Children, v)
		}
		return arr, nil
	case yaml.MappingNode:
		return c.mapping(n, path, depth)
	case yaml.ScalarNode:
		return Scalar(n)
	}
	return nil, fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
}

func (c *converter) mapping(n *yaml.Node, path string, depth int) (ioschema.Node, error) {
	obj := &ioschema.ObjectNode{P: pos(n)}
	seen := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, c.issue(path, k, "mapping keys must be scalars")
		}
		if isImplicitNull(v) {
			tok, err := Scalar(k)
			if err != nil {
				return nil, err
			}
			obj.Members = append(obj.Members, &ioschema.MemberNode{Value: tok, P: pos(k)})
			continue
		}
		kpath := ioschema.JoinPath(path, k.Value)
		if seen[k.Value] {
			switch c.opt.Strictness.OnDuplicateKey {
			case ioschema.Error:
				return nil, c.issue(kpath, k, "duplicate key "+strconv.Quote(k.Value))
			case ioschema.Warn:
				if c.opt.OnWarning != nil {
					c.opt.OnWarning(c.issue(kpath, k, "duplicate key "+strconv.Quote(k.Value))[0])
				}
			}
		}
		seen[k.Value] = true
		val, err := c.node(v, kpath, depth+1)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, &ioschema.MemberNode{Key: k.Value, HasKey: true, Value: val, P: pos(k)})
	}
	return obj, nil
}

// isImplicitNull reports a mapping value that was left out entirely.
func isImplicitNull(v *yaml.Node) bool {
	return v.Kind == yaml.ScalarNode && v.Tag == "!!null" && v.Value == "" && v.Style == 0
}

func (c *converter) issue(path string, n *yaml.Node, reason string) ioschema.Issues {
	it := ioschema.NewIssue(ioschema.CodeInvalidValue, &ioschema.MemberDef{Path: path}, nil, map[string]string{"reason": reason})
	it.Pos = pos(n)
	return ioschema.Issues{it}
}

var (
	plainNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
	decimalLit  = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)m$`)
	bigintLit   = regexp.MustCompile(`^[-+]?\d+n$`)
)

// Scalar converts a scalar node. Plain scalars such as 1.50m and 123n become
// decimal and bigint tokens; timestamps become datetime tokens.
func Scalar(n *yaml.Node) (*ioschema.TokenNode, error) {
	p := pos(n)
	if n.Style != 0 {
		return &ioschema.TokenNode{Value: n.Value, Type: ioschema.TokenString, Raw: n.Value, P: p}, nil
	}
	switch n.ShortTag() {
	case "!!null":
		return &ioschema.TokenNode{Type: ioschema.TokenNull, Raw: n.Value, P: p}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return &ioschema.TokenNode{Value: b, Type: ioschema.TokenBool, Raw: n.Value, P: p}, nil
	case "!!int", "!!float":
		return number(n, p)
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		return &ioschema.TokenNode{Value: t, Type: ioschema.TokenDateTime, Raw: n.Value, P: p}, nil
	}
	switch {
	case decimalLit.MatchString(n.Value):
		d, err := decimal.New(strings.TrimSuffix(n.Value, "m"))
		if err == nil {
			return &ioschema.TokenNode{Value: d, Type: ioschema.TokenDecimal, Raw: n.Value, P: p}, nil
		}
	case bigintLit.MatchString(n.Value):
		if b, ok := new(big.Int).SetString(strings.TrimPrefix(strings.TrimSuffix(n.Value, "n"), "+"), 10); ok {
			return &ioschema.TokenNode{Value: b, Type: ioschema.TokenBigInt, Raw: n.Value, P: p}, nil
		}
	}
	return &ioschema.TokenNode{Value: n.Value, Type: ioschema.TokenString, Raw: n.Value, P: p}, nil
}

func number(n *yaml.Node, p ioschema.Pos) (*ioschema.TokenNode, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	raw := strings.ReplaceAll(n.Value, "_", "")
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
		if !plainNumber.MatchString(raw) {
			raw = strconv.Itoa(x)
		}
	case int64:
		f = float64(x)
		if !plainNumber.MatchString(raw) {
			raw = strconv.FormatInt(x, 10)
		}
	case uint64:
		f = float64(x)
		if !plainNumber.MatchString(raw) {
			raw = strconv.FormatUint(x, 10)
		}
	case float64:
		f = x
		if !plainNumber.MatchString(raw) {
			// .inf and .nan have no exact text form
			raw = ""
		}
	default:
		return nil, fmt.Errorf("yaml: unexpected number %T at line %d", v, n.Line)
	}
	return &ioschema.TokenNode{Value: f, Type: ioschema.TokenNumber, Raw: raw, P: p}, nil
}
