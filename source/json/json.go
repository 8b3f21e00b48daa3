// Package json is the JSON front-end. It turns JSON text into ioschema
// syntax nodes using goccy/go-json's streaming decoder, keeping the exact
// text of numbers so that bigint and decimal members lose nothing.
package json

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/ioschema"
	eng "github.com/reoring/ioschema/internal/engine"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	// last byte of the token
	off := s.dec.InputOffset() - 1
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case ']':
			s.pop()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: off}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *source) Location() int64 { return s.dec.InputOffset() }

// ErrEmpty reports input without any JSON value.
var ErrEmpty = errors.New("json: empty input")

// Parse decodes a single JSON value into a syntax node.
func Parse(data []byte, opt ioschema.ParseOpt) (ioschema.Node, error) {
	b := builder(data, opt)
	n, err := b.Next()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	if _, err := b.Next(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errTrailing
		}
		return nil, err
	}
	return n, nil
}

var errTrailing = errors.New("json: trailing data after top-level value")

// ParseRecords decodes a record stream. A single top-level array yields its
// elements; otherwise every top-level value (as in JSON Lines) is a record.
func ParseRecords(data []byte, opt ioschema.ParseOpt) ([]ioschema.Node, error) {
	nodes, err := builder(data, opt).All()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 {
		if arr, ok := nodes[0].(*ioschema.ArrayNode); ok {
			return arr.Children, nil
		}
	}
	return nodes, nil
}

func builder(data []byte, opt ioschema.ParseOpt) *eng.Builder {
	lines := eng.NewLineIndex(data)
	if opt.OnWarning != nil {
		warn := opt.OnWarning
		opt.OnWarning = func(it ioschema.Issue) { warn(lines.LocateIssue(it)) }
	}
	src := eng.WrapWithEnforcement(NewBytes(data), EnforceOptions(opt))
	return eng.NewBuilder(src, lines)
}

// EnforceOptions maps front-end options onto the engine's enforcement.
func EnforceOptions(opt ioschema.ParseOpt) eng.EnforceOptions {
	dup := eng.DupIgnore
	switch opt.Strictness.OnDuplicateKey {
	case ioschema.Warn:
		dup = eng.DupWarn
	case ioschema.Error:
		dup = eng.DupError
	}
	return eng.EnforceOptions{
		OnDuplicate: dup,
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   opt.OnWarning,
	}
}
