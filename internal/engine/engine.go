package engine

import (
	"errors"
	"io"
	"sort"
	"strconv"

	"github.com/reoring/ioschema"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrUnexpectedToken reports a token that cannot appear at its position.
var ErrUnexpectedToken = errors.New("unexpected token")

// Builder turns a token stream into syntax nodes.
type Builder struct {
	src TokenSource
	pos func(off int64) ioschema.Pos
}

// NewBuilder returns a Builder over src. lines, when non-nil, maps byte
// offsets to line/column positions.
func NewBuilder(src TokenSource, lines *LineIndex) *Builder {
	b := &Builder{src: src}
	if lines != nil {
		b.pos = lines.Pos
	} else {
		b.pos = func(off int64) ioschema.Pos { return ioschema.Pos{Offset: off} }
	}
	return b
}

// Next builds the next top-level value. It returns io.EOF when the stream is
// exhausted.
func (b *Builder) Next() (ioschema.Node, error) {
	tok, err := b.src.NextToken()
	if err != nil {
		return nil, b.locate(err)
	}
	n, err := b.value(tok)
	if err != nil {
		return nil, b.locate(err)
	}
	return n, nil
}

// locate fills line/column positions of enforcement issues.
func (b *Builder) locate(err error) error {
	var iss ioschema.Issues
	if !errors.As(err, &iss) {
		return err
	}
	out := make(ioschema.Issues, len(iss))
	for i, it := range iss {
		if it.Pos.Line == 0 && it.Pos.Offset >= 0 {
			it.Pos = b.pos(it.Pos.Offset)
		}
		out[i] = it
	}
	return out
}

// All builds every remaining top-level value.
func (b *Builder) All() ([]ioschema.Node, error) {
	var out []ioschema.Node
	for {
		n, err := b.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

func (b *Builder) value(tok Token) (ioschema.Node, error) {
	p := b.pos(tok.Offset)
	switch tok.Kind {
	case KindBeginObject:
		return b.object(p)
	case KindBeginArray:
		return b.array(p)
	case KindString:
		return &ioschema.TokenNode{Value: tok.String, Type: ioschema.TokenString, P: p}, nil
	case KindNumber:
		return NumberToken(tok.Number, p), nil
	case KindBool:
		return &ioschema.TokenNode{Value: tok.Bool, Type: ioschema.TokenBool, P: p}, nil
	case KindNull:
		return &ioschema.TokenNode{Type: ioschema.TokenNull, P: p}, nil
	default:
		return nil, ErrUnexpectedToken
	}
}

func (b *Builder) object(p ioschema.Pos) (ioschema.Node, error) {
	obj := &ioschema.ObjectNode{P: p}
	for {
		tok, err := b.src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if tok.Kind == KindEndObject {
			return obj, nil
		}
		if tok.Kind != KindKey {
			return nil, ErrUnexpectedToken
		}
		vt, err := b.src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		v, err := b.value(vt)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, &ioschema.MemberNode{Key: tok.String, HasKey: true, Value: v, P: b.pos(tok.Offset)})
	}
}

func (b *Builder) array(p ioschema.Pos) (ioschema.Node, error) {
	arr := &ioschema.ArrayNode{P: p}
	for {
		tok, err := b.src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := b.value(tok)
		if err != nil {
			return nil, err
		}
		arr.Children = append(arr.Children, v)
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// NumberToken builds a number token. The float64 value is best-effort; Raw
// keeps the exact text for the bigint and decimal handlers.
func NumberToken(raw string, p ioschema.Pos) *ioschema.TokenNode {
	f, _ := strconv.ParseFloat(raw, 64)
	return &ioschema.TokenNode{Value: f, Type: ioschema.TokenNumber, Raw: raw, P: p}
}

// LineIndex maps byte offsets to 1-based line and column numbers.
type LineIndex struct {
	starts []int64
}

// NewLineIndex indexes the line starts of data.
func NewLineIndex(data []byte) *LineIndex {
	li := &LineIndex{starts: []int64{0}}
	for i, c := range data {
		if c == '\n' {
			li.starts = append(li.starts, int64(i+1))
		}
	}
	return li
}

// LocateIssue fills the line and column of an issue carrying only an offset.
func (li *LineIndex) LocateIssue(it ioschema.Issue) ioschema.Issue {
	if it.Pos.Line == 0 && it.Pos.Offset >= 0 {
		it.Pos = li.Pos(it.Pos.Offset)
	}
	return it
}

// Pos converts an offset; negative offsets yield the zero Pos.
func (li *LineIndex) Pos(off int64) ioschema.Pos {
	if off < 0 {
		return ioschema.Pos{Offset: off}
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off })
	return ioschema.Pos{Line: line, Col: int(off-li.starts[line-1]) + 1, Offset: off}
}
