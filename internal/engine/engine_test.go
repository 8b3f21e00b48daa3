package engine_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/internal/engine"
)

// sliceSource replays a fixed token list.
type sliceSource struct {
	toks []engine.Token
	i    int
	last int64
}

func (s *sliceSource) NextToken() (engine.Token, error) {
	if s.i >= len(s.toks) {
		return engine.Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	s.last = t.Offset
	return t, nil
}

func (s *sliceSource) Location() int64 { return s.last }

func tokens(kinds ...any) []engine.Token {
	var out []engine.Token
	for i, k := range kinds {
		t := engine.Token{Offset: int64(i)}
		switch v := k.(type) {
		case engine.Kind:
			t.Kind = v
		case string:
			// ":name" is a key, anything else a string value
			if len(v) > 0 && v[0] == ':' {
				t.Kind, t.String = engine.KindKey, v[1:]
			} else {
				t.Kind, t.String = engine.KindString, v
			}
		case float64:
			t.Kind, t.Number = engine.KindNumber, "1"
		case bool:
			t.Kind, t.Bool = engine.KindBool, v
		case nil:
			t.Kind = engine.KindNull
		}
		out = append(out, t)
	}
	return out
}

func TestBuilder_Object(t *testing.T) {
	src := &sliceSource{toks: tokens(
		engine.KindBeginObject,
		":a", engine.KindBeginArray, 1.0, "x", engine.KindEndArray,
		":b", nil,
		":c", true,
		engine.KindEndObject,
	)}
	n, err := engine.NewBuilder(src, nil).Next()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	got := n.Resolve(nil).(*ioschema.Map)
	want := ioschema.MapOf("a", []any{1.0, "x"}, "b", nil, "c", true)
	if !got.Equal(want) {
		t.Fatalf("got %v", got.Keys())
	}
	mem, _ := n.(*ioschema.ObjectNode).Member("a")
	if raw := mem.Value.(*ioschema.ArrayNode).Children[0].(*ioschema.TokenNode).Raw; raw != "1" {
		t.Fatalf("expected raw text, got %q", raw)
	}
}

func TestBuilder_AllAndTruncation(t *testing.T) {
	src := &sliceSource{toks: tokens("a", 1.0, engine.KindBeginArray, engine.KindEndArray)}
	nodes, err := engine.NewBuilder(src, nil).All()
	if err != nil || len(nodes) != 3 {
		t.Fatalf("expected three values, got %d, %v", len(nodes), err)
	}

	src = &sliceSource{toks: tokens(engine.KindBeginObject, ":a", 1.0)}
	if _, err := engine.NewBuilder(src, nil).Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}

	src = &sliceSource{toks: tokens(engine.KindEndArray)}
	if _, err := engine.NewBuilder(src, nil).Next(); !errors.Is(err, engine.ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
}

func TestEnforce_DuplicateKeys(t *testing.T) {
	toks := tokens(
		engine.KindBeginArray,
		engine.KindBeginObject, ":a", 1.0, ":a", 1.0, engine.KindEndObject,
		engine.KindEndArray,
	)

	src := engine.WrapWithEnforcement(&sliceSource{toks: toks}, engine.EnforceOptions{OnDuplicate: engine.DupError})
	_, err := engine.NewBuilder(src, nil).Next()
	iss, ok := ioschema.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Path != "[0].a" || iss[0].Pos.Offset != 4 || iss[0].Params["reason"] != `duplicate key "a"` {
		t.Fatalf("unexpected issue %+v", iss[0])
	}

	var warned []string
	src = engine.WrapWithEnforcement(&sliceSource{toks: toks}, engine.EnforceOptions{
		OnDuplicate: engine.DupWarn,
		IssueSink:   func(it ioschema.Issue) { warned = append(warned, it.Path) },
	})
	if _, err := engine.NewBuilder(src, nil).Next(); err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"[0].a"}, warned); diff != "" {
		t.Fatalf("warnings (-want +got):\n%s", diff)
	}

	src = engine.WrapWithEnforcement(&sliceSource{toks: toks}, engine.EnforceOptions{OnDuplicate: engine.DupIgnore})
	if _, err := engine.NewBuilder(src, nil).Next(); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestEnforce_SiblingObjectsHaveOwnKeys(t *testing.T) {
	toks := tokens(
		engine.KindBeginArray,
		engine.KindBeginObject, ":a", 1.0, engine.KindEndObject,
		engine.KindBeginObject, ":a", 1.0, engine.KindEndObject,
		engine.KindEndArray,
	)
	src := engine.WrapWithEnforcement(&sliceSource{toks: toks}, engine.EnforceOptions{OnDuplicate: engine.DupError})
	if _, err := engine.NewBuilder(src, nil).Next(); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestEnforce_Limits(t *testing.T) {
	toks := tokens(
		engine.KindBeginObject,
		":a", engine.KindBeginObject, ":b", engine.KindBeginArray, engine.KindEndArray, engine.KindEndObject,
		engine.KindEndObject,
	)
	src := engine.WrapWithEnforcement(&sliceSource{toks: toks}, engine.EnforceOptions{MaxDepth: 2})
	_, err := engine.NewBuilder(src, nil).Next()
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "a.b" || iss[0].Params["reason"] != "max depth 2 exceeded" {
		t.Fatalf("expected max depth at a.b, got %v", err)
	}

	src = engine.WrapWithEnforcement(&sliceSource{toks: toks}, engine.EnforceOptions{MaxBytes: 3})
	_, err = engine.NewBuilder(src, nil).Next()
	iss, _ = ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Params["reason"] != "max bytes 3 exceeded" || iss[0].Pos.Offset != 4 {
		t.Fatalf("expected max bytes at offset 4, got %v", err)
	}
}

func TestLineIndex(t *testing.T) {
	li := engine.NewLineIndex([]byte("ab\ncd\n\nx"))
	cases := []struct {
		off  int64
		want string
	}{
		{0, "1:1"},
		{1, "1:2"},
		{3, "2:1"},
		{4, "2:2"},
		{6, "3:1"},
		{7, "4:1"},
		{-1, "-"},
	}
	for _, tc := range cases {
		if got := li.Pos(tc.off).String(); got != tc.want {
			t.Fatalf("offset %d: got %s want %s", tc.off, got, tc.want)
		}
	}
	it := li.LocateIssue(ioschema.Issue{Pos: ioschema.Pos{Offset: 4}})
	if it.Pos.Line != 2 || it.Pos.Col != 2 {
		t.Fatalf("got %v", it.Pos)
	}
}
