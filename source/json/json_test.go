package json_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/ioschema"
	jsonsrc "github.com/reoring/ioschema/source/json"
)

func TestParse_BuildsNodes(t *testing.T) {
	n, err := jsonsrc.Parse([]byte(`{"name": "Rachel", "tags": ["a", null], "ok": true}`), ioschema.DefaultParseOpt())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	obj, ok := n.(*ioschema.ObjectNode)
	if !ok {
		t.Fatalf("expected object node, got %T", n)
	}
	got := obj.Resolve(nil).(*ioschema.Map)
	want := ioschema.MapOf("name", "Rachel", "tags", []any{"a", nil}, "ok", true)
	if !got.Equal(want) {
		t.Fatalf("resolved mismatch: %v", got)
	}
}

func TestParse_NumberKeepsRawText(t *testing.T) {
	n, err := jsonsrc.Parse([]byte(`123456789012345678901234567890.10`), ioschema.DefaultParseOpt())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	tok := n.(*ioschema.TokenNode)
	if tok.Type != ioschema.TokenNumber || tok.Raw != "123456789012345678901234567890.10" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if _, ok := tok.Value.(float64); !ok {
		t.Fatalf("expected float64 value, got %T", tok.Value)
	}
}

func TestParse_Positions(t *testing.T) {
	n, err := jsonsrc.Parse([]byte("{\n  \"age\": 42\n}"), ioschema.DefaultParseOpt())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	mem, ok := n.(*ioschema.ObjectNode).Member("age")
	if !ok {
		t.Fatalf("member age missing")
	}
	if p := mem.Value.Position(); p.Line != 2 {
		t.Fatalf("expected line 2, got %v", p)
	}
}

func TestParse_DuplicateKey_Error(t *testing.T) {
	opt := ioschema.ParseOpt{Strictness: ioschema.Strictness{OnDuplicateKey: ioschema.Error}}
	_, err := jsonsrc.Parse([]byte(`{"a":1,"a":2}`), opt)
	iss, ok := ioschema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Code != ioschema.CodeInvalidValue || iss[0].Path != "a" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestParse_DuplicateKey_NestedPath(t *testing.T) {
	opt := ioschema.ParseOpt{Strictness: ioschema.Strictness{OnDuplicateKey: ioschema.Error}}
	_, err := jsonsrc.Parse([]byte(`[{"a":1,"a":2}]`), opt)
	iss, ok := ioschema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Path != "[0].a" {
		t.Fatalf("expected path=[0].a, got: %s", iss[0].Path)
	}
}

func TestParse_DuplicateKey_Warn(t *testing.T) {
	var warned []string
	opt := ioschema.ParseOpt{
		Strictness: ioschema.Strictness{OnDuplicateKey: ioschema.Warn},
		OnWarning:  func(it ioschema.Issue) { warned = append(warned, it.Path) },
	}
	n, err := jsonsrc.Parse([]byte(`{"a":1,"a":2}`), opt)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, warned); diff != "" {
		t.Fatalf("warnings (-want +got):\n%s", diff)
	}
	if got := len(n.(*ioschema.ObjectNode).Members); got != 2 {
		t.Fatalf("expected both members kept, got %d", got)
	}
}

func TestParse_DuplicateKey_Ignore(t *testing.T) {
	if _, err := jsonsrc.Parse([]byte(`{"a":1,"a":2}`), ioschema.ParseOpt{}); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestParse_MaxDepth_Exceeded(t *testing.T) {
	opt := ioschema.ParseOpt{MaxDepth: 2}
	_, err := jsonsrc.Parse([]byte(`{"a":{"b":{"c":1}}}`), opt)
	iss, ok := ioschema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Path != "a.b" {
		t.Fatalf("expected path=a.b, got: %s", iss[0].Path)
	}
}

func TestParse_MaxDepth_Within(t *testing.T) {
	opt := ioschema.ParseOpt{MaxDepth: 3}
	if _, err := jsonsrc.Parse([]byte(`{"a":{"b":{"c":1}}}`), opt); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestParse_EmptyAndTrailing(t *testing.T) {
	if _, err := jsonsrc.Parse([]byte("  "), ioschema.ParseOpt{}); !errors.Is(err, jsonsrc.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := jsonsrc.Parse([]byte(`1 2`), ioschema.ParseOpt{}); err == nil {
		t.Fatalf("expected trailing data error")
	}
}

func TestParse_Truncated(t *testing.T) {
	if _, err := jsonsrc.Parse([]byte(`{"a": [1, 2`), ioschema.ParseOpt{}); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}

func TestParseRecords(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"array", `[{"a":1},{"a":2},{"a":3}]`, 3},
		{"lines", "{\"a\":1}\n{\"a\":2}\n", 2},
		{"single", `{"a":1}`, 1},
		{"empty", ``, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := jsonsrc.ParseRecords([]byte(tc.in), ioschema.DefaultParseOpt())
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if len(nodes) != tc.want {
				t.Fatalf("expected %d records, got %d", tc.want, len(nodes))
			}
		})
	}
}
