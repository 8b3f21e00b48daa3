package ioschema_test

import (
	"strings"
	"testing"

	"github.com/reoring/ioschema"
)

func TestCheck_Absence(t *testing.T) {
	cases := []struct {
		name  string
		m     *ioschema.MemberDef
		want  any
		code  string
		final bool
	}{
		{name: "required", m: &ioschema.MemberDef{Name: "age", Path: "age"}, code: ioschema.CodeValueRequired},
		{name: "optional", m: &ioschema.MemberDef{Name: "age", Path: "age", Optional: true}, want: ioschema.Undefined, final: true},
		{name: "default", m: &ioschema.MemberDef{Name: "age", Path: "age", Default: 30.0}, want: 30.0, final: true},
		{name: "default T", m: &ioschema.MemberDef{Name: "ok", Path: "ok", Default: "T"}, want: true, final: true},
		{name: "default N", m: &ioschema.MemberDef{Name: "x", Path: "x", Default: "N"}, want: nil, final: true},
		{name: "default wins over optional", m: &ioschema.MemberDef{Name: "x", Path: "x", Optional: true, Default: "F"}, want: false, final: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ck, err := ioschema.Check(tc.m, ioschema.Undefined, nil, nil, nil)
			if tc.code != "" {
				iss, ok := ioschema.AsIssues(err)
				if !ok || iss[0].Code != tc.code {
					t.Fatalf("expected %s, got %v", tc.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if ck.Final != tc.final || !ioschema.Equal(ck.Value, tc.want) {
				t.Fatalf("got %+v", ck)
			}
		})
	}
}

func TestCheck_Null(t *testing.T) {
	m := &ioschema.MemberDef{Name: "nick", Path: "nick"}
	_, err := ioschema.Check(m, nil, nil, nil, nil)
	iss, ok := ioschema.AsIssues(err)
	if !ok || iss[0].Code != ioschema.CodeNullNotAllowed || iss[0].Path != "nick" {
		t.Fatalf("expected null-not-allowed at nick, got %v", err)
	}

	m.Null = true
	ck, err := ioschema.Check(m, nil, nil, nil, nil)
	if err != nil || !ck.Final || ck.Value != nil {
		t.Fatalf("expected final nil, got %+v, %v", ck, err)
	}
}

func TestCheck_Choices(t *testing.T) {
	m := &ioschema.MemberDef{Name: "size", Path: "size", Choices: []any{"S", "M", "L"}}
	if _, err := ioschema.Check(m, "M", nil, nil, nil); err != nil {
		t.Fatalf("err: %v", err)
	}
	_, err := ioschema.Check(m, "XL", nil, nil, nil)
	iss, ok := ioschema.AsIssues(err)
	if !ok || iss[0].Code != ioschema.CodeInvalidChoice {
		t.Fatalf("expected invalid-choice, got %v", err)
	}
	if !strings.Contains(iss[0].Message, `one of ["S", "M", "L"]`) {
		t.Fatalf("unexpected message %q", iss[0].Message)
	}

	// numbers match across Go kinds
	m = &ioschema.MemberDef{Name: "n", Path: "n", Choices: []any{1.0, 2.0}}
	if _, err := ioschema.Check(m, int64(2), nil, nil, nil); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestCheck_ChoicesFromVariables(t *testing.T) {
	defs := ioschema.NewDefinitions().Set("@small", "S").Set("@large", "L")
	m := &ioschema.MemberDef{Name: "size", Path: "size", Choices: []any{"@small", "@large"}}
	if _, err := ioschema.Check(m, "L", nil, defs, nil); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestCheck_CustomEquality(t *testing.T) {
	m := &ioschema.MemberDef{Name: "code", Path: "code", Choices: []any{"abc"}}
	fold := func(a, b any) bool {
		as, _ := a.(string)
		bs, _ := b.(string)
		return strings.EqualFold(as, bs)
	}
	if _, err := ioschema.Check(m, "ABC", nil, nil, fold); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestCheck_VariableValue(t *testing.T) {
	defs := ioschema.NewDefinitions().Set("@limit", 10.0).Set("@nothing", nil)
	m := &ioschema.MemberDef{Name: "n", Path: "n"}
	ck, err := ioschema.Check(m, "@limit", nil, defs, nil)
	if err != nil || ck.Value != 10.0 || ck.Final {
		t.Fatalf("expected dereferenced 10, got %+v, %v", ck, err)
	}
	_, err = ioschema.Check(m, "@nothing", nil, defs, nil)
	if iss, ok := ioschema.AsIssues(err); !ok || iss[0].Code != ioschema.CodeNullNotAllowed {
		t.Fatalf("expected null-not-allowed for a null variable, got %v", err)
	}
}

func TestCheckNode_Token(t *testing.T) {
	m := &ioschema.MemberDef{Name: "name", Path: "name"}
	tok := &ioschema.TokenNode{Value: "Phoebe", Type: ioschema.TokenString, P: ioschema.Pos{Line: 3, Col: 7}}
	ck, err := ioschema.CheckNode(m, tok, nil, nil)
	if err != nil || ck.Value != "Phoebe" || ck.Node != tok {
		t.Fatalf("got %+v, %v", ck, err)
	}

	_, err = ioschema.CheckNode(m, &ioschema.TokenNode{Type: ioschema.TokenNull, P: ioschema.Pos{Line: 4, Col: 1}}, nil, nil)
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Pos.Line != 4 {
		t.Fatalf("expected positioned issue, got %v", err)
	}

	_, err = ioschema.CheckNode(m, nil, nil, nil)
	if iss, ok := ioschema.AsIssues(err); !ok || iss[0].Code != ioschema.CodeValueRequired {
		t.Fatalf("expected value-required for an absent node, got %v", err)
	}
}
