package types_test

import (
	"testing"
	"time"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/types"
)

func TestString_Constraints(t *testing.T) {
	cat := types.NewCatalog()
	cases := []struct {
		name string
		m    *ioschema.MemberDef
		in   any
		code string
	}{
		{name: "plain", m: &ioschema.MemberDef{Type: "string"}, in: "héllo"},
		{name: "not a string", m: &ioschema.MemberDef{Type: "string"}, in: 3.0, code: ioschema.CodeNotAString},
		{name: "len counts runes", m: &ioschema.MemberDef{Type: "string", Len: ioschema.IntPtr(5)}, in: "héllo"},
		{name: "len", m: &ioschema.MemberDef{Type: "string", Len: ioschema.IntPtr(2)}, in: "abc", code: ioschema.CodeInvalidLength},
		{name: "len before minLen", m: &ioschema.MemberDef{Type: "string", Len: ioschema.IntPtr(2), MinLen: ioschema.IntPtr(5)}, in: "abc", code: ioschema.CodeInvalidLength},
		{name: "minLen", m: &ioschema.MemberDef{Type: "string", MinLen: ioschema.IntPtr(4)}, in: "abc", code: ioschema.CodeInvalidMinLen},
		{name: "maxLen", m: &ioschema.MemberDef{Type: "string", MaxLen: ioschema.IntPtr(2)}, in: "abc", code: ioschema.CodeInvalidMaxLen},
		{name: "pattern", m: &ioschema.MemberDef{Type: "string", Pattern: `^[a-z]+$`}, in: "abc"},
		{name: "pattern mismatch", m: &ioschema.MemberDef{Type: "string", Pattern: `^[a-z]+$`}, in: "ab1", code: ioschema.CodeInvalidPattern},
		{name: "bad pattern", m: &ioschema.MemberDef{Type: "string", Pattern: `(`}, in: "ab", code: ioschema.CodeInvalidPattern},
		{name: "email", m: &ioschema.MemberDef{Type: "email"}, in: "joey@example.com"},
		{name: "email with name", m: &ioschema.MemberDef{Type: "email"}, in: "Joey <joey@example.com>", code: ioschema.CodeInvalidValue},
		{name: "not an email", m: &ioschema.MemberDef{Type: "email"}, in: "joey", code: ioschema.CodeInvalidValue},
		{name: "url", m: &ioschema.MemberDef{Type: "url"}, in: "https://example.com/a?b=c"},
		{name: "relative url", m: &ioschema.MemberDef{Type: "url"}, in: "/a/b", code: ioschema.CodeInvalidValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.m.Name, tc.m.Path = "s", "s"
			v, err := cat.LoadMember(tc.in, tc.m, nil)
			if tc.code != "" {
				if got := codeOf(t, err); got != tc.code {
					t.Fatalf("expected %s, got %s", tc.code, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if v != tc.in {
				t.Fatalf("got %v", v)
			}
		})
	}
}

func TestString_PositionFromNode(t *testing.T) {
	cat := types.NewCatalog()
	tok := &ioschema.TokenNode{Value: 1.0, Type: ioschema.TokenNumber, Raw: "1", P: ioschema.Pos{Line: 3, Col: 9}}
	_, err := cat.ParseMember(tok, &ioschema.MemberDef{Name: "s", Path: "s", Type: "string"}, nil)
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Pos.String() != "3:9" || iss[0].Node != tok {
		t.Fatalf("expected issue at 3:9, got %v", err)
	}
}

func TestBool(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "b", Path: "b", Type: "bool"}
	if v, err := cat.ParseMember(ioschema.Token(true), m, nil); err != nil || v != true {
		t.Fatalf("got %v, %v", v, err)
	}
	if _, err := cat.ParseMember(ioschema.Token("true"), m, nil); codeOf(t, err) != ioschema.CodeNotABool {
		t.Fatalf("expected not-a-bool, got %v", err)
	}
	text, _, err := cat.StringifyMember(false, m, nil)
	if err != nil || text != "F" {
		t.Fatalf("got %q, %v", text, err)
	}
}

func TestDateTime(t *testing.T) {
	cat := types.NewCatalog()
	date := &ioschema.MemberDef{Name: "d", Path: "d", Type: "date", Min: "2000-01-01"}

	v, err := cat.ParseMember(ioschema.Token("2024-05-01"), date, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC); !v.(time.Time).Equal(want) {
		t.Fatalf("got %v", v)
	}

	_, err = cat.ParseMember(ioschema.Token("1999-12-31"), date, nil)
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != ioschema.CodeOutOfRange || iss[0].Message != "d must be >= 2000-01-01" {
		t.Fatalf("expected out-of-range, got %v", err)
	}

	if _, err := cat.ParseMember(ioschema.Token("yesterday"), date, nil); codeOf(t, err) != ioschema.CodeInvalidDateTime {
		t.Fatalf("expected invalid-datetime, got %v", err)
	}
}

func TestDateTime_TimeOnly(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "t", Path: "t", Type: "time", Max: "18:00"}

	v, err := cat.LoadMember(time.Date(2024, time.May, 1, 9, 15, 0, 0, time.UTC), m, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if y, _, _ := v.(time.Time).Date(); y != 1900 {
		t.Fatalf("time values live on the sentinel date, got %v", v)
	}
	if _, err := cat.LoadMember("19:30", m, nil); codeOf(t, err) != ioschema.CodeOutOfRange {
		t.Fatalf("expected out-of-range, got %v", err)
	}
	text, _, err := cat.StringifyMember("09:15:30", m, nil)
	if err != nil || text != "t'09:15:30'" {
		t.Fatalf("got %q, %v", text, err)
	}
}
