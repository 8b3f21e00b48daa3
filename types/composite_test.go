package types_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/decimal"
	"github.com/reoring/ioschema/types"
)

func arrayOf(children ...ioschema.Node) *ioschema.ArrayNode {
	return &ioschema.ArrayNode{Children: children}
}

func keyed(kv ...any) *ioschema.ObjectNode {
	obj := &ioschema.ObjectNode{}
	for i := 0; i < len(kv); i += 2 {
		obj.Members = append(obj.Members, &ioschema.MemberNode{Key: kv[i].(string), HasKey: true, Value: kv[i+1].(ioschema.Node)})
	}
	return obj
}

func positional(values ...ioschema.Node) *ioschema.ObjectNode {
	obj := &ioschema.ObjectNode{}
	for _, v := range values {
		obj.Members = append(obj.Members, &ioschema.MemberNode{Value: v})
	}
	return obj
}

func TestArray_ElementPath(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "field", Path: "field", Type: "array",
		Of: &ioschema.MemberDef{Type: "number", Min: 0.0}}

	_, err := cat.ParseMember(arrayOf(num("1"), num("-2"), num("3")), m, nil)
	iss, ok := ioschema.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Code != ioschema.CodeOutOfRange || iss[0].Path != "field[1]" {
		t.Fatalf("expected out-of-range at field[1], got %s at %s", iss[0].Code, iss[0].Path)
	}

	v, err := cat.ParseMember(arrayOf(num("1"), num("2")), m, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]any{1.0, 2.0}, v); diff != "" {
		t.Fatalf("elements (-want +got):\n%s", diff)
	}
}

func TestArray_LengthAfterItems(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "xs", Path: "xs", Type: "array",
		Of: &ioschema.MemberDef{Type: "number", Min: 0.0}, MinLen: ioschema.IntPtr(3)}

	_, err := cat.LoadMember([]any{1.0, -2.0}, m, nil)
	if got := codeOf(t, err); got != ioschema.CodeOutOfRange {
		t.Fatalf("element failures come first, got %s", got)
	}
	_, err = cat.LoadMember([]any{1.0, 2.0}, m, nil)
	if got := codeOf(t, err); got != ioschema.CodeInvalidMinLen {
		t.Fatalf("expected invalid-min-length, got %s", got)
	}

	m.MinLen, m.Len = nil, ioschema.IntPtr(1)
	_, err = cat.LoadMember([]any{1.0, 2.0}, m, nil)
	if got := codeOf(t, err); got != ioschema.CodeInvalidLength {
		t.Fatalf("expected invalid-length, got %s", got)
	}
	if _, err := cat.LoadMember("nope", m, nil); codeOf(t, err) != ioschema.CodeNotAnArray {
		t.Fatalf("expected not-an-array, got %v", err)
	}
}

func TestArray_EmptySlotsAreAbsent(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "xs", Path: "xs", Type: "array",
		Of: &ioschema.MemberDef{Type: "number", Optional: true}}
	v, err := cat.ParseMember(arrayOf(num("1"), nil, num("3")), m, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]any{1.0, nil, 3.0}, v); diff != "" {
		t.Fatalf("elements (-want +got):\n%s", diff)
	}

	m.Of.Optional = false
	_, err = cat.ParseMember(arrayOf(num("1"), nil), m, nil)
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != ioschema.CodeValueRequired || iss[0].Path != "xs[1]" {
		t.Fatalf("expected value-required at xs[1], got %v", err)
	}
}

func personSchema() *ioschema.Schema {
	return ioschema.NewSchema("person").Add(
		&ioschema.MemberDef{Name: "name", Type: "string"},
		&ioschema.MemberDef{Name: "age", Type: "number"},
		&ioschema.MemberDef{Name: "nick", Type: "string", Optional: true},
	)
}

func TestObject_KeyedAndPositional(t *testing.T) {
	cat := types.NewCatalog()
	for name, node := range map[string]*ioschema.ObjectNode{
		"keyed":      keyed("age", num("30"), "name", ioschema.Token("Joey")),
		"positional": positional(ioschema.Token("Joey"), num("30")),
	} {
		t.Run(name, func(t *testing.T) {
			rec, err := cat.Parse(node, personSchema(), nil)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if diff := cmp.Diff([]string{"name", "age"}, rec.Keys()); diff != "" {
				t.Fatalf("keys (-want +got):\n%s", diff)
			}
			if n, _ := rec.Get("name"); n != "Joey" {
				t.Fatalf("got name %v", n)
			}
		})
	}
}

func TestObject_CollectsIssues(t *testing.T) {
	cat := types.NewCatalog()
	node := keyed("name", num("1"), "age", ioschema.Token("old"), "extra", ioschema.Token(true))
	_, err := cat.Parse(node, personSchema(), nil)
	iss, ok := ioschema.AsIssues(err)
	if !ok {
		t.Fatalf("expected issues, got %v", err)
	}
	want := []string{ioschema.CodeNotAString, ioschema.CodeNotANumber, ioschema.CodeUnknownMember}
	if diff := cmp.Diff(want, iss.Codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	if iss[2].Path != "extra" {
		t.Fatalf("expected unknown member at extra, got %q", iss[2].Path)
	}
}

func TestObject_DuplicateMember(t *testing.T) {
	cat := types.NewCatalog()
	node := keyed("name", ioschema.Token("Joey"), "age", num("30"), "age", num("31"))
	_, err := cat.Parse(node, personSchema(), nil)
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != ioschema.CodeInvalidValue || iss[0].Path != "age" {
		t.Fatalf("expected invalid-value at age, got %v", err)
	}
	if iss[0].Params["reason"] != "duplicate member" {
		t.Fatalf("unexpected params %v", iss[0].Params)
	}
}

func TestObject_OpenSchemaWildcard(t *testing.T) {
	cat := types.NewCatalog()
	s := personSchema()
	s.Open = true
	s.Wildcard = &ioschema.MemberDef{Type: "number"}

	rec, err := cat.Load(map[string]any{"name": "Joey", "age": 30.0, "score": 9.5}, s, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v, _ := rec.Get("score"); v != 9.5 {
		t.Fatalf("got score %v", v)
	}
	_, err = cat.Load(map[string]any{"name": "Joey", "age": 30.0, "score": "high"}, s, nil)
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != ioschema.CodeNotANumber || iss[0].Path != "score" {
		t.Fatalf("expected not-a-number at score, got %v", err)
	}
}

func TestObject_NestedReference(t *testing.T) {
	cat := types.NewCatalog()
	addr := ioschema.NewSchema("address").Add(&ioschema.MemberDef{Name: "city", Type: "string", MinLen: ioschema.IntPtr(2)})
	defs := ioschema.NewDefinitions().Set("$address", addr)
	s := ioschema.NewSchema("person").Add(&ioschema.MemberDef{Name: "home", SchemaRef: "$address"})

	_, err := cat.Parse(keyed("home", keyed("city", ioschema.Token("X"))), s, defs)
	iss, _ := ioschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "home.city" || iss[0].Code != ioschema.CodeInvalidMinLen {
		t.Fatalf("expected invalid-min-length at home.city, got %v", err)
	}

	_, err = cat.Parse(keyed("home", keyed("city", ioschema.Token("Rome"))), s, ioschema.NewDefinitions())
	if got := codeOf(t, err); got != ioschema.CodeSchemaNotFound {
		t.Fatalf("expected schema-not-found, got %s", got)
	}
}

func TestObject_LoadUnknownKeysSorted(t *testing.T) {
	cat := types.NewCatalog()
	_, err := cat.Load(map[string]any{"name": "Joey", "age": 30.0, "b": 1, "a": 2}, personSchema(), nil)
	iss, _ := ioschema.AsIssues(err)
	var paths []string
	for _, it := range iss {
		paths = append(paths, it.Path)
	}
	if diff := cmp.Diff([]string{"a", "b"}, paths); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
}

func TestAny_AnyOf(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "v", Path: "v", Type: "any", AnyOf: []*ioschema.MemberDef{
		{Type: "number"},
		{Type: "string", MinLen: ioschema.IntPtr(2)},
	}}

	if v, err := cat.ParseMember(num("3"), m, nil); err != nil || v != 3.0 {
		t.Fatalf("expected 3, got %v, %v", v, err)
	}
	if v, err := cat.ParseMember(ioschema.Token("ab"), m, nil); err != nil || v != "ab" {
		t.Fatalf("expected ab, got %v, %v", v, err)
	}
	for _, node := range []ioschema.Node{ioschema.Token("a"), ioschema.Token(true)} {
		_, err := cat.ParseMember(node, m, nil)
		iss, _ := ioschema.AsIssues(err)
		if len(iss) != 1 || iss[0].Code != ioschema.CodeInvalidValue || iss[0].Path != "v" {
			t.Fatalf("expected invalid-value at v, got %v", err)
		}
		if iss[0].Message != "v is invalid: none of the constraints matched" {
			t.Fatalf("unexpected message %q", iss[0].Message)
		}
	}

	// a configuration error in an alternative is not swallowed
	m.AnyOf = []*ioschema.MemberDef{{Type: "missing"}}
	_, err := cat.ParseMember(num("3"), m, nil)
	if _, ok := ioschema.AsIssues(err); ok || err == nil {
		t.Fatalf("expected a plain error, got %v", err)
	}
}

func TestAny_AcceptsAnything(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "v", Path: "v"}
	v, err := cat.ParseMember(keyed("k", ioschema.Token("x")), m, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !v.(*ioschema.Map).Equal(ioschema.MapOf("k", "x")) {
		t.Fatalf("got %v", v)
	}
}

func TestStringify_Positional(t *testing.T) {
	cat := types.NewCatalog()
	s := ioschema.NewSchema("row").Add(
		&ioschema.MemberDef{Name: "a", Type: "number"},
		&ioschema.MemberDef{Name: "b", Type: "number", Optional: true},
		&ioschema.MemberDef{Name: "c", Type: "string", Optional: true},
		&ioschema.MemberDef{Name: "d", Type: "bool", Optional: true},
	)
	cases := []struct {
		in   any
		want string
	}{
		{in: ioschema.MapOf("a", 1.0, "c", "x"), want: `{1, , "x"}`},
		{in: ioschema.MapOf("a", 1.0), want: `{1}`},
		{in: ioschema.MapOf("a", 1.0, "b", 2.0, "c", "x", "d", false), want: `{1, 2, "x", F}`},
	}
	for _, tc := range cases {
		got, err := cat.Stringify(tc.in, s, nil)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if got != tc.want {
			t.Fatalf("got %s want %s", got, tc.want)
		}
	}

	if _, err := cat.Stringify(ioschema.MapOf("a", 1.0, "zz", 1.0), s, nil); codeOf(t, err) != ioschema.CodeUnknownMember {
		t.Fatalf("expected unknown-member, got %v", err)
	}
}

func TestStringify_Literals(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "v", Path: "v"}
	v := []any{nil, true, false, decimal.MustNew("1.50"), big.NewInt(123), "a\"b", 2.5}
	got, _, err := cat.StringifyMember(v, m, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := `[N, T, F, 1.50m, 123n, "a\"b", 2.5]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	got, _, err = cat.StringifyMember(ioschema.MapOf("plain", 1.0, "with space", 2.0), m, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := `{plain: 1, "with space": 2}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestStringify_InfersDateNotation(t *testing.T) {
	cat := types.NewCatalog()
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	got, _, err := cat.StringifyMember(day, &ioschema.MemberDef{Name: "v", Path: "v", Type: "any"}, nil)
	if err != nil || got != "d'2024-05-01'" {
		t.Fatalf("expected d'2024-05-01', got %s, %v", got, err)
	}
	got, _, err = cat.StringifyMember(day, &ioschema.MemberDef{Name: "v", Path: "v", Type: "datetime"}, nil)
	if err != nil || got != "dt'2024-05-01T00:00:00Z'" {
		t.Fatalf("expected a datetime notation, got %s, %v", got, err)
	}
	noon := time.Date(1900, time.January, 1, 12, 30, 0, 0, time.UTC)
	got, _, err = cat.StringifyMember(noon, &ioschema.MemberDef{Name: "v", Path: "v"}, nil)
	if err != nil || got != "t'12:30:00'" {
		t.Fatalf("expected t'12:30:00', got %s, %v", got, err)
	}

	tokyo := time.FixedZone("JST", 9*60*60)
	untyped := &ioschema.MemberDef{Name: "v", Path: "v", Type: "any"}
	got, _, err = cat.StringifyMember(time.Date(2024, time.May, 1, 9, 0, 0, 0, tokyo), untyped, nil)
	if err != nil || got != "d'2024-05-01'" {
		t.Fatalf("UTC midnight held in +09:00: got %s, %v", got, err)
	}
	got, _, err = cat.StringifyMember(time.Date(2024, time.May, 1, 0, 0, 0, 0, tokyo), untyped, nil)
	if err != nil || got != "dt'2024-04-30T15:00:00Z'" {
		t.Fatalf("local midnight in +09:00: got %s, %v", got, err)
	}
}

func TestStringify_OmitsAbsentOptional(t *testing.T) {
	cat := types.NewCatalog()
	m := &ioschema.MemberDef{Name: "v", Path: "v", Type: "number", Optional: true}
	text, ok, err := cat.StringifyMember(ioschema.Undefined, m, nil)
	if err != nil || ok || text != "" {
		t.Fatalf("expected omission, got %q, %v, %v", text, ok, err)
	}
}
