package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	msg := T("out-of-range", map[string]string{"path": "age", "bound": ">= 30"})
	if msg != "age must be >= 30" {
		t.Fatalf("unexpected message %q", msg)
	}

	SetLanguage("ja")
	if msg := T("value-required", map[string]string{"path": "name"}); !strings.HasPrefix(msg, "name ") || msg == "name is required" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeKeepsPath(t *testing.T) {
	if msg := T("no-such-code", map[string]string{"path": "a.b"}); msg != "no-such-code at a.b" {
		t.Fatalf("got %q", msg)
	}
	if msg := T("no-such-code", nil); msg != "no-such-code" {
		t.Fatalf("got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, data map[string]string) string { return strings.ToUpper(code) }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("invalid-type", nil); msg != "INVALID-TYPE" {
		t.Fatalf("got %q", msg)
	}
}
