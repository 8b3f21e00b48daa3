package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data carries the placeholders embedded in the message (for example "path",
// "min" or "choices"); every built-in message includes {path}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"value-required":     "{path} is required",
		"null-not-allowed":   "{path} must not be null",
		"invalid-choice":     "{path} must be {choices}",
		"invalid-type":       "{path} has an invalid type, expected {expected}",
		"not-a-bool":         "{path} must be a boolean",
		"not-an-array":       "{path} must be an array",
		"invalid-object":     "{path} must be an object",
		"not-a-number":       "{path} must be a number",
		"not-an-integer":     "{path} must be an integer",
		"not-a-string":       "{path} must be a string",
		"invalid-length":     "{path} must have length {len}",
		"invalid-min-length": "{path} must have length >= {min}",
		"invalid-max-length": "{path} must have length <= {max}",
		"out-of-range":       "{path} must be {bound}",
		"invalid-range":      "{path} has an invalid range",
		"invalid-scale":      "{path} must have scale {scale}",
		"invalid-precision":  "{path} exceeds precision {precision}",
		"invalid-value":      "{path} is invalid: {reason}",
		"invalid-pattern":    "{path} must match {pattern}",
		"not-multiple-of":    "{path} must be a multiple of {multipleOf}",
		"unknown-member":     "{path} is not a member of the schema",
		"schema-not-found":   "{path} refers to an undefined schema {schema}",
		"division-by-zero":   "{path} divides by zero",
		"invalid-datetime":   "{path} must be a valid {expected}",
	},
	"ja": {
		"value-required":     "{path} は必須です",
		"null-not-allowed":   "{path} に null は指定できません",
		"invalid-choice":     "{path} は {choices} のいずれかである必要があります",
		"invalid-type":       "{path} の型が不正です（期待: {expected}）",
		"not-a-bool":         "{path} は真偽値である必要があります",
		"not-an-array":       "{path} は配列である必要があります",
		"invalid-object":     "{path} はオブジェクトである必要があります",
		"not-a-number":       "{path} は数値である必要があります",
		"not-an-integer":     "{path} は整数である必要があります",
		"not-a-string":       "{path} は文字列である必要があります",
		"invalid-length":     "{path} の長さは {len} である必要があります",
		"invalid-min-length": "{path} の長さは {min} 以上である必要があります",
		"invalid-max-length": "{path} の長さは {max} 以下である必要があります",
		"out-of-range":       "{path} は {bound} である必要があります",
		"invalid-range":      "{path} の範囲指定が不正です",
		"invalid-scale":      "{path} の小数桁数は {scale} である必要があります",
		"invalid-precision":  "{path} は精度 {precision} を超えています",
		"invalid-value":      "{path} の値が不正です: {reason}",
		"invalid-pattern":    "{path} は {pattern} に一致する必要があります",
		"not-multiple-of":    "{path} は {multipleOf} の倍数である必要があります",
		"unknown-member":     "{path} はスキーマに存在しないメンバーです",
		"schema-not-found":   "{path} が参照するスキーマ {schema} は未定義です",
		"division-by-zero":   "{path} でゼロ除算が発生しました",
		"invalid-datetime":   "{path} は有効な {expected} である必要があります",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dict[t.lang][code]
	if !ok {
		tmpl, ok = dict["en"][code]
	}
	if !ok {
		if p := data["path"]; p != "" {
			return code + " at " + p
		}
		return code
	}
	return expand(tmpl, data)
}

// expand replaces {key} placeholders; unknown keys are left as-is.
func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	lock              sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	lock.Lock()
	currentTranslator = dictTranslator{lang: lang}
	lock.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	lock.Lock()
	currentTranslator = tr
	lock.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	lock.RLock()
	tr := currentTranslator
	lock.RUnlock()
	return tr.Message(code, data)
}
