package ioschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/ioschema/i18n"
)

// Issue codes. Other components match on these exact strings.
const (
	CodeValueRequired   = "value-required"
	CodeNullNotAllowed  = "null-not-allowed"
	CodeInvalidChoice   = "invalid-choice"
	CodeInvalidType     = "invalid-type"
	CodeNotABool        = "not-a-bool"
	CodeNotAnArray      = "not-an-array"
	CodeInvalidObject   = "invalid-object"
	CodeNotANumber      = "not-a-number"
	CodeNotAnInteger    = "not-an-integer"
	CodeNotAString      = "not-a-string"
	CodeInvalidLength   = "invalid-length"
	CodeInvalidMinLen   = "invalid-min-length"
	CodeInvalidMaxLen   = "invalid-max-length"
	CodeOutOfRange      = "out-of-range"
	CodeInvalidRange    = "invalid-range"
	CodeInvalidScale    = "invalid-scale"
	CodeInvalidPrec     = "invalid-precision"
	CodeInvalidValue    = "invalid-value"
	CodeInvalidPattern  = "invalid-pattern"
	CodeNotMultipleOf   = "not-multiple-of"
	CodeUnknownMember   = "unknown-member"
	CodeSchemaNotFound  = "schema-not-found"
	CodeDivisionByZero  = "division-by-zero"
	CodeInvalidDateTime = "invalid-datetime"
)

// Issue represents a single validation failure.
type Issue struct {
	Path    string // dotted field path, e.g. address.city or tags[2]
	Code    string // one of the codes listed above
	Message string
	Hint    string // optional remediation hint
	Cause   error  // optional underlying error (e.g. *decimal.Error)
	// Node is the originating syntax node when the failure came from a parse
	// call; nil for loads of native values.
	Node Node
	// Pos is Node's position, copied so diagnostics survive without the tree.
	Pos Pos
	// Params carries structured parameters (e.g. {"min":1, "got":42}) for
	// i18n and observability.
	Params map[string]any
}

func (it Issue) Error() string {
	if it.Message != "" {
		return it.Code + ": " + it.Message
	}
	return it.Code + " at " + displayPath(it.Path)
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. out-of-range at age
		fmt.Fprintf(b, "%s at %s", it.Code, displayPath(it.Path))
		if it.Pos.Line > 0 {
			fmt.Fprintf(b, " (%s)", it.Pos)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Codes lists the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally. A lone
// Issue is returned as a one-element slice.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var it Issue
	if errors.As(err, &it) {
		return Issues{it}, true
	}
	return nil, false
}

// MergeIssues appends the issues carried by err to dst. Errors that are not
// issues are returned unchanged as the second result.
func MergeIssues(dst Issues, err error) (Issues, error) {
	if err == nil {
		return dst, nil
	}
	if iss, ok := AsIssues(err); ok {
		return AppendIssues(dst, iss...), nil
	}
	return dst, err
}

// NewIssue builds an issue for the field described by m, localizing the
// message through the i18n catalog. data supplies message placeholders; the
// field path is always included.
func NewIssue(code string, m *MemberDef, node Node, data map[string]string) Issue {
	path := ""
	if m != nil {
		path = m.Path
	}
	return newIssueAt(code, path, node, data)
}

func newIssueAt(code, path string, node Node, data map[string]string) Issue {
	msgData := make(map[string]string, len(data)+1)
	for k, v := range data {
		msgData[k] = v
	}
	msgData["path"] = displayPath(path)
	it := Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, msgData),
		Node:    node,
	}
	if node != nil {
		it.Pos = node.Position()
	}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

// Fail is NewIssue returned as an error.
func Fail(code string, m *MemberDef, node Node, data map[string]string) error {
	return Issues{NewIssue(code, m, node, data)}
}

// FailCause is Fail with an underlying cause attached.
func FailCause(code string, m *MemberDef, node Node, cause error, data map[string]string) error {
	it := NewIssue(code, m, node, data)
	it.Cause = cause
	return Issues{it}
}

func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}

// TypeNotRegisteredError reports a lookup of a type name with no handler. It
// is a configuration error, never a validation issue.
type TypeNotRegisteredError struct {
	Name string
}

func (e *TypeNotRegisteredError) Error() string {
	return fmt.Sprintf("ioschema: type %q is not registered", e.Name)
}

// Sentinel errors for definition lookups.
var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrReferenceCycle = errors.New("reference cycle")
)
