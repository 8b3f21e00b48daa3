package ioschema

// TypeHandler is implemented by every data type. One instance serves one or
// more type names and is shared by all validations, so implementations must
// be safe for concurrent use.
type TypeHandler interface {
	// Name is the primary type name the handler registers under.
	Name() string
	// Schema describes the options a descriptor of this type may carry
	// (min, max, len, ...). The compiler validates descriptor options
	// against it. nil means no options beyond the common ones.
	Schema() *Schema
	// Parse validates a syntax node (nil when the field is absent) against
	// m and returns the native value.
	Parse(node Node, m *MemberDef, defs *Definitions) (any, error)
}

// Loader is implemented by handlers that validate native host values.
type Loader interface {
	Load(v any, m *MemberDef, defs *Definitions) (any, error)
}

// Stringifier is implemented by handlers that render values as notation
// text. ok=false signals that the field is omitted, which the object
// handler relies on for positional output.
type Stringifier interface {
	Stringify(v any, m *MemberDef, defs *Definitions) (text string, ok bool, err error)
}

// SchemaCompiler turns a schema definition written in notation (an
// ObjectNode such as {name, age?: number}) into a *Schema. The object
// handler uses it for fields flagged IsSchema.
type SchemaCompiler interface {
	Compile(node Node, defs *Definitions) (*Schema, error)
}

// commonOptions lists the options every descriptor may carry.
var commonOptions = []string{"type", "optional", "null", "default", "choices", "path"}

// CommonOptions returns the options shared by all types.
func CommonOptions() []string { return append([]string(nil), commonOptions...) }
