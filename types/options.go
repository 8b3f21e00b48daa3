package types

import "github.com/reoring/ioschema"

// opt declares one optional descriptor option.
func opt(name, typ string) *ioschema.MemberDef {
	return &ioschema.MemberDef{Name: name, Type: typ, Optional: true}
}

// lenOpt declares a non-negative integer option.
func lenOpt(name string) *ioschema.MemberDef {
	d := opt(name, "int")
	d.Min = 0
	return d
}

// optionSchema builds the self-describing schema of a type: the common
// options first (so {number, min: 1} maps "number" onto type), then extra.
func optionSchema(name string, extra ...*ioschema.MemberDef) *ioschema.Schema {
	s := ioschema.NewSchema(name)
	s.Add(
		opt("type", "string"),
		opt("default", "any"),
		opt("choices", "array"),
		opt("optional", "bool"),
		opt("null", "bool"),
		opt("path", "string"),
	)
	s.Add(extra...)
	return s
}

var (
	anyOptions = optionSchema("any", opt("anyOf", "array"))

	boolOptions = optionSchema("bool")

	stringOptions = optionSchema("string",
		lenOpt("len"), lenOpt("minLen"), lenOpt("maxLen"), opt("pattern", "string"))

	numberOptions = optionSchema("number",
		opt("min", "any"), opt("max", "any"), opt("multipleOf", "any"))

	decimalOptions = optionSchema("decimal",
		opt("min", "any"), opt("max", "any"), opt("multipleOf", "any"),
		lenOpt("precision"), lenOpt("scale"))

	dateTimeOptions = optionSchema("datetime", opt("min", "any"), opt("max", "any"))

	arrayOptions = optionSchema("array",
		opt("of", "any"), lenOpt("len"), lenOpt("minLen"), lenOpt("maxLen"))

	objectOptions = optionSchema("object", schemaOpt())
)

func schemaOpt() *ioschema.MemberDef {
	d := opt("schema", "object")
	d.IsSchema = true
	return d
}
