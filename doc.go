// Package ioschema provides:
//
// - Schema-driven validation of parsed data (Parse) and native values (Load)
// - Rendering of validated values back into notation text (Stringify)
// - A stable error model via Issues (dotted path, code, localized message, position)
// - A registry of type handlers (Catalog) that new types plug into
// - Concurrent validation of record collections (ParseCollection/LoadCollection)
//
// Design policy:
// - Keep the data model and the pipeline in the root package; handlers live in types/.
// - Place the decimal engine under decimal/, front-ends under source/, and the CLI under cmd/ioschema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	cat := types.Default()
//	sf, err := yaml.LoadSchemaFile("person.yaml", cat)
//	node, err := json.Parse(data, ioschema.DefaultParseOpt())
//	rec, err := cat.Parse(node, sf.Schema, sf.Defs)
//
//	text, err := cat.Stringify(rec, sf.Schema, sf.Defs)
package ioschema
