package yaml

import (
	"os"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/compile"
)

// SchemaFile is a compiled schema document:
//
//	definitions:
//	  $address: {street, city, "zip?"}
//	  maxAge: 130
//	schema:
//	  name: string
//	  age: {int, min: 0, max: "@maxAge"}
//	  home?: $address
//
// A document without a schema key is itself the schema, less any
// definitions entry.
type SchemaFile struct {
	Schema *ioschema.Schema
	Defs   *ioschema.Definitions
}

// LoadSchema compiles a schema document with the types registered in cat.
func LoadSchema(data []byte, cat *ioschema.Catalog) (*SchemaFile, error) {
	node, err := Parse(data, ioschema.DefaultParseOpt())
	if err != nil {
		return nil, err
	}
	obj, ok := node.(*ioschema.ObjectNode)
	if !ok {
		return nil, ioschema.Issues{ioschema.NewIssue(ioschema.CodeInvalidObject, &ioschema.MemberDef{}, node, nil)}
	}
	c := compile.New(cat)
	defs := ioschema.NewDefinitions()
	if mem, ok := obj.Member("definitions"); ok {
		if defs, err = c.Definitions(mem.Value); err != nil {
			return nil, err
		}
	}
	var body ioschema.Node
	if mem, ok := obj.Member("schema"); ok {
		body = mem.Value
	} else {
		rest := &ioschema.ObjectNode{P: obj.P}
		for _, mem := range obj.Members {
			if mem != nil && !(mem.HasKey && mem.Key == "definitions") {
				rest.Members = append(rest.Members, mem)
			}
		}
		body = rest
	}
	s, err := c.Compile(body, defs)
	if err != nil {
		return nil, err
	}
	return &SchemaFile{Schema: s, Defs: defs}, nil
}

// LoadSchemaFile reads and compiles the schema document at path.
func LoadSchemaFile(path string, cat *ioschema.Catalog) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadSchema(data, cat)
}
