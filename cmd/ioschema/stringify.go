package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/source"
	yamlsrc "github.com/reoring/ioschema/source/yaml"
)

func stringify(cfg *StringifyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stringify.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: need a schema file and at least one data file", cli.ErrUsage)
	}
	cat := cfg.catalog()
	sf, err := yamlsrc.LoadSchemaFile(args[0], cat)
	if err != nil {
		return fmt.Errorf("schema %s: %w", args[0], err)
	}
	for _, file := range args[1:] {
		nodes, err := source.ReadRecords(file, ioschema.DefaultParseOpt())
		if err != nil {
			return err
		}
		for i, n := range nodes {
			rec, err := cat.Parse(n, sf.Schema, sf.Defs)
			if err != nil {
				return fmt.Errorf("%s: record %d: %w", file, i, err)
			}
			text, err := cat.Stringify(rec, sf.Schema, sf.Defs)
			if err != nil {
				return fmt.Errorf("%s: record %d: %w", file, i, err)
			}
			fmt.Fprintln(cc.Out, text)
		}
	}
	return nil
}
