package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
)

func listTypes(cfg *TypesConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Types.Parse(cc, args); err != nil {
		return err
	}
	cat := cfg.catalog()
	for _, name := range cat.Names() {
		if !cfg.Options {
			fmt.Fprintln(cc.Out, name)
			continue
		}
		h := cat.MustLookup(name)
		var opts []string
		if s := h.Schema(); s != nil {
			opts = s.Names
		}
		fmt.Fprintf(cc.Out, "%-10s %s\n", name, strings.Join(opts, " "))
	}
	return nil
}
