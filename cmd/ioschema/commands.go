package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "ioschema").
		WithSynopsis("ioschema [opts] command [opts]").
		WithDescription("ioschema validates data files against schema files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ioschemaMain(cfg, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			StringifyCommand(cfg),
			TypesCommand(cfg))
}

func ioschemaMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer cfg.sync()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithOpts(opts...).
		WithSynopsis("check [-strict] [-workers n] [-dup mode] schema data...").
		WithDescription("check validates every record of the data files against a schema file").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func StringifyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StringifyConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Stringify, "stringify").
		WithAliases("s").
		WithSynopsis("stringify schema data...").
		WithDescription("stringify prints each record of the data files in compact notation").
		WithRun(func(cc *cli.Context, args []string) error {
			return stringify(cfg, cc, args)
		})
}

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Types, "types").
		WithAliases("t").
		WithOpts(opts...).
		WithSynopsis("types [-options]").
		WithDescription("types lists the registered type names").
		WithRun(func(cc *cli.Context, args []string) error {
			return listTypes(cfg, cc, args)
		})
}
