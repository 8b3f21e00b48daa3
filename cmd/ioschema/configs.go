package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/types"
)

type MainConfig struct {
	V       bool `cli:"name=v aliases=verbose desc='log catalog and collection events'"`
	Color   bool `cli:"name=color desc='colour issue output'"`
	NoColor bool `cli:"name=no-color desc='never colour issue output'"`

	Main *cli.Command

	log *zap.Logger
}

// logger returns the development logger under -v and a no-op one otherwise.
func (cfg *MainConfig) logger() *zap.Logger {
	if cfg.log != nil {
		return cfg.log
	}
	cfg.log = zap.NewNop()
	if cfg.V {
		if l, err := zap.NewDevelopment(); err == nil {
			cfg.log = l
		}
	}
	return cfg.log
}

func (cfg *MainConfig) sync() {
	if cfg.log != nil {
		_ = cfg.log.Sync()
	}
}

func (cfg *MainConfig) catalog() *ioschema.Catalog {
	return types.NewCatalog(ioschema.WithLogger(cfg.logger()))
}

// setupColor decides colouring for w: explicit flags win, otherwise colour
// is used on terminals only.
func (cfg *MainConfig) setupColor(w io.Writer) {
	switch {
	case cfg.NoColor:
		color.NoColor = true
	case cfg.Color:
		color.NoColor = false
	default:
		f, ok := w.(*os.File)
		color.NoColor = !ok || !isatty.IsTerminal(f.Fd())
	}
}

type CheckConfig struct {
	*MainConfig

	Strict  bool   `cli:"name=strict desc='stop at the first invalid record'"`
	Workers int    `cli:"name=workers desc='records validated concurrently'"`
	Dup     string `cli:"name=dup desc='duplicate keys: ignore, warn or error'"`
	Quiet   bool   `cli:"name=q desc='only print failures'"`

	Check *cli.Command
}

func (cfg *CheckConfig) parseOpt() (ioschema.ParseOpt, error) {
	opt := ioschema.DefaultParseOpt()
	switch strings.ToLower(cfg.Dup) {
	case "", "error":
	case "warn":
		opt.Strictness.OnDuplicateKey = ioschema.Warn
	case "ignore":
		opt.Strictness.OnDuplicateKey = ioschema.Ignore
	default:
		return opt, fmt.Errorf("%w: -dup must be ignore, warn or error", cli.ErrUsage)
	}
	return opt, nil
}

func (cfg *CheckConfig) collectionOpt() ioschema.CollectionOpt {
	opt := ioschema.CollectionOpt{Mode: ioschema.Permissive, Workers: cfg.Workers}
	if cfg.Strict {
		opt.Mode = ioschema.Strict
	}
	if opt.Workers <= 0 {
		opt.Workers = 4
	}
	return opt
}

type StringifyConfig struct {
	*MainConfig

	Stringify *cli.Command
}

type TypesConfig struct {
	*MainConfig

	Options bool `cli:"name=options desc='show the options each type accepts'"`

	Types *cli.Command
}
