package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/source"
	yamlsrc "github.com/reoring/ioschema/source/yaml"
)

// ErrInvalid is returned when at least one record failed validation.
var ErrInvalid = errors.New("invalid records")

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: need a schema file and at least one data file", cli.ErrUsage)
	}
	popt, err := cfg.parseOpt()
	if err != nil {
		return err
	}
	cfg.setupColor(cc.Out)
	cat := cfg.catalog()
	sf, err := yamlsrc.LoadSchemaFile(args[0], cat)
	if err != nil {
		return fmt.Errorf("schema %s: %w", args[0], err)
	}

	rep := newReporter(cc.Out)
	popt.OnWarning = func(it ioschema.Issue) { rep.warn(it) }
	failed := 0
	for _, file := range args[1:] {
		rep.file = file
		nodes, err := source.ReadRecords(file, popt)
		if err != nil {
			if iss, ok := ioschema.AsIssues(err); ok {
				rep.issues(-1, iss)
				failed++
				continue
			}
			return err
		}
		res, err := cat.ParseCollection(context.Background(), nodes, sf.Schema, sf.Defs, cfg.collectionOpt())
		if err != nil {
			var re *ioschema.RecordError
			if !errors.As(err, &re) {
				return err
			}
			rep.record(re)
			failed++
			continue
		}
		for _, re := range res.Errors {
			rep.record(re)
		}
		failed += len(res.Errors)
		if !cfg.Quiet {
			rep.ok(len(nodes) - len(res.Errors))
		}
		cfg.logger().Debug("checked file", zap.String("file", file), zap.Int("records", len(nodes)), zap.Int("failed", len(res.Errors)))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d", ErrInvalid, failed)
	}
	return nil
}

type reporter struct {
	w    io.Writer
	file string

	bad     func(a ...any) string
	caution func(a ...any) string
	good    func(a ...any) string
	dim     func(a ...any) string
}

func newReporter(w io.Writer) *reporter {
	return &reporter{
		w:       w,
		bad:     color.New(color.FgRed, color.Bold).SprintFunc(),
		caution: color.New(color.FgYellow).SprintFunc(),
		good:    color.New(color.FgGreen).SprintFunc(),
		dim:     color.New(color.Faint).SprintFunc(),
	}
}

func (r *reporter) record(re *ioschema.RecordError) {
	iss := re.Issues()
	if len(iss) == 0 {
		fmt.Fprintf(r.w, "%s: record %d: %s\n", r.file, re.Index, r.bad(re.Err.Error()))
		return
	}
	r.issues(re.Index, iss)
}

func (r *reporter) issues(index int, iss ioschema.Issues) {
	for _, it := range iss {
		loc := r.file
		if it.Pos.IsValid() {
			loc = fmt.Sprintf("%s:%s", r.file, it.Pos)
		}
		rec := ""
		if index >= 0 {
			rec = fmt.Sprintf("record %d: ", index)
		}
		fmt.Fprintf(r.w, "%s: %s%s %s\n", loc, rec, r.bad(it.Message), r.dim("["+it.Code+"]"))
	}
}

func (r *reporter) warn(it ioschema.Issue) {
	loc := r.file
	if it.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%s", r.file, it.Pos)
	}
	fmt.Fprintf(r.w, "%s: %s %s\n", loc, r.caution(it.Message), r.dim("["+it.Code+"]"))
}

func (r *reporter) ok(n int) {
	fmt.Fprintf(r.w, "%s: %s\n", r.file, r.good(fmt.Sprintf("%d records ok", n)))
}
