package ioschema

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CollectionMode selects how a collection reacts to an invalid record.
type CollectionMode int

const (
	// Strict stops at the first invalid record and returns its error. With
	// several workers, records already started still finish, so the error is
	// always the lowest-index invalid record.
	Strict CollectionMode = iota
	// Permissive records each invalid record's error and keeps going.
	Permissive
)

func (m CollectionMode) String() string {
	if m == Permissive {
		return "permissive"
	}
	return "strict"
}

// CollectionOpt configures ParseCollection and LoadCollection.
type CollectionOpt struct {
	Mode CollectionMode
	// Workers bounds concurrent record validations; <= 0 means one.
	Workers int
}

// RecordError ties a failure to the index of its record.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string { return fmt.Sprintf("record %d: %v", e.Index, e.Err) }
func (e *RecordError) Unwrap() error { return e.Err }

// Issues returns the validation issues of the record, if any.
func (e *RecordError) Issues() Issues {
	iss, _ := AsIssues(e.Err)
	return iss
}

// CollectionResult holds per-record outcomes in input order. Records[i] is nil
// when record i failed.
type CollectionResult struct {
	Records []*Map
	Errors  []*RecordError
}

// OK reports whether every record validated.
func (r *CollectionResult) OK() bool { return len(r.Errors) == 0 }

// ParseCollection validates record nodes against s. Records are independent:
// in Permissive mode an invalid record never affects its siblings.
func (c *Catalog) ParseCollection(ctx context.Context, nodes []Node, s *Schema, defs *Definitions, opt CollectionOpt) (*CollectionResult, error) {
	return c.runCollection(ctx, len(nodes), opt, func(i int) (*Map, error) {
		return c.Parse(nodes[i], s, defs)
	})
}

// LoadCollection validates native records against s.
func (c *Catalog) LoadCollection(ctx context.Context, values []any, s *Schema, defs *Definitions, opt CollectionOpt) (*CollectionResult, error) {
	return c.runCollection(ctx, len(values), opt, func(i int) (*Map, error) {
		return c.Load(values[i], s, defs)
	})
}

func (c *Catalog) runCollection(ctx context.Context, n int, opt CollectionOpt, one func(int) (*Map, error)) (*CollectionResult, error) {
	res := &CollectionResult{Records: make([]*Map, n)}
	errs := make([]*RecordError, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opt.Workers, 1))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := one(i)
			if err != nil {
				re := &RecordError{Index: i, Err: err}
				errs[i] = re
				if opt.Mode == Strict {
					return re
				}
				return nil
			}
			res.Records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var re *RecordError
		if errors.As(err, &re) {
			for _, e := range errs {
				if e != nil {
					return res, e
				}
			}
		}
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	for _, e := range errs {
		if e != nil {
			res.Errors = append(res.Errors, e)
		}
	}
	if len(res.Errors) > 0 {
		c.log.Debug("collection validated with failures",
			zap.Int("records", n), zap.Int("failed", len(res.Errors)), zap.Stringer("mode", opt.Mode))
	}
	return res, nil
}
