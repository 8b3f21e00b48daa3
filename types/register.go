package types

import (
	"sync"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/compile"
)

// Register installs every built-in handler and the schema compiler into cat.
// Calling it twice is harmless: duplicate names keep their first handler.
func Register(cat *ioschema.Catalog) {
	cat.Register(NewAny(cat))
	cat.Register(Bool{})
	for _, name := range []string{"string", "email", "url"} {
		cat.Register(NewString(name))
	}
	for _, name := range NumberNames() {
		cat.Register(NewNumber(name))
	}
	cat.Register(NewNumber("bigint"))
	cat.Register(NewNumber("decimal"))
	for _, name := range []string{"datetime", "date", "time"} {
		cat.Register(NewDateTime(name))
	}
	cat.Register(NewArray(cat))
	cat.Register(NewObject(cat))
	if cat.Compiler() == nil {
		cat.SetCompiler(compile.New(cat))
	}
}

var (
	defaultOnce sync.Once
	defaultCat  *ioschema.Catalog
)

// Default returns the process-wide catalog with the built-in types. It is
// populated on first use.
func Default() *ioschema.Catalog {
	defaultOnce.Do(func() {
		defaultCat = ioschema.NewCatalog()
		Register(defaultCat)
	})
	return defaultCat
}

// NewCatalog returns a fresh catalog with the built-in types registered.
func NewCatalog(opts ...ioschema.CatalogOption) *ioschema.Catalog {
	cat := ioschema.NewCatalog(opts...)
	Register(cat)
	return cat
}
