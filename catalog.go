package ioschema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Catalog maps type names to handlers. Register everything before validating;
// mutating a catalog while validations are in flight is not supported.
type Catalog struct {
	mu       sync.RWMutex
	handlers map[string]TypeHandler
	warned   map[string]bool
	compiler SchemaCompiler
	log      *zap.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the logger used for registry diagnostics.
func WithLogger(l *zap.Logger) CatalogOption {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCatalog returns an empty catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		handlers: map[string]TypeHandler{},
		warned:   map[string]bool{},
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Register adds h under its Name and any aliases. Registering a name that is
// already taken is a no-op; the first handler wins.
func (c *Catalog) Register(h TypeHandler, aliases ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range append([]string{h.Name()}, aliases...) {
		if _, ok := c.handlers[name]; ok {
			if !c.warned[name] {
				c.warned[name] = true
				c.log.Warn("type already registered; keeping the existing handler", zap.String("type", name))
			}
			continue
		}
		c.handlers[name] = h
	}
}

// Unregister removes the given names.
func (c *Catalog) Unregister(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		delete(c.handlers, n)
		delete(c.warned, n)
	}
}

// Clear removes every handler.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = map[string]TypeHandler{}
	c.warned = map[string]bool{}
}

// Lookup returns the handler for name or a *TypeNotRegisteredError.
func (c *Catalog) Lookup(name string) (TypeHandler, error) {
	c.mu.RLock()
	h, ok := c.handlers[name]
	c.mu.RUnlock()
	if !ok {
		return nil, &TypeNotRegisteredError{Name: name}
	}
	return h, nil
}

// MustLookup is Lookup that panics on an unregistered name.
func (c *Catalog) MustLookup(name string) TypeHandler {
	h, err := c.Lookup(name)
	if err != nil {
		panic(err)
	}
	return h
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.handlers[name]
	return ok
}

// Names returns the registered names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := lo.Keys(c.handlers)
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// SetCompiler installs the compiler used for schema-valued fields.
func (c *Catalog) SetCompiler(sc SchemaCompiler) {
	c.mu.Lock()
	c.compiler = sc
	c.mu.Unlock()
}

// Compiler returns the installed SchemaCompiler, or nil.
func (c *Catalog) Compiler() SchemaCompiler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.compiler
}

// Logger returns the catalog's logger.
func (c *Catalog) Logger() *zap.Logger { return c.log }

func (c *Catalog) handlerFor(m *MemberDef) (TypeHandler, error) {
	name := m.Type
	if name == "" {
		switch {
		case m.Schema != nil || m.SchemaRef != "":
			name = "object"
		case m.Of != nil:
			name = "array"
		default:
			name = "any"
		}
	}
	return c.Lookup(name)
}

// ParseMember dispatches a syntax node to the handler for m.Type. Handlers
// use it to validate nested fields.
func (c *Catalog) ParseMember(node Node, m *MemberDef, defs *Definitions) (any, error) {
	h, err := c.handlerFor(m)
	if err != nil {
		return nil, err
	}
	return h.Parse(node, m, defs)
}

// LoadMember dispatches a native value to the handler for m.Type. Handlers
// without a Loader fall back to the common pipeline.
func (c *Catalog) LoadMember(v any, m *MemberDef, defs *Definitions) (any, error) {
	h, err := c.handlerFor(m)
	if err != nil {
		return nil, err
	}
	if l, ok := h.(Loader); ok {
		return l.Load(v, m, defs)
	}
	ck, err := Check(m, v, nil, defs, nil)
	if err != nil {
		return nil, err
	}
	return ck.Value, nil
}

// StringifyMember renders v with the handler for m.Type. ok=false means the
// field is omitted.
func (c *Catalog) StringifyMember(v any, m *MemberDef, defs *Definitions) (string, bool, error) {
	h, err := c.handlerFor(m)
	if err != nil {
		return "", false, err
	}
	s, ok := h.(Stringifier)
	if !ok {
		return "", false, fmt.Errorf("ioschema: type %q cannot be stringified", h.Name())
	}
	return s.Stringify(v, m, defs)
}

func recordDef(s *Schema) *MemberDef {
	return &MemberDef{Type: "object", Schema: s}
}

// Parse validates one record node against s and returns its *Map.
func (c *Catalog) Parse(node Node, s *Schema, defs *Definitions) (*Map, error) {
	v, err := c.ParseMember(node, recordDef(s), defs)
	if err != nil {
		return nil, err
	}
	out, _ := v.(*Map)
	return out, nil
}

// Load validates one native record (a *Map, map[string]any or positional
// []any) against s.
func (c *Catalog) Load(v any, s *Schema, defs *Definitions) (*Map, error) {
	r, err := c.LoadMember(v, recordDef(s), defs)
	if err != nil {
		return nil, err
	}
	out, _ := r.(*Map)
	return out, nil
}

// Stringify renders one native record as notation text.
func (c *Catalog) Stringify(v any, s *Schema, defs *Definitions) (string, error) {
	text, _, err := c.StringifyMember(v, recordDef(s), defs)
	return text, err
}
