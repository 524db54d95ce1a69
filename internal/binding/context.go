package binding

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/ir"
)

// Context maps correlation ids to value sources for one execution scope.
//
// Thread-safety: Context is safe for concurrent use. Binding into a parent
// while children read is allowed; children observe it on their next lookup.
type Context struct {
	mu      sync.RWMutex
	token   string
	parent  *Context
	sources map[string]ValueSource
	tokens  TokenGenerator
	logger  *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokens sets the scope token generator. Defaults to UUIDv7Generator.
func WithTokens(gen TokenGenerator) Option {
	return func(c *Context) {
		if gen != nil {
			c.tokens = gen
		}
	}
}

// New creates a root binding context.
func New(opts ...Option) *Context {
	c := &Context{
		sources: make(map[string]ValueSource),
		tokens:  UUIDv7Generator{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.token = c.tokens.Generate()
	return c
}

// Child creates a nested context that inherits this context's bindings,
// token generator, and logger.
func (c *Context) Child() *Context {
	child := &Context{
		parent:  c,
		sources: make(map[string]ValueSource),
		tokens:  c.tokens,
		logger:  c.logger,
	}
	child.token = child.tokens.Generate()
	return child
}

// Token identifies this scope in logs and errors.
func (c *Context) Token() string { return c.token }

// Parent returns the enclosing context, or nil for a root.
func (c *Context) Parent() *Context { return c.parent }

// Bind attaches src to id in this context.
func (c *Context) Bind(id string, src ValueSource) error {
	if id == "" {
		return ErrEmptyID
	}
	if src == nil {
		return fmt.Errorf("binding %q: nil value source", id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.sources[id]; exists {
		return &DuplicateBindingError{ID: id, Token: c.token}
	}
	c.sources[id] = src

	c.logger.Debug("bound correlation id",
		"id", id,
		"context", c.token,
	)
	return nil
}

// BindValues is Bind with a StaticValues source.
func (c *Context) BindValues(id string, values ...ir.Datum) error {
	return c.Bind(id, StaticValues(values))
}

// Unbind removes id from this context. Parent bindings are untouched.
// It reports whether a binding was removed.
func (c *Context) Unbind(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sources[id]; !ok {
		return false
	}
	delete(c.sources, id)
	c.logger.Debug("unbound correlation id", "id", id, "context", c.token)
	return true
}

// Lookup finds the source bound to id, searching ancestors from nearest
// to farthest.
func (c *Context) Lookup(id string) (ValueSource, bool) {
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		src, ok := scope.sources[id]
		scope.mu.RUnlock()
		if ok {
			return src, true
		}
	}
	return nil, false
}

// Values resolves the values bound to id.
func (c *Context) Values(ctx context.Context, id string) ([]ir.Datum, error) {
	src, ok := c.Lookup(id)
	if !ok {
		return nil, &UnboundError{ID: id, Token: c.token}
	}
	values, err := src.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("values for %q: %w", id, err)
	}
	return values, nil
}

// ValuesFor resolves the values bound to a correlated predicate.
func (c *Context) ValuesFor(ctx context.Context, pred criteria.Correlated) ([]ir.Datum, error) {
	return c.Values(ctx, pred.CorrelationID())
}

// IDs returns the ids visible from this context, sorted.
func (c *Context) IDs() []string {
	seen := make(map[string]struct{})
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		for id := range scope.sources {
			seen[id] = struct{}{}
		}
		scope.mu.RUnlock()
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Unbound returns the correlation ids under root that have no binding
// visible from this context, in tree order without duplicates.
func (c *Context) Unbound(root criteria.Criteria) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, pred := range criteria.CorrelatedCriteria(root) {
		id := pred.CorrelationID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.Lookup(id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
