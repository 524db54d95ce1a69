package criteria

import (
	"fmt"
	"sync/atomic"
)

// DefaultIDPrefix tags correlation ids generated for subquery predicates.
const DefaultIDPrefix = "$sq/"

// IDGenerator hands out correlation ids for subquery predicates.
type IDGenerator interface {
	NextID() string
}

// Counter is a monotonic correlation id generator.
//
// Ids are "<prefix><n>" with n strictly increasing from 1. Safe for
// concurrent use (atomic operations).
type Counter struct {
	seq    atomic.Int64
	prefix string
}

// NewCounter creates a counter starting at 0.
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// NewCounterAt creates a counter whose next id is start+1.
func NewCounterAt(prefix string, start int64) *Counter {
	c := &Counter{prefix: prefix}
	c.seq.Store(start)
	return c
}

// NextID returns the next id. Calls are linearizable.
func (c *Counter) NextID() string {
	return fmt.Sprintf("%s%d", c.prefix, c.seq.Add(1))
}

// Current returns the number of ids issued so far.
func (c *Counter) Current() int64 {
	return c.seq.Load()
}

// processIDs is the process-scoped generator used when no IDGenerator is
// injected. It starts at 0 when the process starts and is never reset, so
// ids are unique for the life of the process and never reused.
var processIDs = NewCounter(DefaultIDPrefix)

// ProcessIDs returns the process-scoped correlation id generator.
func ProcessIDs() *Counter {
	return processIDs
}

// Correlated is implemented by predicates that carry a correlation id.
// The evaluator uses the id as a map key when binding per-row values.
type Correlated interface {
	Criteria
	CorrelationID() string
}

// Option configures construction of subquery and match predicates.
type Option func(*options)

type options struct {
	ids      IDGenerator
	patterns *PatternCache
}

func buildOptions(opts []Option) options {
	o := options{ids: processIDs}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCorrelationIDs injects the correlation id generator, typically a
// deterministic one in tests.
func WithCorrelationIDs(ids IDGenerator) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// WithPatternCache sets the compiled-pattern cache used by MatchCriteria.
// Defaults to the process-wide cache.
func WithPatternCache(cache *PatternCache) Option {
	return func(o *options) {
		o.patterns = cache
	}
}
