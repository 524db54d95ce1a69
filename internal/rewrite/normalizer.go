package rewrite

import (
	"log/slog"

	"github.com/roach88/critnf/internal/criteria"
)

// DefaultMaxClauses is the default clause budget of a Normalizer.
const DefaultMaxClauses = 4096

// largeExpansion is the clause count above which an expansion is logged.
const largeExpansion = 64

// Normalizer converts predicate trees to a normal form under a clause
// budget.
type Normalizer struct {
	form         criteria.Form
	maxClauses   int
	pushNegation bool
	logger       *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithForm selects the target normal form. Default: DNF.
func WithForm(form criteria.Form) Option {
	return func(n *Normalizer) {
		n.form = form
	}
}

// WithMaxClauses sets the clause budget. Zero or negative disables it.
//
// Default: 4096 clauses (DefaultMaxClauses)
func WithMaxClauses(maxClauses int) Option {
	return func(n *Normalizer) {
		n.maxClauses = maxClauses
	}
}

// WithPushNegation runs PushNegation before normalizing.
func WithPushNegation(enabled bool) Option {
	return func(n *Normalizer) {
		n.pushNegation = enabled
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		form:       criteria.DNF,
		maxClauses: DefaultMaxClauses,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Form returns the target normal form.
func (n *Normalizer) Form() criteria.Form { return n.form }

// MaxClauses returns the clause budget.
func (n *Normalizer) MaxClauses() int { return n.maxClauses }

// Result describes one normalization.
type Result struct {
	Criteria criteria.Criteria // Normalized tree, or the input on error
	Clauses  int               // Top-level clause count of Criteria
	Changed  bool              // Criteria is a new tree, not the input
}

// Normalize rewrites root into the configured form.
//
// When the estimated clause count exceeds the budget the input is
// returned unchanged together with an *ExpansionLimitError.
func (n *Normalizer) Normalize(root criteria.Criteria) (Result, error) {
	if root == nil {
		return Result{}, nil
	}

	work := root
	if n.pushNegation {
		work = PushNegation(root)
		if work != root {
			n.logger.Debug("pushed negation into predicates",
				"before", root.String(),
				"after", work.String(),
			)
		}
	}

	estimated := EstimateClauses(work, n.form)
	if n.maxClauses > 0 && estimated > n.maxClauses {
		n.logger.Warn("normal form expansion over budget; keeping input",
			"form", n.form.String(),
			"estimated", estimated,
			"limit", n.maxClauses,
		)
		return Result{
			Criteria: root,
			Clauses:  criteria.CountClauses(root, n.form),
		}, &ExpansionLimitError{Form: n.form, Estimated: estimated, Limit: n.maxClauses}
	}

	out := criteria.Normalize(work, n.form)
	clauses := criteria.CountClauses(out, n.form)
	if clauses > largeExpansion {
		n.logger.Debug("large normal form expansion",
			"form", n.form.String(),
			"clauses", clauses,
			"atoms", criteria.CountAtoms(out),
		)
	}
	return Result{Criteria: out, Clauses: clauses, Changed: out != root}, nil
}
