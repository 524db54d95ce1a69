package criteria

import (
	"regexp"

	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// NoEscape is the escape character of a pattern that has none.
const NoEscape rune = -1

// MatchCriteria is left [NOT] LIKE right [ESCAPE c], or the SIMILAR TO and
// LIKE_REGEX forms selected by Mode.
type MatchCriteria struct {
	node
	Left  expr.Expression
	Right expr.Expression

	escape          rune
	mode            MatchMode
	negated         bool
	caseInsensitive bool
	patterns        *PatternCache // shared handle, never copied
}

// NewMatchCriteria creates a LIKE predicate with no escape character.
func NewMatchCriteria(left, right expr.Expression, opts ...Option) *MatchCriteria {
	o := buildOptions(opts)
	return &MatchCriteria{
		Left:     left,
		Right:    right,
		escape:   NoEscape,
		mode:     ModeLike,
		patterns: o.patterns,
	}
}

func (c *MatchCriteria) EscapeChar() rune      { return c.escape }
func (c *MatchCriteria) SetEscapeChar(r rune)  { c.escape = r }
func (c *MatchCriteria) Mode() MatchMode       { return c.mode }
func (c *MatchCriteria) CaseInsensitive() bool { return c.caseInsensitive }
func (c *MatchCriteria) IsNegated() bool       { return c.negated }
func (c *MatchCriteria) SetNegated(neg bool)   { c.negated = neg }
func (c *MatchCriteria) Negate() error         { c.negated = !c.negated; return nil }

// SetMode changes the pattern language in place.
func (c *MatchCriteria) SetMode(m MatchMode) error {
	if !m.Valid() {
		return invalidArgument("match mode", "mode code out of range")
	}
	c.mode = m
	return nil
}

// SetCaseInsensitive toggles ILIKE-style matching.
func (c *MatchCriteria) SetCaseInsensitive(ci bool) { c.caseInsensitive = ci }

// Pattern returns the pattern text. The right operand must be a
// non-NULL string constant.
func (c *MatchCriteria) Pattern() (string, error) {
	k, ok := c.Right.(*expr.Constant)
	if !ok {
		return "", invalidArgument("match pattern", "pattern operand is not a constant")
	}
	s, ok := k.Value.(ir.DString)
	if !ok {
		return "", invalidArgument("match pattern", "pattern operand is not a string")
	}
	return string(s), nil
}

// Regexp returns the compiled pattern, using the pattern cache.
func (c *MatchCriteria) Regexp() (*regexp.Regexp, error) {
	pattern, err := c.Pattern()
	if err != nil {
		return nil, err
	}
	cache := c.patterns
	if cache == nil {
		cache = processPatterns
	}
	return cache.Compile(PatternKey{
		Pattern:         pattern,
		Escape:          c.escape,
		Mode:            c.mode,
		CaseInsensitive: c.caseInsensitive,
	})
}

// Matches reports whether s matches the pattern. Negation is not applied;
// callers combine the result with IsNegated.
func (c *MatchCriteria) Matches(s string) (bool, error) {
	re, err := c.Regexp()
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

func (c *MatchCriteria) Clone() expr.Expression {
	return &MatchCriteria{
		Left:            expr.Clone(c.Left),
		Right:           expr.Clone(c.Right),
		escape:          c.escape,
		mode:            c.mode,
		negated:         c.negated,
		caseInsensitive: c.caseInsensitive,
		patterns:        c.patterns,
	}
}

func (c *MatchCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*MatchCriteria)
	return ok && c.negated == o.negated && c.mode == o.mode && c.escape == o.escape &&
		c.caseInsensitive == o.caseInsensitive &&
		expr.Equal(c.Left, o.Left) && expr.Equal(c.Right, o.Right)
}

func (c *MatchCriteria) Canonical() ir.DObject {
	escape := ""
	if c.escape != NoEscape {
		escape = string(c.escape)
	}
	return canonicalNode("match", ir.DObject{
		"negated":          ir.DBool(c.negated),
		"mode":             ir.DString(c.mode.String()),
		"escape":           ir.DString(escape),
		"case_insensitive": ir.DBool(c.caseInsensitive),
		"left":             expr.CanonicalOf(c.Left),
		"right":            expr.CanonicalOf(c.Right),
	})
}

func (c *MatchCriteria) String() string {
	keyword := c.mode.String()
	if c.mode == ModeLike && c.caseInsensitive {
		keyword = "ILIKE"
	}
	s := operandString(c.Left) + " " + notWord(c.negated) + keyword + " " + operandString(c.Right)
	if c.escape != NoEscape {
		s += " ESCAPE " + ir.Format(ir.DString(string(c.escape)))
	}
	return s
}
