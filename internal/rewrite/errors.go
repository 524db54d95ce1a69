package rewrite

import (
	"errors"
	"fmt"

	"github.com/roach88/critnf/internal/criteria"
)

// ExpansionLimitError is returned when normalizing would produce more
// clauses than the configured budget. The tree is left as it was.
type ExpansionLimitError struct {
	Form      criteria.Form // Requested normal form
	Estimated int           // Clause count the expansion would produce
	Limit     int           // Configured maximum
}

// Error implements the error interface.
func (e *ExpansionLimitError) Error() string {
	return fmt.Sprintf("%s expansion exceeds clause budget: %d clauses > %d limit",
		e.Form, e.Estimated, e.Limit)
}

// IsExpansionLimit returns true if the error is an ExpansionLimitError.
// Uses errors.As to handle wrapped errors.
func IsExpansionLimit(err error) bool {
	var le *ExpansionLimitError
	return errors.As(err, &le)
}
