package binding

import (
	"errors"
	"fmt"
)

// ErrEmptyID is returned when binding an empty correlation id.
var ErrEmptyID = errors.New("binding: correlation id must not be empty")

// UnboundError is returned when no source is bound to an id in a context
// or any of its ancestors.
type UnboundError struct {
	ID    string // The correlation id that was looked up
	Token string // Token of the context the lookup started from
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("binding: no values bound for %q in context %s", e.ID, e.Token)
}

// DuplicateBindingError is returned when an id is bound twice in the same
// context. Shadowing a parent's binding from a child is allowed.
type DuplicateBindingError struct {
	ID    string
	Token string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("binding: %q already bound in context %s", e.ID, e.Token)
}

// IsUnbound returns true if err is an UnboundError.
func IsUnbound(err error) bool {
	var e *UnboundError
	return errors.As(err, &e)
}

// IsDuplicate returns true if err is a DuplicateBindingError.
func IsDuplicate(err error) bool {
	var e *DuplicateBindingError
	return errors.As(err, &e)
}
