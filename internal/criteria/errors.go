package criteria

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes criteria errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates an out-of-range operator code or
	// other malformed construction input. No state was changed.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeUnsupported indicates an operation the variant cannot perform,
	// such as negating a DependentSetCriteria.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodePatternInvalid indicates a LIKE/SIMILAR/REGEX pattern that
	// could not be compiled. Pattern holds the offending text.
	ErrCodePatternInvalid ErrorCode = "PATTERN_INVALID"
)

// Error is the error type returned by this package.
// All errors are surfaced synchronously to the immediate caller.
type Error struct {
	Code    ErrorCode
	Op      string // What was being attempted, e.g. "compare operator"
	Message string
	Pattern string // Set for ErrCodePatternInvalid
	Err     error  // Underlying cause, optional
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	if e.Pattern != "" {
		msg += fmt.Sprintf(" (pattern=%q)", e.Pattern)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(op, message string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Op: op, Message: message}
}

func unsupported(op, message string) *Error {
	return &Error{Code: ErrCodeUnsupported, Op: op, Message: message}
}

func patternInvalid(pattern, message string, cause error) *Error {
	return &Error{Code: ErrCodePatternInvalid, Op: "compile pattern", Message: message, Pattern: pattern, Err: cause}
}

func hasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsInvalidArgument reports whether err is an invalid-argument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument)
}

// IsUnsupported reports whether err is an unsupported-operation error.
func IsUnsupported(err error) bool {
	return hasCode(err, ErrCodeUnsupported)
}

// IsPatternError reports whether err is a pattern compilation error.
func IsPatternError(err error) bool {
	return hasCode(err, ErrCodePatternInvalid)
}
