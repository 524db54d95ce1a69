package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/critnf/internal/criteria"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Expectation that failed, e.g. "dnf.text"
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Input    string // Rendering of the input predicate for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Input != "" {
		fmt.Fprintf(&buf, "  Input: %s\n", e.Input)
	}

	return buf.String()
}

// assertForm checks one normalization against its expectation.
func assertForm(result *Result, form criteria.Form, want *FormExpectation) []error {
	name := strings.ToLower(form.String())
	outcome := result.Outcome(form.String())
	if outcome == nil {
		return []error{&AssertionError{
			Type:     name,
			Expected: "a " + form.String() + " normalization",
			Actual:   "form not in scenario forms",
			Input:    result.Input,
		}}
	}

	var errs []error
	if outcome.Error != want.Error {
		errs = append(errs, &AssertionError{
			Type:     name + ".error",
			Expected: describeError(want.Error),
			Actual:   describeError(outcome.Error),
			Input:    result.Input,
		})
	}
	if want.Text != "" && outcome.Output != want.Text {
		errs = append(errs, &AssertionError{
			Type:     name + ".text",
			Expected: want.Text,
			Actual:   outcome.Output,
			Input:    result.Input,
		})
	}
	if want.Clauses != nil && outcome.Clauses != *want.Clauses {
		errs = append(errs, &AssertionError{
			Type:     name + ".clauses",
			Expected: fmt.Sprintf("%d clauses", *want.Clauses),
			Actual:   fmt.Sprintf("%d clauses", outcome.Clauses),
			Input:    result.Input,
		})
	}
	return errs
}

// assertRows checks the ids selected by the input predicate.
func assertRows(result *Result, want []int64) error {
	if formatIDs(result.Rows) == formatIDs(want) {
		return nil
	}
	return &AssertionError{
		Type:     "rows",
		Expected: formatIDs(want),
		Actual:   formatIDs(result.Rows),
		Input:    result.Input,
	}
}

func describeError(name string) string {
	if name == "" {
		return "no error"
	}
	return name
}

// EvaluateExpectations evaluates all expectations against the result.
// Returns a slice of error messages for failed expectations.
func EvaluateExpectations(result *Result, expect Expectations) []string {
	var errors []string

	for _, form := range []criteria.Form{criteria.DNF, criteria.CNF} {
		want := expect.expectationFor(form)
		if want == nil {
			continue
		}
		for _, err := range assertForm(result, form, want) {
			errors = append(errors, err.Error())
		}
	}

	if expect.Rows != nil {
		if err := assertRows(result, expect.Rows); err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
