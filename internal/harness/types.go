package harness

// FormOutcome records one normalization of a scenario's predicate.
type FormOutcome struct {
	Form    string `json:"form"`
	Output  string `json:"output"`
	Clauses int    `json:"clauses"`
	Changed bool   `json:"changed"`

	// Error names the failure, e.g. "expansion_limit". Output then holds
	// the unchanged input.
	Error string `json:"error,omitempty"`

	// Rows are the fixture ids the output selects. Nil without a table.
	Rows []int64 `json:"rows,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every invariant and expectation holds.
	Pass bool `json:"pass"`

	// Input is the rendering of the compiled predicate.
	Input string `json:"input"`

	// Forms holds one outcome per target form, in scenario order.
	Forms []FormOutcome `json:"forms"`

	// Rows are the fixture ids the input predicate selects.
	Rows []int64 `json:"rows,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Forms:  []FormOutcome{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcome returns the outcome for form, or nil.
func (r *Result) Outcome(form string) *FormOutcome {
	for i := range r.Forms {
		if r.Forms[i].Form == form {
			return &r.Forms[i]
		}
	}
	return nil
}
