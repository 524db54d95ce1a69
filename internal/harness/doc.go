// Package harness provides conformance testing for criteria normalization.
//
// The harness compiles a CUE criteria document, normalizes it into DNF
// and CNF, and checks both the properties every normalization must have
// and the expectations a scenario states.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	criteria: |
//	  criteria: or: [
//	    {compare: {left: "a", op: "=", right: 1}},
//	    {compare: {left: "b", op: "=", right: 2}},
//	  ]
//	forms: [dnf, cnf]
//	push_negation: false
//	max_clauses: 64
//	table:
//	  name: t
//	  columns:
//	    - {name: a, type: integer}
//	  rows:
//	    - {a: 1}
//	bindings:
//	  "$s/1": [1, 2]
//	expect:
//	  dnf: {text: "a = 1 OR b = 2", clauses: 2}
//	  cnf: {error: expansion_limit}
//	  rows: [1]
//
// criteria_file may replace criteria; it is resolved relative to the
// scenario file.
//
// # Checks
//
// Every run verifies, per form:
//   - the input tree is not modified
//   - the output is in the target form
//   - normalizing the output again returns it unchanged
//   - the reported clause count matches the output
//   - with a table, the output selects the same rows as the input
//
// # Deterministic Testing
//
// All scenarios execute with deterministic correlation ids and binding
// tokens to ensure reproducible results and golden snapshot comparison.
//
// The harness uses:
//   - Sequential correlation ids "$s/1", "$s/2", ... (testutil.SequenceIDs)
//   - A fixed binding token (testutil.FixedTokenGenerator)
//   - In-memory SQLite database (isolated per run)
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/distribute.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
