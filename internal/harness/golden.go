package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/critnf/internal/ir"
)

// Snapshot captures the complete outcome of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Input        string        `json:"input"`
	Forms        []FormOutcome `json:"forms"`
	Rows         []int64       `json:"rows,omitempty"`
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles datums and primitives.
func (s *Snapshot) toCanonicalMap() map[string]any {
	forms := make([]any, len(s.Forms))
	for i, f := range s.Forms {
		m := map[string]any{
			"form":    f.Form,
			"output":  f.Output,
			"clauses": f.Clauses,
			"changed": f.Changed,
		}
		if f.Error != "" {
			m["error"] = f.Error
		}
		if f.Rows != nil {
			m["rows"] = idList(f.Rows)
		}
		forms[i] = m
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"input":         s.Input,
		"forms":         forms,
	}
	if s.Rows != nil {
		result["rows"] = idList(s.Rows)
	}
	return result
}

func idList(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// MarshalSnapshot renders the canonical JSON snapshot of a result.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Input:        result.Input,
		Forms:        result.Forms,
		Rows:         result.Rows,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
