package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/ir"
)

// Scenario defines a conformance test scenario.
// A scenario compiles one criteria document, normalizes it into each
// requested form, and asserts on the normalized text, the clause counts,
// and the rows the predicate selects from a fixture table.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Criteria is an inline CUE criteria document.
	Criteria string `yaml:"criteria,omitempty"`

	// CriteriaFile is a path to a CUE criteria document, relative to the
	// scenario file. Exactly one of Criteria and CriteriaFile is set.
	CriteriaFile string `yaml:"criteria_file,omitempty"`

	// Forms lists the target forms ("dnf", "cnf"). Defaults to both.
	Forms []string `yaml:"forms,omitempty"`

	// PushNegation runs negation pushdown before normalizing.
	PushNegation bool `yaml:"push_negation,omitempty"`

	// MaxClauses is the clause budget. Zero uses the normalizer default.
	MaxClauses int `yaml:"max_clauses,omitempty"`

	// Table is an optional fixture table the predicate is evaluated on.
	Table *TableFixture `yaml:"table,omitempty"`

	// Bindings supplies runtime values keyed by correlation id. Generated
	// ids are "$s/1", "$s/2", ... in document order.
	Bindings map[string][]any `yaml:"bindings,omitempty"`

	// Expect holds the expected outcome.
	Expect Expectations `yaml:"expect"`
}

// TableFixture describes a fixture table and its rows.
type TableFixture struct {
	Name    string           `yaml:"name"`
	Columns []ColumnFixture  `yaml:"columns"`
	Rows    []map[string]any `yaml:"rows"`
}

// ColumnFixture is one typed fixture column.
type ColumnFixture struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Expectations lists what a scenario asserts. Every field is optional.
type Expectations struct {
	DNF *FormExpectation `yaml:"dnf,omitempty"`
	CNF *FormExpectation `yaml:"cnf,omitempty"`

	// Rows are the fixture ids the input predicate selects, ascending.
	Rows []int64 `yaml:"rows,omitempty"`
}

// FormExpectation describes the expected result of one normalization.
type FormExpectation struct {
	// Text is the expected rendering of the normalized predicate.
	Text string `yaml:"text,omitempty"`

	// Clauses is the expected top-level clause count.
	Clauses *int `yaml:"clauses,omitempty"`

	// Error names an expected failure. Supported: "expansion_limit".
	Error string `yaml:"error,omitempty"`
}

// Expected error names.
const (
	ErrorExpansionLimit = "expansion_limit"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A criteria_file is resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.CriteriaFile != "" && !filepath.IsAbs(scenario.CriteriaFile) {
		scenario.CriteriaFile = filepath.Join(filepath.Dir(path), scenario.CriteriaFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// TargetForms parses Forms, defaulting to DNF then CNF.
func (s *Scenario) TargetForms() ([]criteria.Form, error) {
	if len(s.Forms) == 0 {
		return []criteria.Form{criteria.DNF, criteria.CNF}, nil
	}
	forms := make([]criteria.Form, 0, len(s.Forms))
	seen := make(map[criteria.Form]bool)
	for i, name := range s.Forms {
		f, err := criteria.ParseForm(name)
		if err != nil {
			return nil, fmt.Errorf("forms[%d]: %w", i, err)
		}
		if seen[f] {
			return nil, fmt.Errorf("forms[%d]: duplicate form %s", i, f)
		}
		seen[f] = true
		forms = append(forms, f)
	}
	return forms, nil
}

// Source returns the CUE document text.
func (s *Scenario) Source() (string, error) {
	if s.Criteria != "" {
		return s.Criteria, nil
	}
	data, err := os.ReadFile(s.CriteriaFile)
	if err != nil {
		return "", fmt.Errorf("failed to read criteria file: %w", err)
	}
	return string(data), nil
}

// expectationFor returns the expectation for form, or nil.
func (e *Expectations) expectationFor(f criteria.Form) *FormExpectation {
	if f == criteria.CNF {
		return e.CNF
	}
	return e.DNF
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Criteria == "" && s.CriteriaFile == "":
		return fmt.Errorf("criteria or criteria_file is required")
	case s.Criteria != "" && s.CriteriaFile != "":
		return fmt.Errorf("criteria and criteria_file are mutually exclusive")
	}

	if s.CriteriaFile != "" {
		if _, err := os.Stat(s.CriteriaFile); os.IsNotExist(err) {
			return fmt.Errorf("criteria file not found: %s", s.CriteriaFile)
		}
	}

	if _, err := s.TargetForms(); err != nil {
		return err
	}

	if s.MaxClauses < 0 {
		return fmt.Errorf("max_clauses must be non-negative")
	}

	if s.Table != nil {
		if err := validateTable(s.Table); err != nil {
			return err
		}
	}

	if len(s.Expect.Rows) > 0 && s.Table == nil {
		return fmt.Errorf("expect.rows requires a table")
	}

	for name, fe := range map[string]*FormExpectation{"dnf": s.Expect.DNF, "cnf": s.Expect.CNF} {
		if fe == nil {
			continue
		}
		if fe.Error != "" && fe.Error != ErrorExpansionLimit {
			return fmt.Errorf("expect.%s: unknown error %q", name, fe.Error)
		}
		if fe.Clauses != nil && *fe.Clauses < 0 {
			return fmt.Errorf("expect.%s: clauses must be non-negative", name)
		}
	}

	return nil
}

func validateTable(t *TableFixture) error {
	if t.Name == "" {
		return fmt.Errorf("table.name is required")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table.columns is required and must be non-empty")
	}
	declared := make(map[string]bool, len(t.Columns))
	for i, col := range t.Columns {
		if col.Name == "" {
			return fmt.Errorf("table.columns[%d]: name is required", i)
		}
		if _, err := ir.ParseType(col.Type); err != nil {
			return fmt.Errorf("table.columns[%d]: %w", i, err)
		}
		declared[col.Name] = true
	}
	for i, row := range t.Rows {
		for name := range row {
			if !declared[name] {
				return fmt.Errorf("table.rows[%d]: undeclared column %q", i, name)
			}
		}
	}
	return nil
}
