package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/critnf/internal/binding"
	"github.com/roach88/critnf/internal/compiler"
	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/ir"
	"github.com/roach88/critnf/internal/querysql"
	"github.com/roach88/critnf/internal/rewrite"
	"github.com/roach88/critnf/internal/store"
	"github.com/roach88/critnf/internal/testutil"
)

// IDPrefix prefixes the correlation ids generated while compiling a
// scenario's criteria document.
const IDPrefix = "$s/"

// Harness is the test execution engine.
// It runs scenarios with deterministic correlation ids and binding tokens.
type Harness struct {
	store    *store.Store
	ids      *testutil.SequenceIDs
	bindings *binding.Context
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Compile and validate the criteria document
// 2. Bind scenario values to correlation ids
// 3. Normalize into every target form, checking the normal form invariants
// 4. Select fixture rows with the input and every output
// 5. Evaluate expectations
//
// A returned error means the scenario could not be executed; failed
// checks are reported through Result.Errors instead.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	forms, err := scenario.TargetForms()
	if err != nil {
		return nil, err
	}

	src, err := scenario.Source()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Harness{
		ids:    testutil.NewSequenceIDs(IDPrefix),
		logger: logger,
		bindings: binding.New(
			binding.WithLogger(logger),
			binding.WithTokens(testutil.NewFixedTokenGenerator("")),
		),
	}

	doc, err := compiler.CompileString(src, scenario.Name+".cue", criteria.WithCorrelationIDs(h.ids))
	if err != nil {
		return nil, fmt.Errorf("failed to compile criteria: %w", err)
	}

	result := NewResult()
	for _, verr := range compiler.Validate(doc) {
		result.AddError(verr.Error())
	}

	if err := h.bind(scenario.Bindings); err != nil {
		return nil, fmt.Errorf("failed to bind values: %w", err)
	}

	input := doc.Criteria
	result.Input = input.String()
	snapshot := criteria.Clone(input)

	outputs := make([]criteria.Criteria, len(forms))
	for i, form := range forms {
		out, outcome, err := h.normalize(input, form, scenario)
		if err != nil {
			return nil, err
		}
		outputs[i] = out
		result.Forms = append(result.Forms, outcome)
		checkInvariants(result, form, input, snapshot, out, outcome)
	}

	if scenario.Table != nil {
		st, err := store.OpenMemory()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		h.store = st

		if err := h.loadTable(ctx, scenario.Table); err != nil {
			return nil, fmt.Errorf("failed to load table: %w", err)
		}
		if err := h.selectRows(ctx, scenario.Table.Name, input, outputs, result); err != nil {
			return nil, err
		}
	}

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}

	return result, nil
}

// bind registers scenario values in sorted id order.
func (h *Harness) bind(values map[string][]any) error {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		datums := make([]ir.Datum, len(values[id]))
		for i, v := range values[id] {
			d, err := ir.FromGo(v)
			if err != nil {
				return fmt.Errorf("bindings[%s][%d]: %w", id, i, err)
			}
			datums[i] = d
		}
		if err := h.bindings.BindValues(id, datums...); err != nil {
			return err
		}
	}
	return nil
}

func (h *Harness) normalize(input criteria.Criteria, form criteria.Form, scenario *Scenario) (criteria.Criteria, FormOutcome, error) {
	opts := []rewrite.Option{
		rewrite.WithForm(form),
		rewrite.WithPushNegation(scenario.PushNegation),
		rewrite.WithLogger(h.logger),
	}
	if scenario.MaxClauses > 0 {
		opts = append(opts, rewrite.WithMaxClauses(scenario.MaxClauses))
	}

	res, err := rewrite.New(opts...).Normalize(input)
	outcome := FormOutcome{
		Form:    form.String(),
		Output:  res.Criteria.String(),
		Clauses: res.Clauses,
		Changed: res.Changed,
	}
	switch {
	case err == nil:
	case rewrite.IsExpansionLimit(err):
		outcome.Error = ErrorExpansionLimit
	default:
		return nil, FormOutcome{}, fmt.Errorf("normalize %s: %w", form, err)
	}

	h.logger.Info("normalized",
		"form", outcome.Form,
		"clauses", outcome.Clauses,
		"changed", outcome.Changed,
		"error", outcome.Error,
	)
	return res.Criteria, outcome, nil
}

// checkInvariants verifies the properties every normalization must have:
// the input is never modified, a successful output is in the target form,
// and normalizing the output again returns it unchanged.
func checkInvariants(result *Result, form criteria.Form, input, snapshot, out criteria.Criteria, outcome FormOutcome) {
	if !criteria.Equal(input, snapshot) {
		result.AddError(fmt.Sprintf("%s: input was modified: %s", form, input))
	}
	if outcome.Error != "" {
		return
	}
	if !criteria.IsNormalForm(out, form) {
		result.AddError(fmt.Sprintf("%s: output is not in normal form: %s", form, out))
	}
	if again := criteria.Normalize(out, form); again != out {
		result.AddError(fmt.Sprintf("%s: normalizing the output changed it: %s -> %s", form, out, again))
	}
	if outcome.Clauses != criteria.CountClauses(out, form) {
		result.AddError(fmt.Sprintf("%s: reported %d clauses, output has %d",
			form, outcome.Clauses, criteria.CountClauses(out, form)))
	}
}

func (h *Harness) loadTable(ctx context.Context, t *TableFixture) error {
	cols := make([]store.ColumnDef, len(t.Columns))
	for i, c := range t.Columns {
		typ, err := ir.ParseType(c.Type)
		if err != nil {
			return err
		}
		cols[i] = store.ColumnDef{Name: c.Name, Type: typ}
	}
	if err := h.store.CreateTable(ctx, t.Name, cols); err != nil {
		return err
	}

	rows := make([]store.Row, len(t.Rows))
	for i, raw := range t.Rows {
		row := make(store.Row, len(raw))
		for name, v := range raw {
			d, err := ir.FromGo(v)
			if err != nil {
				return fmt.Errorf("rows[%d].%s: %w", i, name, err)
			}
			row[name] = d
		}
		rows[i] = row
	}
	_, err := h.store.InsertAll(ctx, t.Name, rows)
	return err
}

// selectRows evaluates the input and every successful output against the
// fixture table. An output that selects different rows than the input is a
// failure: normalization must not change which rows a predicate accepts.
func (h *Harness) selectRows(ctx context.Context, table string, input criteria.Criteria, outputs []criteria.Criteria, result *Result) error {
	compiler := querysql.NewCompiler(querysql.WithBindings(h.bindings))

	want, err := h.selectIDs(ctx, compiler, table, input)
	if err != nil {
		return fmt.Errorf("select with input: %w", err)
	}
	result.Rows = want

	for i, out := range outputs {
		outcome := &result.Forms[i]
		if outcome.Error != "" {
			continue
		}
		got, err := h.selectIDs(ctx, compiler, table, out)
		if err != nil {
			return fmt.Errorf("select with %s output: %w", outcome.Form, err)
		}
		outcome.Rows = got
		if formatIDs(got) != formatIDs(want) {
			result.AddError(fmt.Sprintf("%s: output selects rows %s, input selects %s",
				outcome.Form, formatIDs(got), formatIDs(want)))
		}
	}
	return nil
}

func (h *Harness) selectIDs(ctx context.Context, compiler *querysql.Compiler, table string, pred criteria.Criteria) ([]int64, error) {
	where, params, err := compiler.CompileWhere(ctx, pred)
	if err != nil {
		return nil, err
	}
	return h.store.SelectIDs(ctx, table, where, params...)
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
