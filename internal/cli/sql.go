package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/critnf/internal/binding"
	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/ir"
	"github.com/roach88/critnf/internal/querysql"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	Table   string   // FROM table
	Columns []string // projected columns, empty selects *
	Form    string   // optional normal form applied before rendering
	Binds   []string // "id=v1,v2" value lists for correlated predicates
}

// SQLOutput is the rendered query of one document.
type SQLOutput struct {
	Name     string   `json:"name"`
	SQL      string   `json:"sql,omitempty"`
	Params   []any    `json:"params"`
	Problems []string `json:"problems,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql <file|dir>",
		Short: "Render criteria documents as SQLite queries",
		Long: `Render every criteria document in a CUE file or directory as a
parameterized SQLite SELECT over --table.

Correlated predicates (EXISTS, IN and quantified subqueries) are numbered
"$q/1", "$q/2", ... in source order within each document. Bind their values
with --bind; unbound IN and EXISTS subqueries are embedded as SQL text,
unbound quantified comparisons and dependent sets cannot be rendered.

Exit codes:
  0 - Every document was rendered
  1 - One or more documents cannot be rendered
  2 - Command error (invalid path, compile error, malformed --bind)

Examples:
  critnf sql adults.cue --table people
  critnf sql adults.cue --table people --form cnf
  critnf sql ./docs --table people --bind '$q/1=1,2,3'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "t", "table to select from")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to select (default *)")
	cmd.Flags().StringVar(&opts.Form, "form", "", "normalize before rendering (dnf|cnf)")
	cmd.Flags().StringArrayVar(&opts.Binds, "bind", nil, "bind values to a correlation id: id=v1,v2 (repeatable)")

	return cmd
}

func runSQL(opts *SQLOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := formatter.Logger()

	var form *criteria.Form
	if opts.Form != "" {
		f, err := criteria.ParseForm(opts.Form)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		form = &f
	}

	bindings := binding.New(binding.WithLogger(logger))
	for _, arg := range opts.Binds {
		id, values, err := ParseBinding(arg)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeBinding, err.Error(), nil)
		}
		if err := bindings.BindValues(id, values...); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeBinding, err.Error(), nil)
		}
	}

	docs, err := loadForCommand(formatter, path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	compiler := querysql.NewCompiler(querysql.WithBindings(bindings))
	outputs := make([]SQLOutput, 0, len(docs))
	failed := 0
	for _, doc := range docs {
		root := doc.Criteria
		if form != nil {
			root = criteria.Normalize(root, *form)
		}
		out := renderSQL(ctx, compiler, bindings, opts, doc.Name, root)
		if out.SQL == "" {
			failed++
		}
		outputs = append(outputs, out)
	}

	if opts.Format == "json" {
		if err := formatter.Success(outputs); err != nil {
			return err
		}
	} else {
		writeSQLText(formatter.Writer, outputs)
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d document(s) cannot be rendered as SQL", failed))
	}
	return nil
}

func renderSQL(ctx context.Context, compiler *querysql.Compiler, bindings *binding.Context, opts *SQLOptions, name string, root criteria.Criteria) SQLOutput {
	out := SQLOutput{Name: name, Params: []any{}}

	check := querysql.Validate(root, bindings)
	out.Warnings = check.Warnings
	if !check.Compilable {
		out.Problems = check.Problems
		return out
	}

	sql, params, err := compiler.Compile(ctx, querysql.Select{
		From:    opts.Table,
		Columns: opts.Columns,
		Filter:  root,
	})
	if err != nil {
		out.Problems = []string{err.Error()}
		return out
	}
	out.SQL = sql
	if params != nil {
		out.Params = params
	}
	return out
}

func writeSQLText(w io.Writer, outputs []SQLOutput) {
	for _, out := range outputs {
		fmt.Fprintf(w, "%s:\n", displayName(out.Name))
		if out.SQL != "" {
			fmt.Fprintf(w, "  %s\n", out.SQL)
			fmt.Fprintf(w, "  params: %v\n", formatParams(out.Params))
		}
		for _, p := range out.Problems {
			fmt.Fprintf(w, "  ✗ %s\n", p)
		}
		for _, warn := range out.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warn)
		}
	}
}

func formatParams(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case nil:
			parts[i] = "NULL"
		case string:
			parts[i] = strconv.Quote(v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParseBinding parses "id=v1,v2,..." into a correlation id and its values.
// Values are integers, true, false, null, or strings; a string may be
// single-quoted to keep it from being read as another kind. "id=" binds an
// empty list.
func ParseBinding(arg string) (string, []ir.Datum, error) {
	id, list, ok := strings.Cut(arg, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", nil, fmt.Errorf("invalid binding %q: want id=v1,v2", arg)
	}

	list = strings.TrimSpace(list)
	if list == "" {
		return id, []ir.Datum{}, nil
	}

	parts := strings.Split(list, ",")
	values := make([]ir.Datum, len(parts))
	for i, part := range parts {
		values[i] = parseValue(strings.TrimSpace(part))
	}
	return id, values, nil
}

func parseValue(s string) ir.Datum {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return ir.DString(s[1 : len(s)-1])
	}
	switch strings.ToLower(s) {
	case "null":
		return ir.DNull{}
	case "true":
		return ir.DBool(true)
	case "false":
		return ir.DBool(false)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ir.DInt(n)
	}
	return ir.DString(s)
}
