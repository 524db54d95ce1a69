package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/critnf/internal/compiler"
	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/rewrite"
	"github.com/roach88/critnf/internal/store"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Form         string // "dnf" | "cnf"
	MaxClauses   int    // clause budget, 0 disables it
	PushNegation bool   // push NOT into negatable predicates first
	Database     string // optional normalization cache
}

// NormalizeOutput is the result of normalizing one document.
type NormalizeOutput struct {
	Name    string `json:"name"`
	Form    string `json:"form"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	Clauses int    `json:"clauses"`
	Changed bool   `json:"changed"`
	Cached  bool   `json:"cached,omitempty"`
	Error   string `json:"error,omitempty"`
}

// errExpansionLimit is the NormalizeOutput.Error of an over-budget document.
const errExpansionLimit = "expansion_limit"

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <file|dir>",
		Short: "Rewrite criteria documents into DNF or CNF",
		Long: `Rewrite every criteria document in a CUE file or directory into
disjunctive (--form dnf) or conjunctive (--form cnf) normal form.

A document whose normal form would exceed --max-clauses is reported with
error "expansion_limit" and its input is printed unchanged.

With --db, results are cached in a SQLite database keyed by the structural
fingerprint of the input and the form; cached documents are not rewritten
again.

Exit codes:
  0 - Every document was normalized
  1 - One or more documents exceeded the clause budget
  2 - Command error (invalid path, compile error, database error)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Form, "form", "dnf", "target normal form (dnf|cnf)")
	cmd.Flags().IntVar(&opts.MaxClauses, "max-clauses", rewrite.DefaultMaxClauses, "clause budget (0 disables it)")
	cmd.Flags().BoolVar(&opts.PushNegation, "push-negation", false, "push NOT into comparisons and other negatable predicates first")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite normalization cache")

	return cmd
}

func runNormalize(opts *NormalizeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := formatter.Logger()

	form, err := criteria.ParseForm(opts.Form)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	docs, err := loadForCommand(formatter, path)
	if err != nil {
		return err
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("open database: %v", err), nil)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		logger.Debug("normalization cache ready", "path", opts.Database)
	}

	norm := rewrite.New(
		rewrite.WithForm(form),
		rewrite.WithMaxClauses(opts.MaxClauses),
		rewrite.WithLogger(logger),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outputs := make([]NormalizeOutput, 0, len(docs))
	overBudget := 0
	for _, doc := range docs {
		out, err := normalizeDocument(ctx, norm, st, doc, opts.PushNegation)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("%s: %v", doc.Name, err), nil)
		}
		if out.Error != "" {
			overBudget++
		}
		outputs = append(outputs, out)
	}

	if opts.Format == "json" {
		if err := formatter.Success(outputs); err != nil {
			return err
		}
	} else {
		writeNormalizeText(formatter.Writer, outputs)
	}

	if overBudget > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d document(s) exceeded the clause budget", overBudget))
	}
	return nil
}

// normalizeDocument rewrites one document, consulting and filling the cache
// when st is non-nil. Negation is pushed before the cache lookup, so the
// cache key is the tree actually normalized.
func normalizeDocument(ctx context.Context, norm *rewrite.Normalizer, st *store.Store, doc *compiler.Document, pushNegation bool) (NormalizeOutput, error) {
	form := norm.Form()
	work := doc.Criteria
	if pushNegation {
		work = rewrite.PushNegation(work)
	}
	inputFP := criteria.Fingerprint(doc.Criteria)

	out := NormalizeOutput{
		Name:  doc.Name,
		Form:  form.String(),
		Input: doc.Criteria.String(),
	}

	if st != nil {
		cached, ok, err := st.ReadNormalization(ctx, criteria.Fingerprint(work), form)
		if err != nil {
			return out, err
		}
		if ok {
			out.Output = cached.OutputText
			out.Clauses = cached.Clauses
			out.Changed = cached.OutputFingerprint != inputFP
			out.Cached = true
			return out, nil
		}
	}

	res, err := norm.Normalize(work)
	switch {
	case err == nil:
	case rewrite.IsExpansionLimit(err):
		out.Output = doc.Criteria.String()
		out.Clauses = criteria.CountClauses(doc.Criteria, form)
		out.Error = errExpansionLimit
		return out, nil
	default:
		return out, err
	}

	out.Output = res.Criteria.String()
	out.Clauses = res.Clauses
	out.Changed = criteria.Fingerprint(res.Criteria) != inputFP

	if st != nil {
		n, err := store.NewNormalization(form, work, res.Criteria, res.Clauses)
		if err != nil {
			return out, err
		}
		if err := st.WriteNormalization(ctx, n); err != nil {
			return out, err
		}
	}
	return out, nil
}

func writeNormalizeText(w io.Writer, outputs []NormalizeOutput) {
	for _, out := range outputs {
		note := ""
		switch {
		case out.Error != "":
			note = " (over clause budget, input kept)"
		case out.Cached:
			note = " (cached)"
		}
		fmt.Fprintf(w, "%s [%s, %d clauses]%s\n", displayName(out.Name), out.Form, out.Clauses, note)
		fmt.Fprintf(w, "  %s\n", out.Output)
	}
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}

// loadForCommand loads documents and reports load errors through the
// formatter. Any compile error aborts the command.
func loadForCommand(formatter *OutputFormatter, path string) ([]*compiler.Document, error) {
	result, errs := LoadDocuments(path, LoadModeCollectAll)
	if len(errs) == 0 {
		formatter.VerboseLog("Loaded %d document(s) from %d CUE file(s)", len(result.Documents), result.FileCount)
		return result.Documents, nil
	}

	var loadErr *LoadError
	code, message := ErrCodeGeneric, errs[0].Error()
	if errors.As(errs[0], &loadErr) {
		code = loadErr.Code
	}
	var details []string
	if len(errs) > 1 {
		for _, e := range errs {
			details = append(details, e.Error())
		}
	}
	if details == nil {
		return nil, formatter.fail(ExitCommandError, code, message, nil)
	}
	return nil, formatter.fail(ExitCommandError, code, message, details)
}
