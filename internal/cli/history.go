package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Form     string // optional filter
}

// HistoryEntry is one cached normalization.
type HistoryEntry struct {
	Fingerprint string `json:"fingerprint"`
	Form        string `json:"form"`
	Clauses     int    `json:"clauses"`
	Output      string `json:"output"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List cached normalizations",
		Long: `List the normalizations recorded in a cache written by
"critnf normalize --db", ordered by input fingerprint and form.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite normalization cache (required)")
	cmd.Flags().StringVar(&opts.Form, "form", "", "only show one form (dnf|cnf)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	filter := ""
	if opts.Form != "" {
		f, err := criteria.ParseForm(opts.Form)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		filter = f.String()
	}

	// Opening creates a missing database, which would hide a typo.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("open database: %v", err), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	list, err := st.ListNormalizations(ctx)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}

	entries := make([]HistoryEntry, 0, len(list))
	for _, n := range list {
		if filter != "" && n.Form != filter {
			continue
		}
		entries = append(entries, HistoryEntry{
			Fingerprint: n.InputFingerprint,
			Form:        n.Form,
			Clauses:     n.Clauses,
			Output:      n.OutputText,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(entries)
	}

	w := formatter.Writer
	if len(entries) == 0 {
		fmt.Fprintln(w, "No cached normalizations.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %d: %s\n", shortFingerprint(e.Fingerprint), e.Form, e.Clauses, e.Output)
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
