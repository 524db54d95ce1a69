package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/critnf/internal/compiler"
	"github.com/roach88/critnf/internal/querysql"
)

// ValidationResult holds the findings for one document.
type ValidationResult struct {
	Name     string                     `json:"name"`
	Valid    bool                       `json:"valid"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []string                   `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|dir>",
		Short: "Check criteria documents without rewriting them",
		Long: `Check every criteria document in a CUE file or directory.

Reports undeclared columns, operand type mismatches, invalid patterns,
empty subqueries, and dependent sets that read one source through different
expressions. Comparisons with a NULL constant are reported as warnings.

Exit codes:
  0 - All documents are valid
  1 - One or more documents have errors
  2 - Command error (invalid path, compile error)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	docs, err := loadForCommand(formatter, path)
	if err != nil {
		return err
	}

	results := make([]ValidationResult, 0, len(docs))
	invalid := 0
	for _, doc := range docs {
		formatter.VerboseLog("Validating document: %s", displayName(doc.Name))
		res := ValidationResult{
			Name:     doc.Name,
			Errors:   compiler.Validate(doc),
			Warnings: querysql.Validate(doc.Criteria, nil).Warnings,
		}
		res.Valid = len(res.Errors) == 0
		if !res.Valid {
			invalid++
		}
		results = append(results, res)
	}

	if opts.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, res := range results {
			mark := "✓"
			if !res.Valid {
				mark = "✗"
			}
			fmt.Fprintf(w, "%s %s\n", mark, displayName(res.Name))
			for _, e := range res.Errors {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
			for _, warn := range res.Warnings {
				fmt.Fprintf(w, "  warning: %s\n", warn)
			}
		}
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d document(s) invalid", invalid))
	}
	return nil
}
