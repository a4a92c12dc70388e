package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ValidationIssue is one problem found in a definitions directory.
type ValidationIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

// ValidationReport is the output payload of the validate command.
type ValidationReport struct {
	Valid       bool              `json:"valid"`
	FileCount   int               `json:"file_count"`
	Definitions []string          `json:"definitions"`
	Issues      []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <definitions-dir>",
		Short: "Validate custom CUE cycle definitions",
		Long: `Validate a directory of custom CUE cycle definitions without
registering them: checks structure, exact share sums, duplicate bodies,
and nesting depth. All problems are reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	result, loadErrs := LoadDefinitions(dir, LoadModeCollectAll)
	if result == nil {
		// Directory-level failure: nothing was loadable at all.
		var loadErr *LoadError
		if len(loadErrs) > 0 && errors.As(loadErrs[0], &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return WrapExitError(ExitCommandError, loadErr.Code, loadErr)
		}
		return WrapExitError(ExitCommandError, "validating definitions", fmt.Errorf("unreadable definitions directory"))
	}

	report := ValidationReport{
		Valid:     len(loadErrs) == 0,
		FileCount: result.FileCount,
	}
	for _, def := range result.Definitions {
		report.Definitions = append(report.Definitions, def.System)
	}
	for _, err := range loadErrs {
		issue := ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			issue.Code = loadErr.Code
			issue.Message = loadErr.Message
			if loadErr.Pos.IsValid() {
				issue.Position = fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
			}
		}
		report.Issues = append(report.Issues, issue)
	}

	err := formatter.SuccessText(report, func(w io.Writer) {
		if report.Valid {
			fmt.Fprintf(w, "OK: %d definition(s) in %d file(s)\n", len(report.Definitions), report.FileCount)
			for _, name := range report.Definitions {
				fmt.Fprintf(w, "  %s\n", name)
			}
			return
		}
		fmt.Fprintf(w, "INVALID: %d issue(s)\n", len(report.Issues))
		for _, issue := range report.Issues {
			if issue.Position != "" {
				fmt.Fprintf(w, "  [%s] %s: %s\n", issue.Code, issue.Position, issue.Message)
			} else {
				fmt.Fprintf(w, "  [%s] %s\n", issue.Code, issue.Message)
			}
		}
	})
	if err != nil {
		return err
	}
	if !report.Valid {
		return WrapExitError(ExitFailure, "invalid definitions", nil)
	}
	return nil
}
