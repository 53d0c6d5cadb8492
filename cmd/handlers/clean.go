package handlers

import (
	"github.com/spf13/cobra"
)

// NewCleanCmd creates the clean command: the full mutate-mode run.
func NewCleanCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run the full cleanup and write corrected rows",
		Long: `Run every cleanup phase and write the corrected product rows to the
output CSV, alongside the issue report.

Example:
  shopscrub clean --input products.csv --output cleaned.csv --issues issues.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(flags, true)
		},
	}

	addRunFlags(cmd, &flags)
	return cmd
}

// NewValidateCmd creates the validate command: a dry run that emits the
// original rows and records what the cleanup would change.
func NewValidateCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run all checks without modifying any rows",
		Long: `Run every cleanup phase in validate-only mode. The output CSV contains
the original rows unchanged; suggested SEO values and all findings land
in the issue report.

Example:
  shopscrub validate --input products.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(flags, false)
		},
	}

	addRunFlags(cmd, &flags)
	return cmd
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "input product CSV (overrides config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output CSV path (overrides config)")
	cmd.Flags().StringVar(&flags.issues, "issues", "", "issue report CSV path (overrides config)")
}
