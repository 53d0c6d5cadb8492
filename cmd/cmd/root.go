package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shopscrub/cmd/handlers"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shopscrub",
	Short: "shopscrub cleans Shopify product CSV exports per SOP rules",
	Long: `shopscrub runs a batch cleanup pipeline over a Shopify product CSV
export: category classification, vendor resolution, body regeneration,
SEO fields, tag curation, variant technicals, and Google Shopping
taxonomy mapping.

Every change is recorded in an issue report so the run can be audited
row by row.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&handlers.ConfigFile, "config", "", "config file (default is ./.shopscrub.yaml)")
	rootCmd.PersistentFlags().StringVar(&handlers.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(handlers.NewCleanCmd())
	rootCmd.AddCommand(handlers.NewValidateCmd())
	rootCmd.AddCommand(handlers.NewReportCmd())
	rootCmd.AddCommand(handlers.NewConfigCmd())
}
