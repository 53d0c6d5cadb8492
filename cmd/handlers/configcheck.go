package handlers

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the cleanup configuration",
	}
	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the config and report rule table entry counts",
		Long: `Load the configuration the same way a run would and print which rule
tables are present and how many entries each carries. Empty essential
tables (banned terms, taxonomy map) are flagged.

Example:
  shopscrub config check --config .shopscrub.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigCheck()
		},
	}
}

func runConfigCheck() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	counts := cfg.TableCounts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(headerStyle.Render("Config Check"))
	for _, name := range names {
		count := counts[name]
		line := fmt.Sprintf("  %-30s %d entries", name, count)
		if count == 0 {
			switch name {
			case "banned_terms", "google_taxonomy_map":
				line += "  " + warnStyle.Render("(empty, runs will use an empty fallback)")
			default:
				line += "  " + warnStyle.Render("(empty)")
			}
		}
		fmt.Println(line)
	}
	fmt.Println(okStyle.Render("Config loaded successfully."))
	return nil
}
