package handlers

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"shopscrub/internal/table"
)

// Body-decision reasons as the body phase writes them.
const (
	reasonBodyPreserved   = "Body preserved - high quality existing content."
	reasonBodyAugmented   = "Body augmented - medium quality existing content."
	reasonBodyRegenerated = "Body regenerated - low quality existing content."
)

// NewReportCmd creates the report command, which summarizes a previously
// written issue report.
func NewReportCmd() *cobra.Command {
	var issuesPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize an issue report from an earlier run",
		Long: `Read the issues CSV of an earlier run and print totals, severity
counts, body-content handling counts, and a per-phase breakdown.

Example:
  shopscrub report --issues issues.csv --output cleaned.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(issuesPath, outputPath)
		},
	}

	cmd.Flags().StringVar(&issuesPath, "issues", "issues.csv", "issue report CSV to summarize")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "cleaned output CSV, for the product count (optional)")
	return cmd
}

func runReport(issuesPath, outputPath string) error {
	issues, err := table.Read(issuesPath)
	if err != nil {
		return fmt.Errorf("read issue report: %w", err)
	}

	products := 0
	if outputPath != "" {
		out, err := table.Read(outputPath)
		if err != nil {
			return fmt.Errorf("read output table: %w", err)
		}
		products = len(out.Rows)
	}

	var errs, warns, infos int
	var preserved, augmented, regenerated int
	phaseCounts := map[string]int{}
	for _, row := range issues.Rows {
		switch row["Severity"] {
		case "error":
			errs++
		case "warn":
			warns++
		default:
			infos++
		}
		switch row["Reason"] {
		case reasonBodyPreserved:
			preserved++
		case reasonBodyAugmented:
			augmented++
		case reasonBodyRegenerated:
			regenerated++
		}
		phase := row["Phase"]
		if phase == "" {
			phase = "unknown"
		}
		phaseCounts[phase]++
	}

	fmt.Println(headerStyle.Render("Cleanup Summary"))
	if products > 0 {
		successRate := float64(products-errs) / float64(products) * 100
		fmt.Printf("  Products processed:  %d\n", products)
		fmt.Printf("  Success rate:        %.1f%%\n", successRate)
	}
	fmt.Printf("  Issues logged:       %d\n", len(issues.Rows))
	fmt.Printf("  %s  %s  %s\n",
		errorStyle.Render(fmt.Sprintf("errors: %d", errs)),
		warnStyle.Render(fmt.Sprintf("warnings: %d", warns)),
		infoStyle.Render(fmt.Sprintf("infos: %d", infos)))

	fmt.Println(headerStyle.Render("Body Content Handling"))
	fmt.Printf("  Preserved (high quality):    %d\n", preserved)
	fmt.Printf("  Augmented (medium quality):  %d\n", augmented)
	fmt.Printf("  Regenerated (low quality):   %d\n", regenerated)

	fmt.Println(headerStyle.Render("Issues by Phase"))
	type phaseCount struct {
		phase string
		count int
	}
	ordered := make([]phaseCount, 0, len(phaseCounts))
	for p, c := range phaseCounts {
		ordered = append(ordered, phaseCount{p, c})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].phase < ordered[j].phase
	})
	for _, pc := range ordered {
		fmt.Printf("  Phase %-8s %d\n", pc.phase, pc.count)
	}
	return nil
}
