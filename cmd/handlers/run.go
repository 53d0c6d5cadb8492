// Package handlers implements the CLI subcommands.
package handlers

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"shopscrub/internal/config"
	"shopscrub/internal/logger"
	"shopscrub/internal/pipeline"
	"shopscrub/internal/table"
)

// Shared persistent flags, bound by the root command.
var (
	ConfigFile string
	LogLevel   string
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// runFlags holds the per-invocation I/O overrides shared by clean and
// validate.
type runFlags struct {
	input  string
	output string
	issues string
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, err
	}
	if LogLevel != "" {
		logger.SetLevel(LogLevel)
	} else if cfg.App.LogLevel != "" {
		logger.SetLevel(cfg.App.LogLevel)
	}
	return cfg, nil
}

// runPipeline is the shared body of clean and validate: acquire the lock,
// read the input, run, write both outputs, print the summary.
func runPipeline(flags runFlags, mutate bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	input := flags.input
	if input == "" {
		input = cfg.App.InputPath
	}
	output := flags.output
	if output == "" {
		output = cfg.App.OutputPath
	}
	issuesPath := flags.issues
	if issuesPath == "" {
		issuesPath = cfg.App.IssuesPath
	}
	lockPath := cfg.App.LockPath
	if lockPath == "" {
		lockPath = ".shopscrub.lock"
	}

	lock, err := pipeline.AcquireLock(lockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	in, err := table.Read(input)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(in, cfg, pipeline.Options{Mutate: mutate})
	if err != nil {
		return err
	}

	if err := table.Write(output, res.Output); err != nil {
		return err
	}
	if err := table.WriteIssues(issuesPath, res.Issues); err != nil {
		return err
	}

	printRunSummary(res, output, issuesPath)
	return nil
}

func printRunSummary(res *pipeline.Result, output, issuesPath string) {
	mode := "Validate Only"
	if res.Mutate {
		mode = "Full Cleanup"
	}
	fmt.Println(headerStyle.Render("Done."))
	fmt.Printf("  Mode:     %s\n", mode)
	fmt.Printf("  Rows:     %d\n", res.Rows)
	fmt.Printf("  Issues:   %d (%s, %s, %s)\n",
		len(res.Issues),
		errorStyle.Render(fmt.Sprintf("%d errors", res.Errors)),
		warnStyle.Render(fmt.Sprintf("%d warnings", res.Warnings)),
		infoStyle.Render(fmt.Sprintf("%d infos", res.Infos)))
	fmt.Printf("  Output:   %s\n", output)
	fmt.Printf("  Report:   %s\n", issuesPath)
	if res.Errors == 0 {
		fmt.Println(okStyle.Render("  No errors."))
	}
}
