package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/gbasm/tools"
)

var lintStrict bool

var lintCmd = &cobra.Command{
	Use:     "lint <file.asm>",
	Short:   "Check an assembly source file for common mistakes",
	Args:    cobra.ExactArgs(1),
	GroupID: "analyze",
	RunE:    runLint,
}

func init() {
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "promote warnings to errors")
}

func runLint(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	source, err := os.ReadFile(args[0]) // #nosec G304 -- path given on the command line
	if err != nil {
		return err
	}

	opts := &tools.LintOptions{
		Strict:       lintStrict || cfg.Lint.Strict,
		CheckUnused:  cfg.Lint.CheckUnused,
		CheckReach:   cfg.Lint.CheckReach,
		CheckQuirks:  cfg.Lint.CheckQuirks,
		SuggestFixes: cfg.Lint.SuggestFixes,
	}

	issues := tools.NewLinter(opts).Lint(string(source), args[0])
	hasError := false
	for _, issue := range issues {
		fmt.Println(issue.String())
		if issue.Level == tools.LintError {
			hasError = true
		}
	}

	if hasError {
		os.Exit(1)
	}
	return nil
}
