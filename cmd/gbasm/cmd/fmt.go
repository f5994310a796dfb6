package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/gbasm/tools"
)

var (
	fmtStyle string
	fmtWrite bool
)

var fmtCmd = &cobra.Command{
	Use:     "fmt <file.asm>",
	Short:   "Reformat an assembly source file into canonical layout",
	Args:    cobra.ExactArgs(1),
	GroupID: "analyze",
	RunE:    runFmt,
}

func init() {
	fmtCmd.Flags().StringVar(&fmtStyle, "style", "", "column layout: default, compact, or expanded (overrides config)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite the file in place instead of printing to stdout")
}

func runFmt(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	source, err := os.ReadFile(args[0]) // #nosec G304 -- path given on the command line
	if err != nil {
		return err
	}

	style := fmtStyle
	if style == "" {
		style = cfg.Format.Style
	}

	var opts *tools.FormatOptions
	switch style {
	case "compact":
		opts = tools.CompactFormatOptions()
	case "expanded":
		opts = tools.ExpandedFormatOptions()
	default:
		opts = tools.DefaultFormatOptions()
	}

	result, err := tools.NewFormatter(opts).Format(string(source), args[0])
	if err != nil {
		return err
	}

	if fmtWrite {
		return os.WriteFile(args[0], []byte(result), 0644)
	}
	fmt.Print(result)
	return nil
}
