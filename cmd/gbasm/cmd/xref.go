package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/gbasm/tools"
)

var xrefCmd = &cobra.Command{
	Use:     "xref <file.asm>",
	Short:   "Print a cross-reference table of every label and constant",
	Args:    cobra.ExactArgs(1),
	GroupID: "analyze",
	RunE:    runXref,
}

func runXref(_ *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0]) // #nosec G304 -- path given on the command line
	if err != nil {
		return err
	}

	symbols, err := tools.NewXRefGenerator().Generate(string(source), args[0])
	if err != nil {
		return err
	}

	fmt.Print(tools.Report(symbols))
	return nil
}
