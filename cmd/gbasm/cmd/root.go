package cmd

import (
	"os"

	"github.com/spf13/cobra"

	config "github.com/lookbusy1344/gbasm/buildcfg"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gbasm",
	Short: "Game Boy ROM assembler",
	Long:  `gbasm assembles Game Boy cartridge images from LR35902 assembly source.`,
}

// Execute runs the root command, exiting the process with a non-zero
// status on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "assemble",
		Title: "Assembling:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "analyze",
		Title: "Static analysis:",
	})

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a gbasm config.toml (defaults to the platform config path)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(xrefCmd)
	rootCmd.AddCommand(tilesCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}
