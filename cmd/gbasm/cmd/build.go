package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/gbasm/rom"
)

var (
	buildOutput string
	buildTitle  string
)

var buildCmd = &cobra.Command{
	Use:     "build <entry.asm>",
	Short:   "Assemble a source file into a Game Boy ROM image",
	Args:    cobra.ExactArgs(1),
	GroupID: "assemble",
	RunE:    runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output ROM path (defaults to the config's output.default_path)")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "cartridge title, up to 11 characters (overrides config)")
}

func runBuild(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	title := cfg.Header.Title
	if buildTitle != "" {
		title = buildTitle
	}
	header := rom.Header{
		Title:       title,
		CartType:    byte(cfg.Header.CartType),
		ROMSizeCode: byte(cfg.Header.ROMSizeCode),
		RAMSizeCode: byte(cfg.Header.RAMSizeCode),
		Destination: byte(cfg.Header.Destination),
		LicenseCode: byte(cfg.Header.LicenseCode),
	}

	b := rom.New()
	if err := b.AddBasicInterruptsAndJumps(); err != nil {
		return err
	}
	if err := b.AddHeader(header); err != nil {
		return err
	}
	if err := b.AdvanceAddress(0, 0x0150); err != nil {
		return err
	}
	if err := b.AddAsmFile(args[0]); err != nil {
		return err
	}

	out := buildOutput
	if out == "" {
		out = cfg.Output.DefaultPath
	}
	if err := b.WriteToDisk(out); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "wrote %s\n", out)
	return nil
}
