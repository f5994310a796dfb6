package cmd

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/gbasm/gfx"
)

var tilesOutput string

var tilesCmd = &cobra.Command{
	Use:     "tiles <image.png>",
	Short:   "Convert a PNG into Game Boy tile data (.bin)",
	Args:    cobra.ExactArgs(1),
	GroupID: "assemble",
	RunE:    runTiles,
}

func init() {
	tilesCmd.Flags().StringVarP(&tilesOutput, "output", "o", "", "output .bin path (defaults to the input name with a .bin extension)")
}

func runTiles(_ *cobra.Command, args []string) error {
	path := args[0]

	w, h, err := pngDimensions(path)
	if err != nil {
		return err
	}

	var tiles []gfx.Tile
	if w == gfx.TileSize && (h == gfx.TileSize || h == gfx.TileSize*2) {
		tiles, err = gfx.PNGToGBSprite(path)
	} else {
		tiles, err = gfx.PNGToGBTiles(path)
	}
	if err != nil {
		return err
	}

	data := make([]byte, 0, len(tiles)*gfx.TileBytes)
	for _, t := range tiles {
		data = append(data, t[:]...)
	}

	out := tilesOutput
	if out == "" {
		out = path + ".bin"
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %d tiles to %s\n", len(tiles), out)
	return nil
}

func pngDimensions(path string) (w, h int, err error) {
	f, err := os.Open(path) // #nosec G304 -- path given on the command line
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
