package gfx

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Palette is the four-shade grayscale palette non-paletted source images
// are quantized to before tile conversion. Index 0 is the lightest shade
// (conventionally the background), index 3 the darkest.
var Palette = color.Palette{
	color.Gray{Y: 0xFF},
	color.Gray{Y: 0xAA},
	color.Gray{Y: 0x55},
	color.Gray{Y: 0x00},
}

// loadPaletted decodes path as a PNG and returns it as an *image.Paletted
// with at most 4 colors. An image already paletted with 4 or fewer colors
// is used as-is (it may use its own palette ordering); anything else —
// true-color, grayscale, or a larger palette — is quantized to Palette
// with Floyd-Steinberg dithering.
func loadPaletted(path string) (*image.Paletted, error) {
	// #nosec G304 -- path is supplied by the caller of a library function, not untrusted input
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gfx: opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("gfx: decoding %s: %w", path, err)
	}

	if p, ok := img.(*image.Paletted); ok && len(p.Palette) <= 4 {
		return p, nil
	}

	bounds := img.Bounds()
	dst := image.NewPaletted(bounds, Palette)
	draw.FloydSteinberg.Draw(dst, bounds, img, bounds.Min)
	return dst, nil
}

// tileGrid extracts the 2-bit palette indices for an 8x8 block of img
// with its top-left corner at (ox, oy).
func tileGrid(img *image.Paletted, ox, oy int) [TileSize][TileSize]byte {
	var grid [TileSize][TileSize]byte
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			grid[y][x] = img.ColorIndexAt(img.Rect.Min.X+ox+x, img.Rect.Min.Y+oy+y) & 0x03
		}
	}
	return grid
}

// PNGToGBTiles decodes a palette-indexed (or quantizable) PNG whose width
// and height are both multiples of 8 and returns its tiles in row-major
// order: left to right, then top to bottom.
func PNGToGBTiles(path string) ([]Tile, error) {
	img, err := loadPaletted(path)
	if err != nil {
		return nil, err
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w%TileSize != 0 || h%TileSize != 0 {
		return nil, fmt.Errorf("gfx: image %s is %dx%d, not a multiple of %d in both dimensions", path, w, h, TileSize)
	}

	cols, rows := w/TileSize, h/TileSize
	tiles := make([]Tile, 0, cols*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			tile, err := tileFromIndices(tileGrid(img, tx*TileSize, ty*TileSize))
			if err != nil {
				return nil, fmt.Errorf("gfx: %s tile (%d,%d): %w", path, tx, ty, err)
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles, nil
}

// PNGToGBSprite decodes a single sprite image, either an 8x8 tile (one
// Tile) or an 8x16 stacked-sprite tile (two Tiles, top then bottom), as
// used by OBJ sprites in 8x16 mode.
func PNGToGBSprite(path string) ([]Tile, error) {
	img, err := loadPaletted(path)
	if err != nil {
		return nil, err
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w != TileSize || (h != TileSize && h != TileSize*2) {
		return nil, fmt.Errorf("gfx: sprite %s is %dx%d, expected %dx%d or %dx%d", path, w, h, TileSize, TileSize, TileSize, TileSize*2)
	}

	rows := h / TileSize
	tiles := make([]Tile, 0, rows)
	for ty := 0; ty < rows; ty++ {
		tile, err := tileFromIndices(tileGrid(img, 0, ty*TileSize))
		if err != nil {
			return nil, fmt.Errorf("gfx: %s: %w", path, err)
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}
