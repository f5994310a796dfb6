// Package gfx converts palette-indexed images into Game Boy tile data: 2
// bits per pixel, 16 bytes per 8x8 tile, bitplanes interleaved per row
// (the low bitplane byte followed by the high bitplane byte).
package gfx

import "fmt"

// TileSize is the width and height of one Game Boy tile in pixels.
const TileSize = 8

// TileBytes is the encoded size of one tile: two bitplane bytes per row,
// eight rows.
const TileBytes = TileSize * 2

// Tile is one 8x8, 2-bit-per-pixel Game Boy tile: 16 bytes, low bitplane
// byte then high bitplane byte for each of the 8 rows, top to bottom.
type Tile [TileBytes]byte

// PixelAt returns the 2-bit color index (0-3) at (x, y) within the tile.
func (t Tile) PixelAt(x, y int) byte {
	lo := t[y*2]
	hi := t[y*2+1]
	shift := uint(7 - x)
	bit0 := (lo >> shift) & 1
	bit1 := (hi >> shift) & 1
	return bit0 | bit1<<1
}

// tileFromIndices encodes one 8x8 block of 2-bit palette indices (row
// major, 8 rows of 8 indices each) into Game Boy tile bytes.
func tileFromIndices(indices [TileSize][TileSize]byte) (Tile, error) {
	var t Tile
	for y := 0; y < TileSize; y++ {
		var lo, hi byte
		for x := 0; x < TileSize; x++ {
			idx := indices[y][x]
			if idx > 3 {
				return t, fmt.Errorf("gfx: palette index %d out of range 0-3 at pixel (%d,%d)", idx, x, y)
			}
			shift := uint(7 - x)
			lo |= (idx & 1) << shift
			hi |= ((idx >> 1) & 1) << shift
		}
		t[y*2] = lo
		t[y*2+1] = hi
	}
	return t, nil
}
