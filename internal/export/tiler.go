// Package export plans print exports of validated templates: canvas pixel
// geometry at the template DPI and the tile grid the renderer draws in.
package export

// DefaultTileSize is the largest tile edge, in pixels, when none is given.
const DefaultTileSize = 4096

// Tile is a rectangle of the output canvas, in pixels.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Tiles covers a totalW x totalH canvas with tiles no larger than maxTile,
// row by row from the top-left corner. Edge tiles are clipped.
func Tiles(totalW, totalH, maxTile int) []Tile {
	if maxTile <= 0 {
		maxTile = DefaultTileSize
	}
	var tiles []Tile
	for y := 0; y < totalH; y += maxTile {
		for x := 0; x < totalW; x += maxTile {
			tiles = append(tiles, Tile{
				X: x,
				Y: y,
				W: min(maxTile, totalW-x),
				H: min(maxTile, totalH-y),
			})
		}
	}
	return tiles
}
