// Package compose pastes album artwork onto the mosaic canvas.
package compose

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
	"github.com/handiism/cover-mosaic/internal/model"
)

// Composer renders an Order into a single bitmap.
type Composer struct {
	cellSize int
}

// New creates a Composer that resizes every tile to cellSize x cellSize.
func New(cellSize int) *Composer {
	return &Composer{cellSize: cellSize}
}

// CellSize returns the tile edge in pixels.
func (c *Composer) CellSize() int {
	return c.cellSize
}

// Compose pastes the artwork of order's albums left to right, top to
// bottom onto a black (side*cellSize)^2 canvas, wrapping to the next row
// when the right edge is reached. Blank entries leave their cell black.
// The input catalog is not modified.
func (c *Composer) Compose(catalog model.Catalog, order model.Order) (*image.NRGBA, error) {
	if len(order) == 0 {
		return nil, mosaicerr.New(mosaicerr.ErrCodeEmptyCatalog, "nothing to compose")
	}
	if c.cellSize <= 0 {
		return nil, mosaicerr.New(mosaicerr.ErrCodeInternal, "cell size must be positive, got %d", c.cellSize)
	}
	side := sideOf(len(order))
	if side*side != len(order) {
		return nil, mosaicerr.New(mosaicerr.ErrCodeInternal, "order of length %d is not square", len(order))
	}

	width := side * c.cellSize
	canvas := imaging.New(width, width, color.Black)

	x, y := 0, 0
	for _, idx := range order {
		if idx != model.Blank {
			if idx < 0 || idx >= len(catalog) {
				return nil, mosaicerr.New(mosaicerr.ErrCodeInternal, "order refers to album %d of %d", idx, len(catalog))
			}
			tile := imaging.Resize(catalog[idx].Artwork, c.cellSize, c.cellSize, imaging.CatmullRom)
			r := image.Rect(x, y, x+c.cellSize, y+c.cellSize)
			draw.Draw(canvas, r, tile, image.Point{}, draw.Src)
		}

		x += c.cellSize
		if x >= width {
			x = 0
			y += c.cellSize
		}
	}
	return canvas, nil
}

func sideOf(n int) int {
	s := 0
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}
