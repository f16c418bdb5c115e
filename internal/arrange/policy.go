package arrange

import (
	"math"

	"github.com/handiism/cover-mosaic/internal/config"
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
)

// Policy sizes the lattice for a catalog.
type Policy struct {
	Overflow config.Overflow
	MaxTiles int
}

// Layout is the lattice chosen for a catalog.
type Layout struct {
	// Side is the lattice edge in cells.
	Side int
	// Participants is how many albums, taken from the front of the
	// strategy's ordering, are placed.
	Participants int
}

// Cells returns Side*Side.
func (l Layout) Cells() int {
	return l.Side * l.Side
}

// Dropped returns how many of n albums are left out.
func (l Layout) Dropped(n int) int {
	return n - l.Participants
}

// Layout computes the lattice for n albums.
//
// Returns EMPTY_CATALOG when n is 0 (or truncation leaves nothing),
// NON_SQUARE_CATALOG when n is not a perfect square under the reject
// policy, and CATALOG_TOO_LARGE when the lattice exceeds MaxTiles.
func (p Policy) Layout(n int) (Layout, error) {
	if n <= 0 {
		return Layout{}, mosaicerr.New(mosaicerr.ErrCodeEmptyCatalog, "catalog is empty")
	}

	root := Isqrt(n)
	layout := Layout{Side: root, Participants: n}
	if root*root != n {
		switch p.Overflow {
		case config.OverflowPad:
			layout.Side = root + 1
		case config.OverflowReject:
			return Layout{}, mosaicerr.New(mosaicerr.ErrCodeNonSquareCatalog,
				"catalog has %d albums, which is not a perfect square", n)
		default:
			layout.Participants = root * root
		}
	}

	if p.MaxTiles > 0 && layout.Cells() > p.MaxTiles {
		return Layout{}, mosaicerr.New(mosaicerr.ErrCodeCatalogTooLarge,
			"a %dx%d mosaic needs %d tiles, limit is %d", layout.Side, layout.Side, layout.Cells(), p.MaxTiles)
	}
	return layout, nil
}

// Isqrt returns floor(sqrt(n)) for n >= 0.
func Isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
