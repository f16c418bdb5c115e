package grid

import (
	"cmp"
	"slices"

	"github.com/handiism/cover-mosaic/internal/model"
)

// Placement is an album sitting at a lattice cell. Album is an index into
// the catalog, or model.Blank for an empty cell.
type Placement struct {
	Album int
	Point
}

// Placements lists every cell of the assignment with the album placed in
// it. ids maps point indices to catalog indices.
func (a *Assignment) Placements(ids []int) []Placement {
	cells := Lattice(a.Side)
	out := make([]Placement, len(cells))
	for c, p := range a.PointAt {
		album := model.Blank
		if p != model.Blank {
			album = ids[p]
		}
		out[c] = Placement{Album: album, Point: cells[c]}
	}
	return out
}

// Sequence orders placements by row (y), then column (x), then album index
// and returns the album indices. Blank cells keep their slot so the result
// lines up with the canvas.
func Sequence(placements []Placement) model.Order {
	sorted := slices.Clone(placements)
	slices.SortStableFunc(sorted, func(a, b Placement) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Album, b.Album)
	})

	order := make(model.Order, len(sorted))
	for i, p := range sorted {
		order[i] = p.Album
	}
	return order
}
