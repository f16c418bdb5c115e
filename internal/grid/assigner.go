package grid

import (
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
	"github.com/handiism/cover-mosaic/internal/lap"
	"github.com/handiism/cover-mosaic/internal/model"
)

// CostScale is the value the largest cost is rescaled to before solving.
const CostScale = 1e7

// Assignment maps points to lattice cells.
type Assignment struct {
	Side int
	// CellOf[i] is the cell holding point i.
	CellOf []int
	// PointAt[c] is the point in cell c, or model.Blank.
	PointAt []int
	// Cost is the total squared distance of the matching, before scaling.
	Cost float64
}

// Assigner computes exact point-to-cell matchings.
type Assigner struct {
	scale float64
}

// NewAssigner creates an Assigner.
func NewAssigner() *Assigner {
	return &Assigner{scale: CostScale}
}

// Assign matches every point to a distinct cell of a side x side lattice,
// minimizing the summed squared distance. len(points) may be less than
// side*side; the remaining cells are left blank.
func (a *Assigner) Assign(points []Point, side int) (*Assignment, error) {
	cells := Lattice(side)
	if len(points) == 0 {
		return nil, mosaicerr.New(mosaicerr.ErrCodeEmptyCatalog, "no points to assign")
	}
	if len(points) > len(cells) {
		return nil, mosaicerr.New(mosaicerr.ErrCodeInternal,
			"%d points do not fit a %dx%d lattice", len(points), side, side)
	}

	cost := CostMatrix(points, cells)
	var total float64
	raw := make([][]float64, len(cost))
	for i, row := range cost {
		raw[i] = append([]float64(nil), row...)
	}
	rescale(cost, a.scale)

	sol, err := lap.Solve(cost)
	if err != nil {
		return nil, mosaicerr.Wrap(mosaicerr.ErrCodeInternal, err, "assignment failed")
	}

	asg := &Assignment{
		Side:    side,
		CellOf:  sol.RowToCol,
		PointAt: make([]int, len(cells)),
	}
	for c, p := range sol.ColToRow {
		if p == lap.Unassigned {
			asg.PointAt[c] = model.Blank
			continue
		}
		asg.PointAt[c] = p
		total += raw[p][c]
	}
	asg.Cost = total
	return asg, nil
}

// CostMatrix returns the squared distance from every point (rows) to
// every cell (columns).
func CostMatrix(points, cells []Point) [][]float64 {
	cost := make([][]float64, len(points))
	for i, p := range points {
		row := make([]float64, len(cells))
		for j, c := range cells {
			row[j] = SquaredDistance(p, c)
		}
		cost[i] = row
	}
	return cost
}

// rescale multiplies cost in place so that its maximum equals scale. An
// all-zero matrix is left as is.
func rescale(cost [][]float64, scale float64) {
	var hi float64
	for _, row := range cost {
		for _, v := range row {
			if v > hi {
				hi = v
			}
		}
	}
	if hi == 0 {
		return
	}
	f := scale / hi
	for _, row := range cost {
		for j := range row {
			row[j] *= f
		}
	}
}
