// Package lap solves the linear assignment problem exactly.
//
// Solve finds, for an n x m cost matrix with n <= m, the injective mapping
// of rows to columns with minimum total cost. It uses shortest augmenting
// paths with dual potentials (the Jonker-Volgenant / Hungarian family) and
// runs in O(n^2 m). Ties are broken toward the lowest column index, so
// the result is deterministic for a given matrix.
package lap

import (
	"errors"
	"fmt"
	"math"
)

// Unassigned marks a column that no row was mapped to.
const Unassigned = -1

var (
	// ErrInfeasible is returned when no complete row assignment exists.
	ErrInfeasible = errors.New("lap: infeasible assignment")

	// ErrInvalidCost is returned for NaN or infinite costs.
	ErrInvalidCost = errors.New("lap: cost is not finite")
)

// Solution is an optimal assignment.
type Solution struct {
	// RowToCol[i] is the column assigned to row i.
	RowToCol []int
	// ColToRow[j] is the row assigned to column j, or Unassigned.
	ColToRow []int
	// Cost is the sum of the selected entries.
	Cost float64
}

// Solve returns a minimum-cost assignment of every row of cost to a
// distinct column. All rows must have the same length, which must be at
// least the number of rows.
func Solve(cost [][]float64) (*Solution, error) {
	n := len(cost)
	if n == 0 {
		return &Solution{}, nil
	}
	m := len(cost[0])
	if m < n {
		return nil, fmt.Errorf("%w: %d rows, %d columns", ErrInfeasible, n, m)
	}
	for i, row := range cost {
		if len(row) != m {
			return nil, fmt.Errorf("lap: row %d has %d columns, want %d", i, len(row), m)
		}
		for j, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("%w at (%d,%d)", ErrInvalidCost, i, j)
			}
		}
	}

	// 1-indexed; column 0 is the virtual source of each augmenting path.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	match := make([]int, m+1) // match[j] = row owning column j, 0 if free
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 == 0 {
				return nil, ErrInfeasible
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Flip the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	sol := &Solution{
		RowToCol: make([]int, n),
		ColToRow: make([]int, m),
	}
	for j := range sol.ColToRow {
		sol.ColToRow[j] = Unassigned
	}
	for j := 1; j <= m; j++ {
		if r := match[j]; r != 0 {
			sol.RowToCol[r-1] = j - 1
			sol.ColToRow[j-1] = r - 1
			sol.Cost += cost[r-1][j-1]
		}
	}
	return sol, nil
}
