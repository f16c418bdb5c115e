package grid

// Point is a position in the unit square.
type Point struct {
	X, Y float64
}

// Linspace returns side evenly spaced values from 0 to 1 inclusive.
// A single value is 0.
func Linspace(side int) []float64 {
	if side <= 0 {
		return nil
	}
	out := make([]float64, side)
	if side == 1 {
		return out
	}
	step := 1 / float64(side-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	out[side-1] = 1
	return out
}

// Lattice returns the side*side cell centers in row-major order.
func Lattice(side int) []Point {
	axis := Linspace(side)
	cells := make([]Point, side*side)
	for i := range cells {
		cells[i] = Point{X: axis[i%side], Y: axis[i/side]}
	}
	return cells
}

// SquaredDistance returns |a-b|^2.
func SquaredDistance(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
