// Package grid snaps embedded points onto a square lattice and reads the
// lattice back out in display order.
//
// The lattice has side*side cells with coordinates linspace(0,1,side) on
// each axis; cell i sits at column i%side and row i/side. The Assigner
// solves the exact minimum-cost matching between points and cells under
// squared Euclidean distance, and Sequence orders the resulting
// placements row by row, left to right, which is the order the composer
// fills the canvas in.
package grid
