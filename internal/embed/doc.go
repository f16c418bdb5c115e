// Package embed projects feature vectors onto the unit square.
//
// The projection is an exact t-SNE: pairwise affinities are calibrated to
// a target perplexity, then a 2-D layout is found by gradient descent with
// momentum, per-coordinate gains and early exaggeration. The initial
// layout is drawn from a PCG generator seeded explicitly, so a given seed
// and input always produce bit-identical output. No global random state is
// read or written.
//
// Inputs are min-max normalized per column before distances are taken so
// that hue (degrees) does not dominate saturation and value. Outputs are
// min-max normalized per axis to [0,1].
package embed
