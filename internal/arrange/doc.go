// Package arrange turns a loaded catalog into the paste order consumed by
// the composer.
//
// Two strategies are provided:
//
//   - SpatialCluster embeds each album's mean HSV color with t-SNE, snaps
//     the embedding onto a square lattice with an exact assignment and
//     reads the lattice row by row, so similar covers end up side by side.
//   - Chronological sorts albums by release date, oldest first, with
//     unknown dates last and catalog order breaking ties.
//
// Both return a model.Order of length side*side. How catalogs that are not
// perfect squares are handled is decided by a Policy.
package arrange
