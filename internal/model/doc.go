// Package model defines the core data structures shared by the mosaic
// pipeline.
//
// # Album
//
// Album is one catalog entry with its decoded cover art:
//
//	album := model.NewAlbum("Radiohead", "OK Computer", img, released)
//	fmt.Println(album) // "Radiohead - OK Computer"
//
// Albums whose artwork could not be fetched carry a black placeholder:
//
//	album := model.NewPlaceholderAlbum("Unknown", "Lost", blackBitmap)
//	album.Placeholder // true
//
// # Catalog and Order
//
// A Catalog is the ordered album list. Positions never change once the
// catalog is loaded; all later stages refer to albums by index.
//
// An Order lists catalog indices in the sequence tiles are pasted onto
// the canvas (left-to-right, top-to-bottom). Blank marks an empty cell.
package model
