// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File writing with parent directory creation
//   - Filename sanitization for cross-platform compatibility
//   - Image decoding, resizing and encoding
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/mosaic.png", data)
//
//	// Derive an output name from the input catalog
//	out := ioutils.DefaultOutputPath("albums.csv", ".png") // "albums.png"
//
// # Image Processing
//
// The ImageService handles artwork manipulation:
//
//	svc := ioutils.NewImageService()
//
//	img, _ := svc.Decode(artworkBytes)
//	thumb := svc.Resize(img, 64, 64)
//	black := svc.Placeholder(640)
//	_ = svc.Encode(w, canvas, ioutils.FormatPNG)
package ioutils
