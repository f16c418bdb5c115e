// Package config provides configuration management for cover-mosaic.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation into an immutable Config
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// 640px tiles, color sorting, seed 42
//	// Artwork from MusicBrainz / Cover Art Archive
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/mosaic.toml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Validation
//
// Settings are plain data. New checks them once and returns a Config whose
// values can no longer change:
//
//	cfg, err := config.New(settings)
//	if errors.Is(err, errors.ErrCodeUnsupported) {
//	    // shape = "rectangle"
//	}
//
// Validation happens before any artwork is requested, so a bad settings
// file never costs a network round trip.
package config
