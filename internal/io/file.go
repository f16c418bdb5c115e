package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// WriteFile writes data to path, creating parent directories as needed.
//
// The file is created with mode 0644 if it doesn't exist, or truncated if
// it does. Returns ctx.Err() without writing if the context is already
// cancelled.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots    = regexp.MustCompile(`\.+$`)
	repeatedSpacing = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in
// file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	SanitizeFileName("Favourites: 2024/25") // Returns "Favourites_ 2024_25"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpacing.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// DefaultOutputPath derives an output file name from the input catalog
// path: "albums/2024 faves.csv" becomes "albums/2024 faves.png".
func DefaultOutputPath(catalogPath, ext string) string {
	dir := filepath.Dir(catalogPath)
	base := strings.TrimSuffix(filepath.Base(catalogPath), filepath.Ext(catalogPath))
	base = SanitizeFileName(base)
	if base == "" {
		base = "mosaic"
	}
	return filepath.Join(dir, base+ext)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
